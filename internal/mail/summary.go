package mail

import (
	"fmt"
	"strings"

	"github.com/feriavaleria/storefront/internal/contact"
	"github.com/feriavaleria/storefront/internal/models"
)

const (
	SubjectSeller = "Nuevo pedido recibido"
	SubjectBuyer  = "Confirmación de tu pedido"

	reservationNotice = "Los productos quedan reservados por 48 horas hasta coordinar la entrega y el pago."
)

// ComposeOrderSummary builds the plain-text order summary sent to the
// seller. Prices come from the committed order, never from the client.
func ComposeOrderSummary(order models.Order) string {
	var b strings.Builder

	b.WriteString("Pedido de Feria Americana Valeria\n\n")
	fmt.Fprintf(&b, "Pedido: %s\n", order.ID)
	fmt.Fprintf(&b, "Nombre comprador: %s\n", order.Contact.Name)
	fmt.Fprintf(&b, "Email comprador: %s\n", order.Contact.Email)
	fmt.Fprintf(&b, "Teléfono: %s\n", order.Contact.Phone)

	if link := contact.WhatsAppLink(order.Contact.Phone); link != "" {
		fmt.Fprintf(&b, "WhatsApp: %s\n", link)
	}

	b.WriteString("\nProductos:\n")
	for _, p := range order.Products {
		b.WriteString(formatProductLine(p))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nTotal: $%s\n\n", order.Total.StringFixed(0))
	b.WriteString(reservationNotice)
	b.WriteString("\n")

	return b.String()
}

// ComposeBuyerConfirmation prepends the thank-you line to the summary.
func ComposeBuyerConfirmation(order models.Order) string {
	return "¡Gracias por tu compra!\n\n" + ComposeOrderSummary(order)
}

func formatProductLine(p models.Product) string {
	details := p.Brand
	if p.Size != "" {
		details += " - " + p.Size
	}
	return fmt.Sprintf("- [%d] %s (%s) - $%s", p.ID, p.Title, details, p.Price.StringFixed(0))
}
