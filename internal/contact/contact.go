// Package contact validates buyer contact details for checkout and
// derives the WhatsApp deep link used in order notifications.
package contact

import (
	"net/mail"
	"strings"

	"github.com/feriavaleria/storefront/internal/models"
)

// FieldErrors maps a field name to a human-readable message.
// An empty map means the input is valid.
type FieldErrors map[string]string

const (
	msgName  = "Por favor ingresa tu nombre."
	msgEmail = "Por favor ingresa un email válido."
	msgPhone = "Por favor ingresa un teléfono válido."
)

// Validate checks the three contact fields independently and reports
// every violation at once. It is a pure function: same input, same result.
func Validate(name, email, phone string) (models.Contact, FieldErrors) {
	errs := make(FieldErrors)

	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		errs["name"] = msgName
	}

	email = strings.TrimSpace(email)
	if !validEmail(email) {
		errs["email"] = msgEmail
	}

	phone = strings.TrimSpace(phone)
	if len(phone) < 6 {
		errs["phone"] = msgPhone
	}

	if len(errs) > 0 {
		return models.Contact{}, errs
	}
	return models.Contact{Name: name, Email: email, Phone: phone}, nil
}

// validEmail requires local@domain with at least one dot in the domain.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".")
}

// Digits strips everything but digits from a phone number, tolerating
// spaces, dashes and a leading plus sign.
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds the wa.me deep link for a phone number.
// Returns "" when the number has no digits at all.
func WhatsAppLink(phone string) string {
	digits := Digits(phone)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}
