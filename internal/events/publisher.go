// Package events publishes order-placed messages to an AMQP queue so a
// fulfillment process (packing, delivery coordination) can pick them up.
// The publisher is optional: the storefront works without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/feriavaleria/storefront/internal/models"
)

const defaultPoolSize = 4

// OrderPlaced is the message body published after an order commits.
type OrderPlaced struct {
	OrderID    string    `json:"order_id"`
	BuyerEmail string    `json:"buyer_email"`
	ProductIDs []int64   `json:"product_ids"`
	Total      string    `json:"total"`
	PlacedAt   time.Time `json:"placed_at"`
}

// Publisher sends order-placed events to the fulfillment queue.
type Publisher struct {
	pool      *channelPool
	queueName string
}

// NewPublisher connects to the broker and prepares the channel pool.
func NewPublisher(url, queueName string) (*Publisher, error) {
	pool, err := newChannelPool(url, queueName, defaultPoolSize)
	if err != nil {
		return nil, err
	}
	return &Publisher{pool: pool, queueName: queueName}, nil
}

// PublishOrderPlaced publishes a persistent JSON message for the order.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, order models.Order) error {
	ch, err := p.pool.get()
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}
	defer p.pool.put(ch)

	ids := make([]int64, 0, len(order.Products))
	for _, product := range order.Products {
		ids = append(ids, product.ID)
	}

	body, err := json.Marshal(OrderPlaced{
		OrderID:    order.ID,
		BuyerEmail: order.Contact.Email,
		ProductIDs: ids,
		Total:      order.Total.String(),
		PlacedAt:   order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	return nil
}

// Close shuts down the channel pool and the connection.
func (p *Publisher) Close() {
	p.pool.close()
}
