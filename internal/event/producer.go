package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apper-canvas/shopsync/internal/domain"
	pkgkafka "github.com/apper-canvas/shopsync/pkg/kafka"
	"github.com/apper-canvas/shopsync/pkg/money"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated          = "shopsync.cart.updated"
	TopicCartCleared          = "shopsync.cart.cleared"
	TopicOrderCreated         = "shopsync.order.created"
	TopicOrderStatusChanged   = "shopsync.order.status_changed"
	TopicInvoiceCreated       = "shopsync.invoice.created"
	TopicInvoiceStatusChanged = "shopsync.invoice.status_changed"
)

// Aggregate type constants.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeOrder   = "order"
	AggregateTypeInvoice = "invoice"
)

// Source identifier for events originating from this service.
const Source = "shopsync"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID    string      `json:"user_id"`
	ItemCount int         `json:"item_count"`
	Total     money.Cents `json:"total"`
	Currency  string      `json:"currency"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	Total   money.Cents `json:"total"`
	Status  string      `json:"status"`
}

// InvoiceCreatedData is the payload for an invoice.created event.
type InvoiceCreatedData struct {
	InvoiceID     string      `json:"invoice_id"`
	InvoiceNumber string      `json:"invoice_number"`
	UserID        string      `json:"user_id"`
	Total         money.Cents `json:"total"`
	Status        string      `json:"status"`
}

// StatusChangedData is the payload for order and invoice status_changed events.
type StatusChangedData struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		UserID:    cart.UserID,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total,
		Currency:  cart.Currency,
	}

	return p.publish(ctx, TopicCartUpdated, cart.UserID, AggregateTypeCart, data)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicCartCleared, userID, AggregateTypeCart, CartClearedData{UserID: userID})
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	data := OrderCreatedData{
		OrderID: o.ID,
		UserID:  o.UserID,
		Total:   o.Total,
		Status:  o.Status,
	}

	return p.publish(ctx, TopicOrderCreated, o.ID, AggregateTypeOrder, data)
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, o *domain.Order, from string) error {
	data := StatusChangedData{ID: o.ID, UserID: o.UserID, From: from, To: o.Status}
	return p.publish(ctx, TopicOrderStatusChanged, o.ID, AggregateTypeOrder, data)
}

// PublishInvoiceCreated publishes an invoice.created event.
func (p *Producer) PublishInvoiceCreated(ctx context.Context, inv *domain.Invoice) error {
	data := InvoiceCreatedData{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		UserID:        inv.UserID,
		Total:         inv.Total,
		Status:        inv.Status,
	}

	return p.publish(ctx, TopicInvoiceCreated, inv.ID, AggregateTypeInvoice, data)
}

// PublishInvoiceStatusChanged publishes an invoice.status_changed event.
func (p *Producer) PublishInvoiceStatusChanged(ctx context.Context, inv *domain.Invoice, from string) error {
	data := StatusChangedData{ID: inv.ID, UserID: inv.UserID, From: from, To: inv.Status}
	return p.publish(ctx, TopicInvoiceStatusChanged, inv.ID, AggregateTypeInvoice, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
