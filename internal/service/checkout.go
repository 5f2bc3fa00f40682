package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/apper-canvas/shopsync/internal/domain"
	"github.com/apper-canvas/shopsync/internal/event"
	"github.com/apper-canvas/shopsync/internal/repository"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
)

// CheckoutInput holds the billing details for checkout. ClientName is
// required because the checkout produces an invoice alongside the order.
type CheckoutInput struct {
	ClientName  string `json:"client_name" validate:"required"`
	ClientEmail string `json:"client_email" validate:"omitempty,email"`
}

// CheckoutResult is the pair of records produced by a successful checkout.
// The two share one cart snapshot but are independent afterwards: paying the
// invoice and fulfilling the order progress separately.
type CheckoutResult struct {
	Order   *domain.Order   `json:"order"`
	Invoice *domain.Invoice `json:"invoice"`
}

// CheckoutService turns a cart into an order plus an invoice.
type CheckoutService struct {
	carts    repository.CartRepository
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
	settings repository.SettingsRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(carts repository.CartRepository, orders repository.OrderRepository, invoices repository.InvoiceRepository, settings repository.SettingsRepository, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		invoices: invoices,
		settings: settings,
		producer: producer,
		logger:   logger,
	}
}

// Checkout snapshots the user's cart, derives totals once, and creates an
// order (status pending) and an invoice (status pending) from that single
// snapshot. The cart is cleared on success. An empty or missing cart refuses
// checkout before any record is written.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ClientName == "" {
		return nil, apperrors.InvalidInput("client name is required")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.EmptyInvoice()
		}
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.EmptyInvoice()
	}

	settings, err := resolveSettings(ctx, s.settings, userID)
	if err != nil {
		return nil, err
	}

	items, err := domain.LineItemsFromCart(cart, func() string { return uuid.New().String() })
	if err != nil {
		return nil, err
	}

	totals, err := domain.ComputeTotals(items, settings.DefaultTaxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	order := &domain.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		Items:     items,
		Subtotal:  totals.Subtotal,
		TaxRate:   totals.TaxRate,
		TaxAmount: totals.TaxAmount,
		Total:     totals.Total,
		Currency:  cart.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	inv := &domain.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: newInvoiceNumber(settings.NumberPrefix, now),
		UserID:        userID,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		Status:        domain.InvoiceStatusPending,
		Items:         invoiceLines(items),
		Subtotal:      totals.Subtotal,
		TaxRate:       totals.TaxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Currency:      cart.Currency,
		Notes:         settings.CustomerNote,
		IssuedAt:      now,
		DueAt:         now.AddDate(0, 0, settings.PaymentTermsDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		// The order and invoice exist; an uncleared cart is recoverable.
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.publishCheckoutEvents(ctx, userID, order, inv)

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.String("invoice_id", inv.ID),
		slog.Int64("total", int64(order.Total)),
	)

	return &CheckoutResult{Order: order, Invoice: inv}, nil
}

func (s *CheckoutService) publishCheckoutEvents(ctx context.Context, userID string, order *domain.Order, inv *domain.Invoice) {
	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishInvoiceCreated(ctx, inv); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish invoice.created event",
			slog.String("invoice_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// invoiceLines clones order line items with fresh IDs so the invoice_items
// rows do not reuse order_items primary keys.
func invoiceLines(items []domain.LineItem) []domain.LineItem {
	cloned := make([]domain.LineItem, len(items))
	copy(cloned, items)
	for i := range cloned {
		cloned[i].ID = uuid.New().String()
	}
	return cloned
}
