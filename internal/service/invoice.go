package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apper-canvas/shopsync/internal/domain"
	"github.com/apper-canvas/shopsync/internal/event"
	"github.com/apper-canvas/shopsync/internal/repository"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/money"
	"github.com/apper-canvas/shopsync/pkg/pagination"
)

// InvoiceLineInput is a single line on a new invoice. A line either
// references a catalog product (name and price resolved at creation) or
// carries an explicit name and unit price for free-form lines.
type InvoiceLineInput struct {
	ProductID string      `json:"product_id,omitempty"`
	Name      string      `json:"name,omitempty"`
	UnitPrice money.Cents `json:"unit_price,omitempty"`
	Quantity  int         `json:"quantity" validate:"required,gte=1"`
}

// CreateInvoiceInput holds the parameters for creating an invoice.
type CreateInvoiceInput struct {
	ClientName  string             `json:"client_name" validate:"required"`
	ClientEmail string             `json:"client_email" validate:"omitempty,email"`
	Notes       string             `json:"notes"`
	TaxRate     *money.BasisPoints `json:"tax_rate_bp,omitempty"`
	Items       []InvoiceLineInput `json:"items"`
}

// UpdateInvoiceInput holds the patchable, non-monetary invoice fields. Nil
// fields are left unchanged.
type UpdateInvoiceInput struct {
	ClientName  *string    `json:"client_name,omitempty"`
	ClientEmail *string    `json:"client_email,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// ListInvoicesInput narrows and paginates invoice listings.
type ListInvoicesInput struct {
	Status     string
	Search     string
	IssuedFrom time.Time
	IssuedTo   time.Time
}

// InvoiceService implements the business logic for invoice operations.
type InvoiceService struct {
	repo     repository.InvoiceRepository
	settings repository.SettingsRepository
	catalog  ProductCatalog
	producer *event.Producer
	logger   *slog.Logger
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(repo repository.InvoiceRepository, settings repository.SettingsRepository, catalog ProductCatalog, producer *event.Producer, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:     repo,
		settings: settings,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
	}
}

// Create builds an invoice from the given lines in status draft. Subtotal,
// tax, and total are derived once here and frozen; later updates can only
// touch non-monetary fields. An empty line list is rejected before any store
// call.
func (s *InvoiceService) Create(ctx context.Context, userID string, input CreateInvoiceInput) (*domain.Invoice, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ClientName == "" {
		return nil, apperrors.InvalidInput("client name is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.EmptyInvoice()
	}

	settings, err := resolveSettings(ctx, s.settings, userID)
	if err != nil {
		return nil, err
	}

	taxRate := settings.DefaultTaxRate
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 10_000 {
			return nil, apperrors.InvalidInput("tax rate must be between 0 and 10000 basis points")
		}
		taxRate = *input.TaxRate
	}

	items, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	totals, err := domain.ComputeTotals(items, taxRate)
	if err != nil {
		return nil, err
	}

	notes := input.Notes
	if notes == "" {
		notes = settings.CustomerNote
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: newInvoiceNumber(settings.NumberPrefix, now),
		UserID:        userID,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		Status:        domain.InvoiceStatusDraft,
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxRate:       totals.TaxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		Currency:      "USD",
		Notes:         notes,
		IssuedAt:      now,
		DueAt:         now.AddDate(0, 0, settings.PaymentTermsDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	if err := s.producer.PublishInvoiceCreated(ctx, inv); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish invoice.created event",
			slog.String("invoice_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "invoice created",
		slog.String("invoice_id", inv.ID),
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("user_id", userID),
		slog.Int64("total", int64(inv.Total)),
	)

	return inv, nil
}

// Get retrieves an invoice by ID.
func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("invoice id is required")
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return inv, nil
}

// List returns the user's invoices matching the filter, newest first.
func (s *InvoiceService) List(ctx context.Context, userID string, input ListInvoicesInput, params pagination.Params) ([]*domain.Invoice, int, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("user id is required")
	}
	if input.Status != "" && !domain.IsValidInvoiceStatus(input.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid invoice status %q", input.Status))
	}

	filter := repository.InvoiceListFilter{
		UserID:     userID,
		Status:     input.Status,
		Search:     input.Search,
		IssuedFrom: input.IssuedFrom,
		IssuedTo:   input.IssuedTo,
	}

	invoices, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	return invoices, total, nil
}

// Update patches the invoice's non-monetary fields. Amounts and line items
// are frozen at creation and cannot be changed here.
func (s *InvoiceService) Update(ctx context.Context, id string, input UpdateInvoiceInput) (*domain.Invoice, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("invoice id is required")
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice for update: %w", err)
	}

	if input.ClientName != nil {
		if *input.ClientName == "" {
			return nil, apperrors.InvalidInput("client name must not be empty")
		}
		inv.ClientName = *input.ClientName
	}
	if input.ClientEmail != nil {
		inv.ClientEmail = *input.ClientEmail
	}
	if input.Notes != nil {
		inv.Notes = *input.Notes
	}
	if input.DueAt != nil {
		inv.DueAt = *input.DueAt
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice updated",
		slog.String("invoice_id", inv.ID),
	)

	return inv, nil
}

// UpdateStatus moves the invoice to a new status, enforcing the transition
// table. Paid and cancelled invoices admit no further changes.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id, status string) (*domain.Invoice, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("invoice id is required")
	}
	if !domain.IsValidInvoiceStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid invoice status %q", status))
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice for status update: %w", err)
	}

	if !inv.CanTransitionTo(status) {
		return nil, apperrors.IllegalTransition(inv.Status, status)
	}

	from := inv.Status
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishInvoiceStatusChanged(ctx, inv, from); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish invoice.status_changed event",
			slog.String("invoice_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "invoice status changed",
		slog.String("invoice_id", inv.ID),
		slog.String("from", from),
		slog.String("to", status),
	)

	return inv, nil
}

// Delete soft-deletes an invoice. The record remains for audit but no read
// path returns it afterwards.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("invoice id is required")
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice deleted",
		slog.String("invoice_id", id),
	)

	return nil
}

// resolveSettings loads the user's invoice settings, falling back to the
// documented defaults when none were ever saved.
func resolveSettings(ctx context.Context, repo repository.SettingsRepository, userID string) (*domain.InvoiceSettings, error) {
	settings, err := repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			defaults := domain.DefaultInvoiceSettings(userID)
			return &defaults, nil
		}
		return nil, fmt.Errorf("get invoice settings: %w", err)
	}
	return settings, nil
}

// resolveLines turns line inputs into priced line items. Product references
// are resolved through the catalog so the stored name and price reflect the
// catalog at creation time; free-form lines must carry their own name and
// price.
func (s *InvoiceService) resolveLines(ctx context.Context, inputs []InvoiceLineInput) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	for _, in := range inputs {
		name := in.Name
		unitPrice := in.UnitPrice

		if in.ProductID != "" {
			product, err := s.catalog.GetProduct(ctx, in.ProductID)
			if err != nil {
				return nil, fmt.Errorf("lookup product %s: %w", in.ProductID, err)
			}
			name = product.Name
			unitPrice = product.Price
		} else if name == "" {
			return nil, apperrors.InvalidInput("line item requires a product id or a name")
		}

		lineTotal, err := money.LineTotal(unitPrice, in.Quantity)
		if err != nil {
			return nil, err
		}

		items = append(items, domain.LineItem{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  in.Quantity,
			LineTotal: lineTotal,
		})
	}
	return items, nil
}

// newInvoiceNumber builds a human-readable, collision-resistant invoice
// number: <prefix><yyyymmdd>-<6 hex chars>.
func newInvoiceNumber(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("%s%s-%s", prefix, now.Format("20060102"), suffix)
}
