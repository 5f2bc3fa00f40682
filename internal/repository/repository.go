package repository

import (
	"context"
	"time"

	"github.com/apper-canvas/shopsync/internal/domain"
	"github.com/apper-canvas/shopsync/pkg/pagination"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its user ID.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// SaveIfVersion persists the cart only if the stored version still equals
	// expectedVersion. It returns false with a nil error when another writer
	// got there first.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by user ID.
	Delete(ctx context.Context, userID string) error
}

// InvoiceListFilter narrows invoice listings.
type InvoiceListFilter struct {
	UserID string
	Status string
	// Search matches against invoice number and client name.
	Search string
	// IssuedFrom and IssuedTo bound the issue date range when non-zero.
	IssuedFrom time.Time
	IssuedTo   time.Time
}

// InvoiceRepository defines the interface for invoice persistence operations.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter, params pagination.Params) ([]*domain.Invoice, int, error)
	// Update persists non-monetary fields (client, notes, due date).
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, id, status string) error
	// SoftDelete marks the invoice deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, userID string, params pagination.Params) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// SettingsRepository defines the interface for per-user invoice settings.
type SettingsRepository interface {
	// Get returns the stored settings, or ErrNotFound if the user never saved any.
	Get(ctx context.Context, userID string) (*domain.InvoiceSettings, error)
	Save(ctx context.Context, settings *domain.InvoiceSettings) error
	Delete(ctx context.Context, userID string) error
}
