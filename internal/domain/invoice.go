package domain

import (
	"time"

	"github.com/apper-canvas/shopsync/pkg/money"
)

// Invoice status constants.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice represents an issued invoice. Monetary fields are frozen at
// creation; only status and non-monetary fields may change afterwards.
type Invoice struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	UserID        string            `json:"user_id"`
	ClientName    string            `json:"client_name,omitempty"`
	ClientEmail   string            `json:"client_email,omitempty"`
	Status        string            `json:"status"`
	Items         []LineItem        `json:"items"`
	Subtotal      money.Cents       `json:"subtotal"`
	TaxRate       money.BasisPoints `json:"tax_rate_bp"`
	TaxAmount     money.Cents       `json:"tax_amount"`
	Total         money.Cents       `json:"total"`
	Currency      string            `json:"currency"`
	Notes         string            `json:"notes,omitempty"`
	IssuedAt      time.Time         `json:"issued_at"`
	DueAt         time.Time         `json:"due_at"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ValidInvoiceStatuses returns all valid invoice statuses.
func ValidInvoiceStatuses() []string {
	return []string{
		InvoiceStatusDraft,
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
}

// IsValidInvoiceStatus checks if a status string is valid.
func IsValidInvoiceStatus(status string) bool {
	for _, s := range ValidInvoiceStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// InvoiceTransitions defines which invoice status transitions are valid.
// Paid and cancelled are terminal.
func InvoiceTransitions() map[string][]string {
	return map[string][]string{
		InvoiceStatusDraft:     {InvoiceStatusPending, InvoiceStatusCancelled},
		InvoiceStatusPending:   {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
		InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusCancelled},
		InvoiceStatusPaid:      {},
		InvoiceStatusCancelled: {},
	}
}

// CanTransitionTo checks if the invoice can move to the target status.
func (inv *Invoice) CanTransitionTo(target string) bool {
	allowed, ok := InvoiceTransitions()[inv.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the invoice status admits no further transitions.
func (inv *Invoice) IsTerminal() bool {
	return len(InvoiceTransitions()[inv.Status]) == 0
}
