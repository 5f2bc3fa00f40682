package domain

import "github.com/apper-canvas/shopsync/pkg/money"

// InvoiceSettings holds per-user invoicing preferences.
type InvoiceSettings struct {
	UserID           string            `json:"user_id"`
	DefaultTaxRate   money.BasisPoints `json:"default_tax_rate_bp"`
	PaymentTermsDays int               `json:"payment_terms_days"`
	NumberPrefix     string            `json:"number_prefix"`
	CompanyName      string            `json:"company_name,omitempty"`
	CompanyAddress   string            `json:"company_address,omitempty"`
	// CustomerNote is printed on every invoice unless overridden per invoice.
	CustomerNote string `json:"customer_note,omitempty"`
}

// DefaultInvoiceSettings returns the settings used when a user has never
// saved any: 10% tax, net-30 terms, "INV-" numbering.
func DefaultInvoiceSettings(userID string) InvoiceSettings {
	return InvoiceSettings{
		UserID:           userID,
		DefaultTaxRate:   1000,
		PaymentTermsDays: 30,
		NumberPrefix:     "INV-",
	}
}
