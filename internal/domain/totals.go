package domain

import (
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/money"
)

// LineItem is a priced line used by both invoices and orders. Checkout and
// invoice creation snapshot cart lines into LineItems so later product price
// changes do not affect issued documents.
type LineItem struct {
	ID        string      `json:"id"`
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	LineTotal money.Cents `json:"line_total"`
}

// Totals holds the monetary breakdown derived from a set of line items.
type Totals struct {
	Subtotal  money.Cents       `json:"subtotal"`
	TaxRate   money.BasisPoints `json:"tax_rate_bp"`
	TaxAmount money.Cents       `json:"tax_amount"`
	Total     money.Cents       `json:"total"`
}

// ComputeTotals derives subtotal, tax, and grand total from the given line
// items. This is the single derivation path shared by checkout and invoice
// creation. An empty item list is rejected so no zero-total document can be
// issued.
func ComputeTotals(items []LineItem, taxRate money.BasisPoints) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, apperrors.EmptyInvoice()
	}

	var subtotal money.Cents
	for _, item := range items {
		lineTotal, err := money.LineTotal(item.UnitPrice, item.Quantity)
		if err != nil {
			return Totals{}, err
		}
		subtotal += lineTotal
	}

	taxAmount := money.TaxAmount(subtotal, taxRate)

	return Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}, nil
}

// LineItemsFromCart snapshots cart lines into line items, stamping each with
// the given ID generator and computing line totals from the captured prices.
func LineItemsFromCart(cart *Cart, newID func() string) ([]LineItem, error) {
	items := make([]LineItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		lineTotal, err := money.LineTotal(ci.UnitPrice, ci.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, LineItem{
			ID:        newID(),
			ProductID: ci.ProductID,
			Name:      ci.Name,
			UnitPrice: ci.UnitPrice,
			Quantity:  ci.Quantity,
			LineTotal: lineTotal,
		})
	}
	return items, nil
}
