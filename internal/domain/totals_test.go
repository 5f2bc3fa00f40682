package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/money"
)

func TestComputeTotals_SubtotalTaxAndTotal(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", UnitPrice: 1000, Quantity: 1},
		{ProductID: "p2", UnitPrice: 500, Quantity: 2},
	}

	totals, err := ComputeTotals(items, 1000) // 10%
	require.NoError(t, err)

	assert.Equal(t, money.Cents(2000), totals.Subtotal)
	assert.Equal(t, money.Cents(200), totals.TaxAmount)
	assert.Equal(t, money.Cents(2200), totals.Total)
	assert.Equal(t, money.BasisPoints(1000), totals.TaxRate)
}

func TestComputeTotals_ZeroTaxRate(t *testing.T) {
	items := []LineItem{{ProductID: "p1", UnitPrice: 999, Quantity: 3}}

	totals, err := ComputeTotals(items, 0)
	require.NoError(t, err)

	assert.Equal(t, money.Cents(2997), totals.Subtotal)
	assert.Equal(t, money.Cents(0), totals.TaxAmount)
	assert.Equal(t, totals.Subtotal, totals.Total)
}

func TestComputeTotals_EmptyItemsRejected(t *testing.T) {
	_, err := ComputeTotals(nil, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInvoice)

	_, err = ComputeTotals([]LineItem{}, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInvoice)
}

func TestComputeTotals_InvalidQuantityRejected(t *testing.T) {
	items := []LineItem{{ProductID: "p1", UnitPrice: 1000, Quantity: 0}}

	_, err := ComputeTotals(items, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestComputeTotals_TaxRoundsHalfUp(t *testing.T) {
	// 1¢ at 5% is 0.05¢, which rounds to 0; 10¢ at 5% is 0.5¢, which rounds up.
	totals, err := ComputeTotals([]LineItem{{ProductID: "p1", UnitPrice: 1, Quantity: 1}}, 500)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), totals.TaxAmount)

	totals, err = ComputeTotals([]LineItem{{ProductID: "p1", UnitPrice: 10, Quantity: 1}}, 500)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(1), totals.TaxAmount)
}

func TestLineItemsFromCart_SnapshotsPricesAndQuantities(t *testing.T) {
	cart := NewCart("cart-1", "user-1", time.Now())
	cart.Items = []CartItem{
		{ProductID: "p1", Name: "Widget", UnitPrice: 1999, Quantity: 2},
		{ProductID: "p2", Name: "Gadget", UnitPrice: 500, Quantity: 1},
	}

	var n int
	newID := func() string {
		n++
		return fmt.Sprintf("li-%d", n)
	}

	items, err := LineItemsFromCart(cart, newID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "li-1", items[0].ID)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "Widget", items[0].Name)
	assert.Equal(t, money.Cents(1999), items[0].UnitPrice)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, money.Cents(3998), items[0].LineTotal)

	assert.Equal(t, money.Cents(500), items[1].LineTotal)
}

func TestLineItemsFromCart_SameSnapshotYieldsSameTotals(t *testing.T) {
	// Checkout and invoice creation share one derivation path, so the same
	// snapshot must always produce identical totals.
	cart := NewCart("cart-1", "user-1", time.Now())
	cart.Items = []CartItem{
		{ProductID: "p1", UnitPrice: 3333, Quantity: 3},
		{ProductID: "p2", UnitPrice: 101, Quantity: 7},
	}

	newID := func() string { return "li" }

	items1, err := LineItemsFromCart(cart, newID)
	require.NoError(t, err)
	items2, err := LineItemsFromCart(cart, newID)
	require.NoError(t, err)

	totals1, err := ComputeTotals(items1, 825)
	require.NoError(t, err)
	totals2, err := ComputeTotals(items2, 825)
	require.NoError(t, err)

	assert.Equal(t, totals1, totals2)
}
