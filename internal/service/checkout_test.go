package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/shopsync/internal/domain"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
)

type checkoutMocks struct {
	carts    *mockCartRepository
	orders   *mockOrderRepository
	invoices *mockInvoiceRepository
	settings *mockSettingsRepository
}

func newTestCheckoutService() (*CheckoutService, checkoutMocks) {
	m := checkoutMocks{
		carts:    new(mockCartRepository),
		orders:   new(mockOrderRepository),
		invoices: new(mockInvoiceRepository),
		settings: new(mockSettingsRepository),
	}
	svc := NewCheckoutService(m.carts, m.orders, m.invoices, m.settings, newTestProducer(), newTestLogger())
	return svc, m
}

func TestCheckout_CreatesOrderAndInvoiceFromOneSnapshot(t *testing.T) {
	svc, m := newTestCheckoutService()
	ctx := context.Background()

	cart := newCartWithItem("user-1") // 2 x 1999 = 3998
	m.carts.On("Get", ctx, "user-1").Return(cart, nil)
	m.settings.On("Get", ctx, "user-1").Return(nil, apperrors.NotFound("invoice settings", "user-1"))
	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	m.invoices.On("Create", ctx, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	m.carts.On("Delete", ctx, "user-1").Return(nil)

	result, err := svc.Checkout(ctx, "user-1", CheckoutInput{ClientName: "Acme Corp"})

	require.NoError(t, err)
	require.NotNil(t, result.Order)
	require.NotNil(t, result.Invoice)

	// Both records derive from the same snapshot: 3998 subtotal at the
	// default 1000bp gives 400 tax (half-up) and 4398 total.
	assert.EqualValues(t, 3998, result.Order.Subtotal)
	assert.EqualValues(t, 400, result.Order.TaxAmount)
	assert.EqualValues(t, 4398, result.Order.Total)
	assert.Equal(t, result.Order.Subtotal, result.Invoice.Subtotal)
	assert.Equal(t, result.Order.TaxAmount, result.Invoice.TaxAmount)
	assert.Equal(t, result.Order.Total, result.Invoice.Total)

	assert.Equal(t, domain.OrderStatusPending, result.Order.Status)
	assert.Equal(t, domain.InvoiceStatusPending, result.Invoice.Status)
	assert.Equal(t, "Acme Corp", result.Invoice.ClientName)

	// Line items match but carry distinct IDs per table.
	require.Len(t, result.Order.Items, 1)
	require.Len(t, result.Invoice.Items, 1)
	assert.Equal(t, result.Order.Items[0].ProductID, result.Invoice.Items[0].ProductID)
	assert.Equal(t, result.Order.Items[0].LineTotal, result.Invoice.Items[0].LineTotal)
	assert.NotEqual(t, result.Order.Items[0].ID, result.Invoice.Items[0].ID)

	m.carts.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.invoices.AssertExpectations(t)
}

func TestCheckout_EmptyCartRefused(t *testing.T) {
	svc, m := newTestCheckoutService()
	ctx := context.Background()

	empty := newCartWithItem("user-1")
	empty.Items = nil
	empty.Recalculate()
	m.carts.On("Get", ctx, "user-1").Return(empty, nil)

	_, err := svc.Checkout(ctx, "user-1", CheckoutInput{ClientName: "Acme Corp"})

	assert.ErrorIs(t, err, apperrors.ErrEmptyInvoice)
	m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckout_MissingCartRefused(t *testing.T) {
	svc, m := newTestCheckoutService()
	ctx := context.Background()

	m.carts.On("Get", ctx, "user-1").Return(nil, apperrors.NotFound("cart", "user-1"))

	_, err := svc.Checkout(ctx, "user-1", CheckoutInput{ClientName: "Acme Corp"})

	assert.ErrorIs(t, err, apperrors.ErrEmptyInvoice)
}

func TestCheckout_MissingClientName(t *testing.T) {
	svc, m := newTestCheckoutService()

	_, err := svc.Checkout(context.Background(), "user-1", CheckoutInput{})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	m.carts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCheckout_UsesSavedSettingsForInvoice(t *testing.T) {
	svc, m := newTestCheckoutService()
	ctx := context.Background()

	cart := newCartWithItem("user-1")
	saved := &domain.InvoiceSettings{
		UserID:           "user-1",
		DefaultTaxRate:   0,
		PaymentTermsDays: 7,
		NumberPrefix:     "SHOP-",
	}
	m.carts.On("Get", ctx, "user-1").Return(cart, nil)
	m.settings.On("Get", ctx, "user-1").Return(saved, nil)
	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	m.invoices.On("Create", ctx, mock.AnythingOfType("*domain.Invoice")).Return(nil)
	m.carts.On("Delete", ctx, "user-1").Return(nil)

	result, err := svc.Checkout(ctx, "user-1", CheckoutInput{ClientName: "Acme Corp"})

	require.NoError(t, err)
	assert.Zero(t, result.Invoice.TaxAmount)
	assert.EqualValues(t, 3998, result.Invoice.Total)
	assert.Regexp(t, `^SHOP-\d{8}-[0-9a-f]{6}$`, result.Invoice.InvoiceNumber)
	assert.WithinDuration(t, result.Invoice.IssuedAt.AddDate(0, 0, 7), result.Invoice.DueAt, 0)
}

func TestCheckout_OrderCreateFailureStopsInvoice(t *testing.T) {
	svc, m := newTestCheckoutService()
	ctx := context.Background()

	m.carts.On("Get", ctx, "user-1").Return(newCartWithItem("user-1"), nil)
	m.settings.On("Get", ctx, "user-1").Return(nil, apperrors.NotFound("invoice settings", "user-1"))
	m.orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(assert.AnError)

	_, err := svc.Checkout(ctx, "user-1", CheckoutInput{ClientName: "Acme Corp"})

	require.Error(t, err)
	m.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
