package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/shopsync/internal/domain"
	"github.com/apper-canvas/shopsync/pkg/database"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/pagination"
)

func newOrderTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:        "order-001",
		UserID:    "user-001",
		Status:    domain.OrderStatusPending,
		Subtotal:  10000,
		TaxRate:   1000,
		TaxAmount: 1000,
		Total:     11000,
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
		Items: []domain.LineItem{
			{
				ID:        "li-001",
				ProductID: "prod-001",
				Name:      "Widget",
				UnitPrice: 5000,
				Quantity:  2,
				LineTotal: 10000,
			},
		},
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.UserID, o.Status, o.Subtotal, o.TaxRate, o.TaxAmount,
			o.Total, o.Currency, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, item := range o.Items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(
				item.ID, o.ID, item.ProductID, item.Name,
				item.UnitPrice, item.Quantity, item.LineTotal,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()
	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "status", "subtotal_amount", "tax_rate_bp",
		"tax_amount", "total_amount", "currency", "created_at", "updated_at", "items",
	}).AddRow(
		o.ID, o.UserID, o.Status, o.Subtotal, o.TaxRate,
		o.TaxAmount, o.Total, o.Currency, o.CreatedAt, o.UpdatedAt, itemsJSON,
	)

	mock.ExpectQuery("SELECT(.|\n)*FROM orders o").
		WithArgs(o.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Total, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-001", got.Items[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectQuery("SELECT(.|\n)*FROM orders o").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_ReturnsTotalCount(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	o := sampleOrder()
	params := pagination.Params{Page: 1, PerPage: 20, Offset: 0}

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "status", "subtotal_amount", "tax_rate_bp", "tax_amount",
		"total_amount", "currency", "created_at", "updated_at", "total_count",
	}).AddRow(
		o.ID, o.UserID, o.Status, o.Subtotal, o.TaxRate, o.TaxAmount,
		o.Total, o.Currency, o.CreatedAt, o.UpdatedAt, 7,
	)

	mock.ExpectQuery("SELECT(.|\n)*FROM orders").
		WithArgs(o.UserID, params.PerPage, params.Offset).
		WillReturnRows(rows)

	itemRows := pgxmock.NewRows([]string{
		"id", "order_id", "product_id", "name", "unit_price", "quantity", "line_total",
	}).AddRow(
		"li-001", o.ID, "prod-001", "Widget", o.Items[0].UnitPrice, 2, o.Items[0].LineTotal,
	)

	mock.ExpectQuery("SELECT(.|\n)*FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(itemRows)

	orders, total, err := repo.List(context.Background(), o.UserID, params)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusProcessing, pgxmock.AnyArg(), "order-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "order-001", domain.OrderStatusProcessing)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusProcessing, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.OrderStatusProcessing)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
