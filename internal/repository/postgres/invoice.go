package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/apper-canvas/shopsync/internal/domain"
	"github.com/apper-canvas/shopsync/internal/repository"
	"github.com/apper-canvas/shopsync/pkg/database"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/pagination"
)

// InvoiceRepository implements repository.InvoiceRepository using PostgreSQL.
type InvoiceRepository struct {
	pool database.DBTX
}

// NewInvoiceRepository creates a new PostgreSQL-backed invoice repository.
func NewInvoiceRepository(pool database.DBTX) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create inserts an invoice and its line items atomically.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	invoiceQuery := `
		INSERT INTO invoices (id, invoice_number, user_id, client_name, client_email, status, subtotal_amount, tax_rate_bp, tax_amount, total_amount, currency, notes, issued_at, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = tx.Exec(ctx, invoiceQuery,
		inv.ID,
		inv.InvoiceNumber,
		inv.UserID,
		inv.ClientName,
		inv.ClientEmail,
		inv.Status,
		inv.Subtotal,
		inv.TaxRate,
		inv.TaxAmount,
		inv.Total,
		inv.Currency,
		inv.Notes,
		inv.IssuedAt,
		inv.DueAt,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, product_id, name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, item := range inv.Items {
		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			inv.ID,
			item.ProductID,
			item.Name,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice and its items in a single query using
// LEFT JOIN + JSONB_AGG. Soft-deleted invoices are not returned.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `
		SELECT
			i.id, i.invoice_number, i.user_id, i.client_name, i.client_email,
			i.status, i.subtotal_amount, i.tax_rate_bp, i.tax_amount, i.total_amount,
			i.currency, i.notes, i.issued_at, i.due_at, i.created_at, i.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', ii.id,
						'product_id', ii.product_id,
						'name', ii.name,
						'unit_price', ii.unit_price,
						'quantity', ii.quantity,
						'line_total', ii.line_total
					) ORDER BY ii.id
				) FILTER (WHERE ii.id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM invoices i
		LEFT JOIN invoice_items ii ON i.id = ii.invoice_id
		WHERE i.id = $1 AND i.deleted_at IS NULL
		GROUP BY i.id, i.invoice_number, i.user_id, i.client_name, i.client_email,
			i.status, i.subtotal_amount, i.tax_rate_bp, i.tax_amount, i.total_amount,
			i.currency, i.notes, i.issued_at, i.due_at, i.created_at, i.updated_at`

	var (
		inv       domain.Invoice
		itemsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.UserID,
		&inv.ClientName,
		&inv.ClientEmail,
		&inv.Status,
		&inv.Subtotal,
		&inv.TaxRate,
		&inv.TaxAmount,
		&inv.Total,
		&inv.Currency,
		&inv.Notes,
		&inv.IssuedAt,
		&inv.DueAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("invoice", id)
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
			return nil, fmt.Errorf("unmarshal invoice items: %w", err)
		}
	} else {
		inv.Items = []domain.LineItem{}
	}

	return &inv, nil
}

// List returns invoices matching the filter with the total count. Items are
// batch-loaded after the page is selected to avoid N+1 queries.
func (r *InvoiceRepository) List(ctx context.Context, filter repository.InvoiceListFilter, params pagination.Params) ([]*domain.Invoice, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	var args []any
	argIndex := 1

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, filter.UserID)
		argIndex++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(invoice_number ILIKE $%d OR client_name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if !filter.IssuedFrom.IsZero() {
		conditions = append(conditions, fmt.Sprintf("issued_at >= $%d", argIndex))
		args = append(args, filter.IssuedFrom)
		argIndex++
	}

	if !filter.IssuedTo.IsZero() {
		conditions = append(conditions, fmt.Sprintf("issued_at <= $%d", argIndex))
		args = append(args, filter.IssuedTo)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT id, invoice_number, user_id, client_name, client_email, status,
			   subtotal_amount, tax_rate_bp, tax_amount, total_amount, currency,
			   notes, issued_at, due_at, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM invoices
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), argIndex, argIndex+1,
	)

	args = append(args, params.PerPage, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var totalCount int
	invoices := make([]*domain.Invoice, 0)

	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(
			&inv.ID,
			&inv.InvoiceNumber,
			&inv.UserID,
			&inv.ClientName,
			&inv.ClientEmail,
			&inv.Status,
			&inv.Subtotal,
			&inv.TaxRate,
			&inv.TaxAmount,
			&inv.Total,
			&inv.Currency,
			&inv.Notes,
			&inv.IssuedAt,
			&inv.DueAt,
			&inv.CreatedAt,
			&inv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, &inv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate invoice rows: %w", err)
	}

	if len(invoices) > 0 {
		ids := make([]string, len(invoices))
		for i := range invoices {
			ids[i] = invoices[i].ID
		}

		itemsQuery := `
			SELECT id, invoice_id, product_id, name, unit_price, quantity, line_total
			FROM invoice_items
			WHERE invoice_id = ANY($1)
			ORDER BY id`

		itemRows, err := r.pool.Query(ctx, itemsQuery, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("batch load invoice items: %w", err)
		}
		defer itemRows.Close()

		itemsByInvoiceID := make(map[string][]domain.LineItem, len(invoices))
		for itemRows.Next() {
			var (
				item      domain.LineItem
				invoiceID string
			)
			if err := itemRows.Scan(
				&item.ID,
				&invoiceID,
				&item.ProductID,
				&item.Name,
				&item.UnitPrice,
				&item.Quantity,
				&item.LineTotal,
			); err != nil {
				return nil, 0, fmt.Errorf("scan invoice item: %w", err)
			}
			itemsByInvoiceID[invoiceID] = append(itemsByInvoiceID[invoiceID], item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate invoice item rows: %w", err)
		}

		for i := range invoices {
			if items, ok := itemsByInvoiceID[invoices[i].ID]; ok {
				invoices[i].Items = items
			} else {
				invoices[i].Items = []domain.LineItem{}
			}
		}
	}

	return invoices, totalCount, nil
}

// Update persists the invoice's non-monetary fields. Line items and amounts
// are immutable once the invoice is created.
func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	query := `
		UPDATE invoices
		SET client_name = $1, client_email = $2, notes = $3, due_at = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL`

	ct, err := r.pool.Exec(ctx, query,
		inv.ClientName,
		inv.ClientEmail,
		inv.Notes,
		inv.DueAt,
		time.Now().UTC(),
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", inv.ID)
	}

	return nil
}

// UpdateStatus changes the status of an invoice.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", id)
	}

	return nil
}

// SoftDelete marks the invoice deleted. The row and its items stay in place
// for audit purposes.
func (r *InvoiceRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE invoices
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("soft delete invoice: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", id)
	}

	return nil
}
