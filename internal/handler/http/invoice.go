package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/shopsync/internal/service"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/money"
	"github.com/apper-canvas/shopsync/pkg/pagination"
	"github.com/apper-canvas/shopsync/pkg/validator"
)

// InvoiceHandler handles HTTP requests for invoice endpoints.
type InvoiceHandler struct {
	service *service.InvoiceService
	logger  *slog.Logger
}

// NewInvoiceHandler creates a new invoice HTTP handler.
func NewInvoiceHandler(svc *service.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// InvoiceLineRequest is one line in a create-invoice request. Either
// product_id (catalog-resolved) or name+unit_price (free-form) must be set.
type InvoiceLineRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateInvoiceRequest is the JSON request body for creating an invoice.
type CreateInvoiceRequest struct {
	ClientName  string               `json:"client_name" validate:"required,max=500"`
	ClientEmail string               `json:"client_email" validate:"omitempty,email"`
	Notes       string               `json:"notes" validate:"max=2000"`
	TaxRateBP   *int64               `json:"tax_rate_bp,omitempty"`
	Items       []InvoiceLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest is the JSON request body for patching an invoice's
// non-monetary fields.
type UpdateInvoiceRequest struct {
	ClientName  *string    `json:"client_name,omitempty"`
	ClientEmail *string    `json:"client_email,omitempty" validate:"omitempty,email"`
	Notes       *string    `json:"notes,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// UpdateStatusRequest is the JSON request body for status changes.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Handlers ---

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req CreateInvoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.CreateInvoiceInput{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
	}
	if req.TaxRateBP != nil {
		rate := money.BasisPoints(*req.TaxRateBP)
		input.TaxRate = &rate
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, service.InvoiceLineInput{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: money.Cents(line.UnitPrice),
			Quantity:  line.Quantity,
		})
	}

	inv, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: inv})
}

// Get handles GET /api/v1/invoices/{invoiceId}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(r.Context(), chi.URLParam(r, "invoiceId"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: inv})
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	input := service.ListInvoicesInput{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	var err error
	if input.IssuedFrom, err = parseDateParam(r, "issued_from"); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if input.IssuedTo, err = parseDateParam(r, "issued_to"); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	invoices, total, err := h.service.List(r.Context(), userID, input, params)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pagination.NewResult(invoices, total, params))
}

// Update handles PATCH /api/v1/invoices/{invoiceId}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateInvoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	inv, err := h.service.Update(r.Context(), chi.URLParam(r, "invoiceId"), service.UpdateInvoiceInput{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Notes:       req.Notes,
		DueAt:       req.DueAt,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: inv})
}

// UpdateStatus handles PUT /api/v1/invoices/{invoiceId}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	inv, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "invoiceId"), req.Status)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: inv})
}

// Delete handles DELETE /api/v1/invoices/{invoiceId}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "invoiceId")); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "deleted"}})
}

// parseDateParam reads an RFC 3339 timestamp or plain date query parameter.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.InvalidInput(name + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
}
