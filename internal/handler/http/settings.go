package http

import (
	"log/slog"
	"net/http"

	"github.com/apper-canvas/shopsync/internal/service"
	"github.com/apper-canvas/shopsync/pkg/money"
	"github.com/apper-canvas/shopsync/pkg/validator"
)

// SettingsHandler handles HTTP requests for invoice settings.
type SettingsHandler struct {
	service *service.SettingsService
	logger  *slog.Logger
}

// NewSettingsHandler creates a new settings HTTP handler.
func NewSettingsHandler(svc *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: svc,
		logger:  logger,
	}
}

// SaveSettingsRequest is the JSON request body for saving invoice settings.
type SaveSettingsRequest struct {
	DefaultTaxRateBP int64  `json:"default_tax_rate_bp" validate:"gte=0,lte=10000"`
	PaymentTermsDays int    `json:"payment_terms_days" validate:"gte=0,lte=365"`
	NumberPrefix     string `json:"number_prefix" validate:"required,max=16"`
	CompanyName      string `json:"company_name" validate:"max=500"`
	CompanyAddress   string `json:"company_address" validate:"max=1000"`
	CustomerNote     string `json:"customer_note" validate:"max=2000"`
}

// Get handles GET /api/v1/settings/invoice
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	settings, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: settings})
}

// Save handles PUT /api/v1/settings/invoice
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req SaveSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	settings, err := h.service.Save(r.Context(), userID, service.SaveSettingsInput{
		DefaultTaxRate:   money.BasisPoints(req.DefaultTaxRateBP),
		PaymentTermsDays: req.PaymentTermsDays,
		NumberPrefix:     req.NumberPrefix,
		CompanyName:      req.CompanyName,
		CompanyAddress:   req.CompanyAddress,
		CustomerNote:     req.CustomerNote,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: settings})
}

// Reset handles DELETE /api/v1/settings/invoice
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	if err := h.service.Reset(r.Context(), userID); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "reset"}})
}
