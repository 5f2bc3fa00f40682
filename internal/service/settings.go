package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/apper-canvas/shopsync/internal/domain"
	"github.com/apper-canvas/shopsync/internal/repository"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/money"
)

// MaxPaymentTermsDays bounds how far in the future an invoice can fall due.
const MaxPaymentTermsDays = 365

// SaveSettingsInput holds the parameters for saving invoice settings.
type SaveSettingsInput struct {
	DefaultTaxRate   money.BasisPoints `json:"default_tax_rate_bp" validate:"gte=0,lte=10000"`
	PaymentTermsDays int               `json:"payment_terms_days" validate:"gte=0,lte=365"`
	NumberPrefix     string            `json:"number_prefix" validate:"required,max=16"`
	CompanyName      string            `json:"company_name"`
	CompanyAddress   string            `json:"company_address"`
	CustomerNote     string            `json:"customer_note"`
}

// SettingsService manages per-user invoice settings.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo repository.SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the user's invoice settings, or the documented defaults if the
// user never saved any.
func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.InvoiceSettings, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	return resolveSettings(ctx, s.repo, userID)
}

// Save validates and stores the user's invoice settings, replacing any
// previous version.
func (s *SettingsService) Save(ctx context.Context, userID string, input SaveSettingsInput) (*domain.InvoiceSettings, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.DefaultTaxRate < 0 || input.DefaultTaxRate > 10_000 {
		return nil, apperrors.InvalidInput("default tax rate must be between 0 and 10000 basis points")
	}
	if input.PaymentTermsDays < 0 || input.PaymentTermsDays > MaxPaymentTermsDays {
		return nil, apperrors.InvalidInput(fmt.Sprintf("payment terms must be between 0 and %d days", MaxPaymentTermsDays))
	}
	prefix := strings.TrimSpace(input.NumberPrefix)
	if prefix == "" {
		return nil, apperrors.InvalidInput("number prefix is required")
	}
	if len(prefix) > 16 {
		return nil, apperrors.InvalidInput("number prefix must not exceed 16 characters")
	}

	settings := &domain.InvoiceSettings{
		UserID:           userID,
		DefaultTaxRate:   input.DefaultTaxRate,
		PaymentTermsDays: input.PaymentTermsDays,
		NumberPrefix:     prefix,
		CompanyName:      input.CompanyName,
		CompanyAddress:   input.CompanyAddress,
		CustomerNote:     input.CustomerNote,
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save invoice settings: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice settings saved",
		slog.String("user_id", userID),
	)

	return settings, nil
}

// Reset removes the user's saved settings so reads fall back to defaults.
func (s *SettingsService) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("reset invoice settings: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice settings reset",
		slog.String("user_id", userID),
	)

	return nil
}
