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

func newTestSettingsService(repo *mockSettingsRepository) *SettingsService {
	return NewSettingsService(repo, newTestLogger())
}

func TestGetSettings_DefaultsWhenNeverSaved(t *testing.T) {
	repo := new(mockSettingsRepository)
	svc := newTestSettingsService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "user-1").Return(nil, apperrors.NotFound("invoice settings", "user-1"))

	settings, err := svc.Get(ctx, "user-1")

	require.NoError(t, err)
	assert.EqualValues(t, 1000, settings.DefaultTaxRate)
	assert.Equal(t, 30, settings.PaymentTermsDays)
	assert.Equal(t, "INV-", settings.NumberPrefix)

	repo.AssertExpectations(t)
}

func TestGetSettings_Saved(t *testing.T) {
	repo := new(mockSettingsRepository)
	svc := newTestSettingsService(repo)
	ctx := context.Background()

	saved := &domain.InvoiceSettings{UserID: "user-1", DefaultTaxRate: 500, PaymentTermsDays: 14, NumberPrefix: "ACME-"}
	repo.On("Get", ctx, "user-1").Return(saved, nil)

	settings, err := svc.Get(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, saved, settings)
}

func TestSaveSettings(t *testing.T) {
	repo := new(mockSettingsRepository)
	svc := newTestSettingsService(repo)
	ctx := context.Background()

	repo.On("Save", ctx, mock.AnythingOfType("*domain.InvoiceSettings")).Return(nil)

	settings, err := svc.Save(ctx, "user-1", SaveSettingsInput{
		DefaultTaxRate:   750,
		PaymentTermsDays: 14,
		NumberPrefix:     " ACME- ",
		CompanyName:      "Acme Inc",
	})

	require.NoError(t, err)
	assert.EqualValues(t, 750, settings.DefaultTaxRate)
	// Prefix is trimmed before storage.
	assert.Equal(t, "ACME-", settings.NumberPrefix)
	assert.Equal(t, "Acme Inc", settings.CompanyName)

	repo.AssertExpectations(t)
}

func TestSaveSettings_Invalid(t *testing.T) {
	repo := new(mockSettingsRepository)
	svc := newTestSettingsService(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		input SaveSettingsInput
	}{
		{"tax rate above 100%", SaveSettingsInput{DefaultTaxRate: 10_001, PaymentTermsDays: 30, NumberPrefix: "INV-"}},
		{"negative tax rate", SaveSettingsInput{DefaultTaxRate: -1, PaymentTermsDays: 30, NumberPrefix: "INV-"}},
		{"terms beyond a year", SaveSettingsInput{DefaultTaxRate: 1000, PaymentTermsDays: 366, NumberPrefix: "INV-"}},
		{"blank prefix", SaveSettingsInput{DefaultTaxRate: 1000, PaymentTermsDays: 30, NumberPrefix: "   "}},
		{"oversized prefix", SaveSettingsInput{DefaultTaxRate: 1000, PaymentTermsDays: 30, NumberPrefix: "THIS-PREFIX-IS-FAR-TOO-LONG-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, "user-1", tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestResetSettings(t *testing.T) {
	repo := new(mockSettingsRepository)
	svc := newTestSettingsService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "user-1").Return(nil)

	err := svc.Reset(ctx, "user-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
