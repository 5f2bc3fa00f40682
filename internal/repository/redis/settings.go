package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/apper-canvas/shopsync/internal/domain"
	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
)

const settingsKeyPrefix = "invoice_settings:"

// SettingsRepository implements repository.SettingsRepository using Redis.
// Settings are small per-user documents, so they live as plain JSON values
// with no TTL.
type SettingsRepository struct {
	client *redis.Client
}

// NewSettingsRepository creates a new Redis-backed settings repository.
func NewSettingsRepository(client *redis.Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

// Get retrieves the stored settings for a user.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*domain.InvoiceSettings, error) {
	key := settingsKeyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("invoice settings", userID)
		}
		return nil, fmt.Errorf("redis get settings: %w", err)
	}

	var settings domain.InvoiceSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &settings, nil
}

// Save persists the settings for a user.
func (r *SettingsRepository) Save(ctx context.Context, settings *domain.InvoiceSettings) error {
	key := settingsKeyPrefix + settings.UserID

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set settings: %w", err)
	}

	return nil
}

// Delete removes the stored settings, reverting the user to defaults.
func (r *SettingsRepository) Delete(ctx context.Context, userID string) error {
	key := settingsKeyPrefix + userID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del settings: %w", err)
	}

	return nil
}
