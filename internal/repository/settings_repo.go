package repository

import (
	"context"
	"errors"

	"laundryops/internal/model"

	"gorm.io/gorm"
)

// SettingsRepository loads and saves per-store configuration. A store with
// no settings row is normal; Get returns nil and callers fall back to the
// documented defaults.
type SettingsRepository interface {
	Get(ctx context.Context, storeID string) (*model.StoreSettings, error)
	Upsert(ctx context.Context, settings *model.StoreSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, storeID string) (*model.StoreSettings, error) {
	var settings model.StoreSettings
	err := GetDB(ctx, r.db).Preload("PriceLists").First(&settings, "store_id = ?", storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *model.StoreSettings) error {
	return GetDB(ctx, r.db).Save(settings).Error
}
