package repository

import (
	"context"

	"laundryops/internal/model"

	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *model.MachineAlert) error
	ListByStore(ctx context.Context, storeID string, page, limit int) ([]model.MachineAlert, int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.MachineAlert) error {
	return GetDB(ctx, r.db).Create(alert).Error
}

func (r *alertRepository) ListByStore(ctx context.Context, storeID string, page, limit int) ([]model.MachineAlert, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).Model(&model.MachineAlert{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []model.MachineAlert
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&alerts).Error; err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}
