package repository

import (
	"context"

	"laundryops/internal/model"

	"gorm.io/gorm"
)

// EventRepository appends the workflow audit trail.
type EventRepository interface {
	Create(ctx context.Context, event *model.OrderEvent) error
	ListByOrder(ctx context.Context, scope Scope, orderID string) ([]model.OrderEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.OrderEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *eventRepository) ListByOrder(ctx context.Context, scope Scope, orderID string) ([]model.OrderEvent, error) {
	var events []model.OrderEvent
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND order_id = ?", scope.StoreID, orderID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
