package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"laundryops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository stores the cleaning review requests and exposes a
// change feed over them. Subscribe is the Go rendition of a document-store
// snapshot listener: a cursor poll over updated_at, at-least-once, so
// consumers must tolerate replays.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListByStore(ctx context.Context, storeID, status string, page, limit int) ([]model.Notification, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, actionedBy string, now time.Time) error
	Changes(ctx context.Context, storeID string, since time.Time) ([]model.Notification, error)
	Subscribe(ctx context.Context, storeID string, interval time.Duration, onChange func([]model.Notification)) func()
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return GetDB(ctx, r.db).Create(n).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := GetDB(ctx, r.db).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByStore(ctx context.Context, storeID, status string, page, limit int) ([]model.Notification, int64, error) {
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Notification{}).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, actionedBy string, now time.Time) error {
	result := GetDB(ctx, r.db).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"actioned_by": actionedBy,
			"actioned_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Changes returns orderCleaned notifications touched after the cursor,
// oldest first so consumers can advance the cursor as they go.
func (r *notificationRepository) Changes(ctx context.Context, storeID string, since time.Time) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := GetDB(ctx, r.db).
		Where("store_id = ? AND type = ? AND updated_at > ?", storeID, model.NotificationTypeOrderCleaned, since).
		Order("updated_at ASC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Subscribe polls the change feed on a fixed interval and invokes onChange
// with each non-empty batch. The returned function cancels the subscription;
// cancelling the context does too.
func (r *notificationRepository) Subscribe(ctx context.Context, storeID string, interval time.Duration, onChange func([]model.Notification)) func() {
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		cursor := time.Now()
		for {
			select {
			case <-subCtx.Done():
				return
			case <-ticker.C:
				batch, err := r.Changes(subCtx, storeID, cursor)
				if err != nil {
					log.Printf("notification feed poll failed for store %s: %v", storeID, err)
					continue
				}
				if len(batch) == 0 {
					continue
				}
				cursor = batch[len(batch)-1].UpdatedAt
				onChange(batch)
			}
		}
	}()

	return cancel
}
