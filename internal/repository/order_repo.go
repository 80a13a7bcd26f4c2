package repository

import (
	"context"
	"errors"

	"laundryops/internal/model"

	"gorm.io/gorm"
)

// OrderRepository is the adapter in front of the order store. Every call is
// scoped to (admin, store); UpdateFields applies a partial update and the
// last write wins: no optimistic locking, by the documented concurrency
// model.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	ListByStatus(ctx context.Context, scope Scope, status string) ([]model.Order, error)
	List(ctx context.Context, scope Scope) ([]model.Order, error)
	GetOne(ctx context.Context, scope Scope, orderID string) (*model.Order, error)
	FindByRFID(ctx context.Context, scope Scope, code string) (*model.Order, error)
	UpdateFields(ctx context.Context, scope Scope, orderID string, fields map[string]any) error
	Delete(ctx context.Context, scope Scope, orderID string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) scoped(ctx context.Context, scope Scope) *gorm.DB {
	return GetDB(ctx, r.db).Where("admin_id = ? AND store_id = ?", scope.AdminID, scope.StoreID)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) ListByStatus(ctx context.Context, scope Scope, status string) ([]model.Order, error) {
	var orders []model.Order
	if err := r.scoped(ctx, scope).
		Where("status = ?", status).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns every order in the store, newest first. The packing report
// filters the dump down in the engine rather than in SQL, matching the
// view's behavior of refining an already-loaded list.
func (r *orderRepository) List(ctx context.Context, scope Scope) ([]model.Order, error) {
	var orders []model.Order
	if err := r.scoped(ctx, scope).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOne(ctx context.Context, scope Scope, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.scoped(ctx, scope).
		Where("order_id = ?", orderID).
		Preload("Items").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByRFID(ctx context.Context, scope Scope, code string) (*model.Order, error) {
	var order model.Order
	err := r.scoped(ctx, scope).
		Where("rfid_code = ? OR order_id = ?", code, code).
		Preload("Items").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateFields(ctx context.Context, scope Scope, orderID string, fields map[string]any) error {
	result := r.scoped(ctx, scope).
		Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, scope Scope, orderID string) error {
	result := r.scoped(ctx, scope).
		Where("order_id = ?", orderID).
		Delete(&model.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
