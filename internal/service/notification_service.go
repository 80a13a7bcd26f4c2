package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"laundryops/internal/model"
	"laundryops/internal/repository"
	ws "laundryops/internal/websocket"
	"laundryops/internal/workflow"

	"github.com/google/uuid"
)

type NotificationService interface {
	List(ctx context.Context, scope repository.Scope, status string, page, limit int) ([]model.Notification, int64, error)
	Accept(ctx context.Context, scope repository.Scope, notificationID, actorID string) error
	Decline(ctx context.Context, scope repository.Scope, notificationID, actorID string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	orders        repository.OrderRepository
	events        repository.EventRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
	now           func() time.Time
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	orders repository.OrderRepository,
	events repository.EventRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		orders:        orders,
		events:        events,
		txManager:     txManager,
		hub:           hub,
		now:           time.Now,
	}
}

func (s *notificationService) List(ctx context.Context, scope repository.Scope, status string, page, limit int) ([]model.Notification, int64, error) {
	return s.notifications.ListByStore(ctx, scope.StoreID, status, page, limit)
}

// Accept approves a cleaning review: the notification moves to accepted and
// the order skips the ironing queue straight to the ready rack.
func (s *notificationService) Accept(ctx context.Context, scope repository.Scope, notificationID, actorID string) error {
	return s.resolve(ctx, scope, notificationID, actorID, model.NotificationAccepted, workflow.StatusReady, model.ActionAcceptCleaning)
}

// Decline rejects a cleaning review: the notification moves to declined and
// the order is sent back to Un-Cleaned with its cleaned timestamp cleared,
// so the shop floor has to clean and resubmit it.
func (s *notificationService) Decline(ctx context.Context, scope repository.Scope, notificationID, actorID string) error {
	return s.resolve(ctx, scope, notificationID, actorID, model.NotificationDeclined, workflow.StatusUnCleaned, model.ActionDeclineCleaning)
}

// resolve applies one review decision. Replays are tolerated: a notification
// already out of pending only re-applies the order move, and an order already
// in the target status is a no-op. A missing order is logged and the
// notification is still resolved, so a stale review can always be closed.
func (s *notificationService) resolve(ctx context.Context, scope repository.Scope, notificationID, actorID, decision string, target workflow.Status, action string) error {
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return repository.ErrNotificationNotFound
	}

	now := s.now()
	var orderID string

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		notification, err := s.notifications.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if notification.StoreID != scope.StoreID {
			return repository.ErrNotificationNotFound
		}
		orderID = notification.OrderID

		if notification.Status == model.NotificationPending {
			if err := s.notifications.UpdateStatus(txCtx, id, decision, actorID, now); err != nil {
				return fmt.Errorf("failed to update notification: %w", err)
			}
		}

		order, err := s.orders.GetOne(txCtx, scope, notification.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				log.Printf("notification %s resolved but order %s no longer exists", notificationID, notification.OrderID)
				return nil
			}
			return err
		}

		patch, _, err := workflow.Transition(workflow.Status(order.Status), target, workflow.Input{}, now)
		if err != nil {
			// Order has moved on since the review was raised. The
			// decision on the notification itself still stands.
			log.Printf("notification %s: order %s is %s, skipping move to %s: %v",
				notificationID, order.OrderID, order.Status, target, err)
			return nil
		}
		if len(patch) == 0 {
			return nil
		}

		if err := s.orders.UpdateFields(txCtx, scope, notification.OrderID, map[string]any(patch)); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		event := &model.OrderEvent{
			OrderID: notification.OrderID,
			StoreID: scope.StoreID,
			Action:  action,
			ActorID: actorID,
		}
		return s.events.Create(txCtx, event)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(OrderEvent{
			Event:   "notification." + decision,
			StoreID: scope.StoreID,
			Data:    map[string]any{"notification_id": notificationID, "order_id": orderID},
		})
	}
	return nil
}
