package service

import (
	"context"
	"errors"
	"log"
	"time"

	"laundryops/internal/model"
	"laundryops/internal/repository"
	ws "laundryops/internal/websocket"
	"laundryops/internal/workflow"
)

// NotificationWatcher follows the notification change feed for one store and
// applies review decisions made by other dashboard instances against the same
// database. Effects are the same as Accept/Decline and are safe to replay,
// so a change delivered twice converges instead of double-applying.
type NotificationWatcher struct {
	notifications repository.NotificationRepository
	orders        repository.OrderRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
	interval      time.Duration
	now           func() time.Time
}

func NewNotificationWatcher(
	notifications repository.NotificationRepository,
	orders repository.OrderRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	interval time.Duration,
) *NotificationWatcher {
	return &NotificationWatcher{
		notifications: notifications,
		orders:        orders,
		txManager:     txManager,
		hub:           hub,
		interval:      interval,
		now:           time.Now,
	}
}

// Start begins watching the store's notifications. The returned cancel stops
// the feed; cancelling ctx does too.
func (w *NotificationWatcher) Start(ctx context.Context, scope repository.Scope) func() {
	cancel := w.notifications.Subscribe(ctx, scope.StoreID, w.interval, func(changed []model.Notification) {
		for _, n := range changed {
			if err := w.apply(ctx, scope, n); err != nil {
				log.Printf("watcher: failed to apply notification %s: %v", n.ID, err)
			}
		}
		if w.hub != nil {
			w.hub.BroadcastJSON(OrderEvent{
				Event:   "notifications.changed",
				StoreID: scope.StoreID,
				Data:    map[string]any{"count": len(changed)},
			})
		}
	})
	return cancel
}

func (w *NotificationWatcher) apply(ctx context.Context, scope repository.Scope, n model.Notification) error {
	var target workflow.Status
	switch n.Status {
	case model.NotificationAccepted:
		target = workflow.StatusReady
	case model.NotificationDeclined:
		target = workflow.StatusUnCleaned
	default:
		// Still pending, nothing to converge. The broadcast alone tells
		// connected dashboards to refresh their badge.
		return nil
	}

	return w.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := w.orders.GetOne(txCtx, scope, n.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return nil
			}
			return err
		}

		patch, _, err := workflow.Transition(workflow.Status(order.Status), target, workflow.Input{}, w.now())
		if err != nil {
			// The order moved past the decision already, leave it be.
			return nil
		}
		if len(patch) == 0 {
			return nil
		}
		return w.orders.UpdateFields(txCtx, scope, n.OrderID, map[string]any(patch))
	})
}
