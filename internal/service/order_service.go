package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"laundryops/internal/filter"
	"laundryops/internal/model"
	"laundryops/internal/repository"
	ws "laundryops/internal/websocket"
	"laundryops/internal/workflow"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type MarkCleanedRequest struct {
	RackNumber    string `json:"rack_number" binding:"required"`
	MachineNumber string `json:"machine_number"`
	InitiatorID   string `json:"initiator_id"`
	InitiatorName string `json:"initiator_name"`
}

type ConfirmRackRequest struct {
	RackNumber string `json:"rack_number" binding:"required"`
	ActorID    string `json:"actor_id"`
}

type ActionRequest struct {
	ActorID string `json:"actor_id"`
}

type UpdateOrderRequest struct {
	Notes         *string `json:"notes"`
	RackNumber    *string `json:"rack_number"`
	MachineNumber *string `json:"machine_number"`
	ActorID       string  `json:"actor_id"`
}

// OrderView is one dashboard row: the order plus the resolved display
// fields the table shows.
type OrderView struct {
	model.Order
	ResolvedSection string          `json:"resolved_section"`
	Pieces          int             `json:"pieces"`
	Due             decimal.Decimal `json:"due"`
	Highlight       bool            `json:"highlight"`
}

// ViewResult is what a dashboard page renders: filtered rows and the
// header metrics.
type ViewResult struct {
	Orders  []OrderView    `json:"orders"`
	Metrics filter.Metrics `json:"metrics"`
}

// Websocket payload
type OrderEvent struct {
	Event   string         `json:"event"`
	StoreID string         `json:"store_id"`
	Data    map[string]any `json:"data"`
}

// --- Interface ---

type OrderService interface {
	View(ctx context.Context, scope repository.Scope, status workflow.Status, f filter.Filters) (ViewResult, error)
	PackingReport(ctx context.Context, scope repository.Scope, f filter.Filters) (ViewResult, error)
	LookupRFID(ctx context.Context, scope repository.Scope, code string) (*OrderView, error)

	MarkCleaned(ctx context.Context, scope repository.Scope, orderID string, req MarkCleanedRequest) error
	ConfirmRack(ctx context.Context, scope repository.Scope, orderID string, req ConfirmRackRequest) error
	MarkIroned(ctx context.Context, scope repository.Scope, orderID, actorID string) error
	MarkCollected(ctx context.Context, scope repository.Scope, orderID, actorID string) error
	MarkDelivered(ctx context.Context, scope repository.Scope, orderID, actorID string) error
	Cancel(ctx context.Context, scope repository.Scope, orderID, actorID string) error

	UpdateDetails(ctx context.Context, scope repository.Scope, orderID string, req UpdateOrderRequest) error
	Delete(ctx context.Context, scope repository.Scope, orderID, actorID string) error
}

type orderService struct {
	orders        repository.OrderRepository
	notifications repository.NotificationRepository
	settings      repository.SettingsRepository
	events        repository.EventRepository
	txManager     repository.TransactionManager
	engine        *filter.Engine
	hub           *ws.Hub
	now           func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	notifications repository.NotificationRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orders:        orders,
		notifications: notifications,
		settings:      settings,
		events:        events,
		txManager:     txManager,
		engine:        filter.New(),
		hub:           hub,
		now:           time.Now,
	}
}

// --- Read path ---

// View loads the orders a dashboard page shows: fetch by status, run the
// filter engine, compute the per-row overdue highlight.
func (s *orderService) View(ctx context.Context, scope repository.Scope, status workflow.Status, f filter.Filters) (ViewResult, error) {
	orders, err := s.orders.ListByStatus(ctx, scope, string(status))
	if err != nil {
		return ViewResult{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	threshold, err := s.highlightThreshold(ctx, scope.StoreID, status)
	if err != nil {
		return ViewResult{}, err
	}

	now := s.now()
	displayed, metrics := s.engine.Apply(orders, f, now)
	return ViewResult{
		Orders:  s.toViews(displayed, threshold, now),
		Metrics: metrics,
	}, nil
}

// PackingReport is the operations view over the whole cleaning pipeline:
// everything not Completed/Cancelled, minus rental orders when the store's
// rental feature is off, then the usual filters.
func (s *orderService) PackingReport(ctx context.Context, scope repository.Scope, f filter.Filters) (ViewResult, error) {
	orders, err := s.orders.List(ctx, scope)
	if err != nil {
		return ViewResult{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	settings, err := s.settings.Get(ctx, scope.StoreID)
	if err != nil {
		return ViewResult{}, fmt.Errorf("failed to fetch store settings: %w", err)
	}

	now := s.now()
	pipeline := s.engine.PackingReport(orders, settings.RentalOrdersEnabled())
	displayed, metrics := s.engine.Apply(pipeline, f, now)
	return ViewResult{
		Orders:  s.toViews(displayed, model.DefaultHighlightCleaningDays, now),
		Metrics: metrics,
	}, nil
}

func (s *orderService) LookupRFID(ctx context.Context, scope repository.Scope, code string) (*OrderView, error) {
	order, err := s.orders.FindByRFID(ctx, scope, code)
	if err != nil {
		return nil, err
	}
	view := s.toView(*order, model.DefaultHighlightCleaningDays, s.now())
	return &view, nil
}

func (s *orderService) toViews(orders []model.Order, threshold int, now time.Time) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, s.toView(o, threshold, now))
	}
	return views
}

func (s *orderService) toView(o model.Order, threshold int, now time.Time) OrderView {
	return OrderView{
		Order:           o,
		ResolvedSection: o.ResolvedSection(),
		Pieces:          o.PieceCount(),
		Due:             o.ResolvedDue(),
		Highlight:       filter.ShouldHighlight(&o, threshold, now),
	}
}

// highlightThreshold resolves the overdue highlight threshold: the store's
// configured value, else the per-view default (ready rack waits much longer
// than the cleaning queue).
func (s *orderService) highlightThreshold(ctx context.Context, storeID string, status workflow.Status) (int, error) {
	settings, err := s.settings.Get(ctx, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch store settings: %w", err)
	}
	if settings != nil && settings.HighlightOrderRowRed > 0 {
		return settings.HighlightOrderRowRed, nil
	}
	if status == workflow.StatusReady {
		return model.DefaultHighlightReadyDays, nil
	}
	return model.DefaultHighlightCleaningDays, nil
}

// --- Transitions ---

func (s *orderService) MarkCleaned(ctx context.Context, scope repository.Scope, orderID string, req MarkCleanedRequest) error {
	in := workflow.Input{RackNumber: req.RackNumber, MachineNumber: req.MachineNumber}
	return s.transition(ctx, scope, orderID, workflow.StatusCleaned, in, model.ActionMarkCleaned, actor{req.InitiatorID, req.InitiatorName})
}

func (s *orderService) ConfirmRack(ctx context.Context, scope repository.Scope, orderID string, req ConfirmRackRequest) error {
	in := workflow.Input{RackNumber: req.RackNumber}
	return s.transition(ctx, scope, orderID, workflow.StatusIroning, in, model.ActionConfirmRack, actor{id: req.ActorID})
}

func (s *orderService) MarkIroned(ctx context.Context, scope repository.Scope, orderID, actorID string) error {
	return s.transition(ctx, scope, orderID, workflow.StatusReady, workflow.Input{}, model.ActionMarkIroned, actor{id: actorID})
}

func (s *orderService) MarkCollected(ctx context.Context, scope repository.Scope, orderID, actorID string) error {
	return s.transition(ctx, scope, orderID, workflow.StatusCollected, workflow.Input{}, model.ActionMarkCollected, actor{id: actorID})
}

func (s *orderService) MarkDelivered(ctx context.Context, scope repository.Scope, orderID, actorID string) error {
	return s.transition(ctx, scope, orderID, workflow.StatusCompleted, workflow.Input{}, model.ActionMarkDelivered, actor{id: actorID})
}

func (s *orderService) Cancel(ctx context.Context, scope repository.Scope, orderID, actorID string) error {
	return s.transition(ctx, scope, orderID, workflow.StatusCancelled, workflow.Input{}, model.ActionCancelOrder, actor{id: actorID})
}

type actor struct {
	id   string
	name string
}

// transition runs one workflow move as a serialized read-modify-write:
// load the order, ask the state machine for the patch, persist it, and
// record the audit row plus the review notification when the move emits one.
// A no-op patch (order already in the target status) writes nothing and
// never re-notifies.
func (s *orderService) transition(ctx context.Context, scope repository.Scope, orderID string, target workflow.Status, in workflow.Input, action string, by actor) error {
	now := s.now()
	var moved bool

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetOne(txCtx, scope, orderID)
		if err != nil {
			return err
		}

		patch, emit, err := workflow.Transition(workflow.Status(order.Status), target, in, now)
		if err != nil {
			return err
		}
		if len(patch) == 0 {
			return nil
		}

		if err := s.orders.UpdateFields(txCtx, scope, orderID, map[string]any(patch)); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if emit {
			notification := &model.Notification{
				Type:          model.NotificationTypeOrderCleaned,
				OrderID:       orderID,
				OrderNumber:   orderID,
				AdminID:       scope.AdminID,
				StoreID:       scope.StoreID,
				Message:       "has been marked as cleaned and is ready for review.",
				Status:        model.NotificationPending,
				InitiatorID:   by.id,
				InitiatorName: by.name,
			}
			if err := s.notifications.Create(txCtx, notification); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
		}

		details, _ := json.Marshal(map[string]any{
			"from": order.Status,
			"to":   string(target),
		})
		event := &model.OrderEvent{
			OrderID: orderID,
			StoreID: scope.StoreID,
			Action:  action,
			ActorID: by.id,
			Details: string(details),
		}
		if err := s.events.Create(txCtx, event); err != nil {
			return fmt.Errorf("failed to write order event: %w", err)
		}

		moved = true
		return nil
	})
	if err != nil {
		return err
	}

	if moved && s.hub != nil {
		s.hub.BroadcastJSON(OrderEvent{
			Event:   "order.updated",
			StoreID: scope.StoreID,
			Data:    map[string]any{"order_id": orderID, "status": string(target)},
		})
	}
	return nil
}

// --- Edits ---

func (s *orderService) UpdateDetails(ctx context.Context, scope repository.Scope, orderID string, req UpdateOrderRequest) error {
	fields := map[string]any{"updated_at": s.now()}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.RackNumber != nil {
		fields["rack_number"] = *req.RackNumber
	}
	if req.MachineNumber != nil {
		fields["machine_number"] = *req.MachineNumber
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.UpdateFields(txCtx, scope, orderID, fields); err != nil {
			return err
		}
		event := &model.OrderEvent{
			OrderID: orderID,
			StoreID: scope.StoreID,
			Action:  model.ActionUpdateDetails,
			ActorID: req.ActorID,
		}
		return s.events.Create(txCtx, event)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(OrderEvent{
			Event:   "order.updated",
			StoreID: scope.StoreID,
			Data:    map[string]any{"order_id": orderID},
		})
	}
	return nil
}

func (s *orderService) Delete(ctx context.Context, scope repository.Scope, orderID, actorID string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.Delete(txCtx, scope, orderID); err != nil {
			return err
		}
		event := &model.OrderEvent{
			OrderID: orderID,
			StoreID: scope.StoreID,
			Action:  model.ActionDeleteOrder,
			ActorID: actorID,
		}
		return s.events.Create(txCtx, event)
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(OrderEvent{
			Event:   "order.deleted",
			StoreID: scope.StoreID,
			Data:    map[string]any{"order_id": orderID},
		})
	}
	return nil
}
