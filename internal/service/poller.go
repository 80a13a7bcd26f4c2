package service

import (
	"context"
	"log"
	"time"

	"laundryops/internal/filter"
	"laundryops/internal/repository"
	ws "laundryops/internal/websocket"
	"laundryops/internal/workflow"

	"github.com/go-co-op/gocron/v2"
)

// ViewPoller re-runs the dashboard views on a fixed interval and pushes the
// fresh snapshots to connected clients, so pages stay current without manual
// reloads even when no mutation goes through this process.
type ViewPoller struct {
	orders    OrderService
	scope     repository.Scope
	hub       *ws.Hub
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewViewPoller(orders OrderService, scope repository.Scope, hub *ws.Hub, interval time.Duration) *ViewPoller {
	return &ViewPoller{
		orders:   orders,
		scope:    scope,
		hub:      hub,
		interval: interval,
	}
}

// Start schedules the refresh job. The poller stops when ctx is cancelled.
func (p *ViewPoller) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	p.scheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(p.refresh, ctx),
	)
	if err != nil {
		return err
	}

	s.Start()
	log.Printf("view poller started (every %s)", p.interval)

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			log.Printf("view poller shutdown: %v", err)
		}
	}()
	return nil
}

func (p *ViewPoller) refresh(ctx context.Context) {
	for _, status := range workflow.ActiveStatuses {
		result, err := p.orders.View(ctx, p.scope, status, filter.Filters{})
		if err != nil {
			log.Printf("view poller: refresh %s failed: %v", status, err)
			continue
		}
		p.hub.BroadcastJSON(OrderEvent{
			Event:   "view.refresh",
			StoreID: p.scope.StoreID,
			Data: map[string]any{
				"status":  string(status),
				"orders":  result.Orders,
				"metrics": result.Metrics,
			},
		})
	}
}
