package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"laundryops/internal/model"
	"laundryops/internal/repository"
	ws "laundryops/internal/websocket"
)

type CreateAlertRequest struct {
	MachineID   string     `json:"machine_id" binding:"required"`
	Date        *time.Time `json:"date"`
	IssueTypes  []string   `json:"issue_types" binding:"required,min=1"`
	Description string     `json:"description"`
}

type AlertService interface {
	Report(ctx context.Context, scope repository.Scope, req CreateAlertRequest) (*model.MachineAlert, error)
	List(ctx context.Context, scope repository.Scope, page, limit int) ([]model.MachineAlert, int64, error)
}

type alertService struct {
	alerts repository.AlertRepository
	hub    *ws.Hub
}

func NewAlertService(alerts repository.AlertRepository, hub *ws.Hub) AlertService {
	return &alertService{alerts: alerts, hub: hub}
}

// Report files a machine fault from the shop floor and pushes it to
// connected dashboards.
func (s *alertService) Report(ctx context.Context, scope repository.Scope, req CreateAlertRequest) (*model.MachineAlert, error) {
	issues, err := json.Marshal(req.IssueTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode issue types: %w", err)
	}

	alert := &model.MachineAlert{
		StoreID:     scope.StoreID,
		MachineID:   req.MachineID,
		Date:        req.Date,
		IssueTypes:  string(issues),
		Description: req.Description,
		Status:      model.AlertPending,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create machine alert: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastJSON(OrderEvent{
			Event:   "alert.created",
			StoreID: scope.StoreID,
			Data:    map[string]any{"machine_id": alert.MachineID, "issue_types": req.IssueTypes},
		})
	}
	return alert, nil
}

func (s *alertService) List(ctx context.Context, scope repository.Scope, page, limit int) ([]model.MachineAlert, int64, error) {
	return s.alerts.ListByStore(ctx, scope.StoreID, page, limit)
}
