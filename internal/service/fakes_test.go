package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"laundryops/internal/model"
	"laundryops/internal/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes. They apply the same column-keyed patches the
// real adapter writes, so the service tests exercise the exact field sets
// the transitions stamp.

type scopedKey struct {
	adminID, storeID, orderID string
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[scopedKey]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[scopedKey]*model.Order{}}
}

func (r *fakeOrderRepo) key(scope repository.Scope, orderID string) scopedKey {
	return scopedKey{scope.AdminID, scope.StoreID, orderID}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	key := scopedKey{order.AdminID, order.StoreID, order.OrderID}
	clone := *order
	r.orders[key] = &clone
	return nil
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, scope repository.Scope, status string) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for key, o := range r.orders {
		if key.adminID == scope.AdminID && key.storeID == scope.StoreID && o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(_ context.Context, scope repository.Scope) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for key, o := range r.orders {
		if key.adminID == scope.AdminID && key.storeID == scope.StoreID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetOne(_ context.Context, scope repository.Scope, orderID string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[r.key(scope, orderID)]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) FindByRFID(_ context.Context, scope repository.Scope, code string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, o := range r.orders {
		if key.adminID != scope.AdminID || key.storeID != scope.StoreID {
			continue
		}
		if o.RFIDCode == code || o.OrderID == code {
			clone := *o
			return &clone, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) UpdateFields(_ context.Context, scope repository.Scope, orderID string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[r.key(scope, orderID)]
	if !ok {
		return repository.ErrOrderNotFound
	}
	for column, value := range fields {
		applyOrderColumn(o, column, value)
	}
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, scope repository.Scope, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(scope, orderID)
	if _, ok := r.orders[key]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(r.orders, key)
	return nil
}

func applyOrderColumn(o *model.Order, column string, value any) {
	switch column {
	case "status":
		o.Status = value.(string)
	case "rack_number":
		o.RackNumber = value.(string)
	case "machine_number":
		o.MachineNumber = value.(string)
	case "notes":
		o.Notes = value.(string)
	case "cleaned_date_time":
		o.CleanedDateTime = timePtr(value)
	case "ironed_date_time":
		o.IronedDateTime = timePtr(value)
	case "ready_date_time":
		o.ReadyDateTime = timePtr(value)
	case "collected_date_time":
		o.CollectedDateTime = timePtr(value)
	case "delivered_date_time":
		o.DeliveredDateTime = timePtr(value)
	case "updated_at":
		o.UpdatedAt = value.(time.Time)
	}
}

func timePtr(value any) *time.Time {
	if value == nil {
		return nil
	}
	t := value.(time.Time)
	return &t
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*model.Notification
	created       []*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[uuid.UUID]*model.Notification{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	clone := *n
	r.notifications[n.ID] = &clone
	r.created = append(r.created, &clone)
	return nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, repository.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *fakeNotificationRepo) ListByStore(_ context.Context, storeID, status string, page, limit int) ([]model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.StoreID != storeID {
			continue
		}
		if status != "" && n.Status != status {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status, actionedBy string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	n.Status = status
	n.ActionedBy = actionedBy
	n.ActionedAt = &now
	n.UpdatedAt = now
	return nil
}

func (r *fakeNotificationRepo) Changes(_ context.Context, storeID string, since time.Time) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.StoreID == storeID && n.Type == model.NotificationTypeOrderCleaned && n.UpdatedAt.After(since) {
			out = append(out, *n)
		}
	}
	return out, nil
}

// Subscribe delivers the current batch synchronously, once. Enough to drive
// the watcher without real timers.
func (r *fakeNotificationRepo) Subscribe(_ context.Context, storeID string, _ time.Duration, onChange func([]model.Notification)) func() {
	batch, _ := r.Changes(context.Background(), storeID, time.Time{})
	if len(batch) > 0 {
		onChange(batch)
	}
	return func() {}
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*model.StoreSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[string]*model.StoreSettings{}}
}

func (r *fakeSettingsRepo) Get(_ context.Context, storeID string) (*model.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[storeID]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, settings *model.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *settings
	r.settings[settings.StoreID] = &clone
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []model.OrderEvent
}

func newFakeEventRepo() *fakeEventRepo { return &fakeEventRepo{} }

func (r *fakeEventRepo) Create(_ context.Context, event *model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) ListByOrder(_ context.Context, scope repository.Scope, orderID string) ([]model.OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OrderEvent
	for _, e := range r.events {
		if e.StoreID == scope.StoreID && e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

// noopTxManager runs the function directly; the fakes have no transactions.
type noopTxManager struct{}

func (noopTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func hasAction(actions []string, want string) bool {
	for _, a := range actions {
		if strings.EqualFold(a, want) {
			return true
		}
	}
	return false
}
