package service

import (
	"context"
	"testing"
	"time"

	"laundryops/internal/filter"
	"laundryops/internal/model"
	"laundryops/internal/repository"
	"laundryops/internal/workflow"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testScope = repository.Scope{AdminID: "admin-1", StoreID: "store-1"}
	frozenNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
)

type orderFixture struct {
	svc           *orderService
	orders        *fakeOrderRepo
	notifications *fakeNotificationRepo
	settings      *fakeSettingsRepo
	events        *fakeEventRepo
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:        newFakeOrderRepo(),
		notifications: newFakeNotificationRepo(),
		settings:      newFakeSettingsRepo(),
		events:        newFakeEventRepo(),
	}
	svc := NewOrderService(f.orders, f.notifications, f.settings, f.events, noopTxManager{}, nil)
	f.svc = svc.(*orderService)
	f.svc.now = func() time.Time { return frozenNow }
	return f
}

func (f *orderFixture) seed(t *testing.T, orderID, status string, mods ...func(*model.Order)) {
	t.Helper()
	o := &model.Order{
		OrderID:      orderID,
		AdminID:      testScope.AdminID,
		StoreID:      testScope.StoreID,
		Status:       status,
		CustomerName: "Customer " + orderID,
		DeliveryDate: frozenNow,
		CreatedAt:    frozenNow.Add(-time.Hour),
	}
	for _, mod := range mods {
		mod(o)
	}
	require.NoError(t, f.orders.Create(context.Background(), o))
}

func (f *orderFixture) get(t *testing.T, orderID string) *model.Order {
	t.Helper()
	o, err := f.orders.GetOne(context.Background(), testScope, orderID)
	require.NoError(t, err)
	return o
}

func TestMarkCleanedHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Pending")

	err := f.svc.MarkCleaned(context.Background(), testScope, "ORD-1", MarkCleanedRequest{
		RackNumber:    "R-12",
		MachineNumber: "M-3",
		InitiatorID:   "staff-7",
		InitiatorName: "Pat",
	})
	require.NoError(t, err)

	o := f.get(t, "ORD-1")
	assert.Equal(t, "Cleaned", o.Status)
	assert.Equal(t, "R-12", o.RackNumber)
	assert.Equal(t, "M-3", o.MachineNumber)
	require.NotNil(t, o.CleanedDateTime)
	assert.Equal(t, frozenNow, *o.CleanedDateTime)

	require.Len(t, f.notifications.created, 1, "marking cleaned raises exactly one notification")
	n := f.notifications.created[0]
	assert.Equal(t, model.NotificationTypeOrderCleaned, n.Type)
	assert.Equal(t, model.NotificationPending, n.Status)
	assert.Equal(t, "ORD-1", n.OrderID)
	assert.Equal(t, testScope.StoreID, n.StoreID)
	assert.Equal(t, "staff-7", n.InitiatorID)
	assert.Equal(t, "Pat", n.InitiatorName)

	assert.Contains(t, f.events.actions(), model.ActionMarkCleaned)
}

func TestMarkCleanedWithoutRackChangesNothing(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Pending")

	err := f.svc.MarkCleaned(context.Background(), testScope, "ORD-1", MarkCleanedRequest{RackNumber: "  "})
	assert.ErrorIs(t, err, workflow.ErrRackRequired)

	o := f.get(t, "ORD-1")
	assert.Equal(t, "Pending", o.Status)
	assert.Empty(t, o.RackNumber)
	assert.Nil(t, o.CleanedDateTime)
	assert.Empty(t, f.notifications.created, "a refused transition must not notify")
	assert.Empty(t, f.events.actions())
}

func TestMarkCleanedIsIdempotent(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Pending")

	req := MarkCleanedRequest{RackNumber: "R-1", InitiatorID: "staff-7"}
	require.NoError(t, f.svc.MarkCleaned(context.Background(), testScope, "ORD-1", req))
	require.NoError(t, f.svc.MarkCleaned(context.Background(), testScope, "ORD-1", req))

	assert.Len(t, f.notifications.created, 1, "a replay must not raise a second notification")
}

func TestMarkCleanedUnknownOrder(t *testing.T) {
	f := newOrderFixture(t)
	err := f.svc.MarkCleaned(context.Background(), testScope, "ORD-404", MarkCleanedRequest{RackNumber: "R-1"})
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestFullIroningPipeline(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Pending")
	ctx := context.Background()

	require.NoError(t, f.svc.MarkCleaned(ctx, testScope, "ORD-1", MarkCleanedRequest{RackNumber: "R-1"}))
	require.NoError(t, f.svc.ConfirmRack(ctx, testScope, "ORD-1", ConfirmRackRequest{RackNumber: "R-2"}))
	require.NoError(t, f.svc.MarkIroned(ctx, testScope, "ORD-1", "staff-7"))
	require.NoError(t, f.svc.MarkCollected(ctx, testScope, "ORD-1", "staff-7"))

	o := f.get(t, "ORD-1")
	assert.Equal(t, "Collected", o.Status)
	assert.Equal(t, "R-2", o.RackNumber, "rack confirmation re-stamps the rack")
	assert.NotNil(t, o.IronedDateTime)
	assert.NotNil(t, o.CollectedDateTime)

	assert.Len(t, f.notifications.created, 1, "only the cleaning step notifies")
}

func TestSkipIroningIsRefused(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Pending")

	err := f.svc.MarkIroned(context.Background(), testScope, "ORD-1", "staff-7")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Equal(t, "Pending", f.get(t, "ORD-1").Status)
}

func TestCancelRecordsEvent(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Cleaned")

	require.NoError(t, f.svc.Cancel(context.Background(), testScope, "ORD-1", "staff-7"))
	assert.Equal(t, "Cancelled", f.get(t, "ORD-1").Status)
	assert.Contains(t, f.events.actions(), model.ActionCancelOrder)
}

func TestViewFiltersAndMetrics(t *testing.T) {
	f := newOrderFixture(t)
	total := decimal.RequireFromString("100")
	paid := decimal.RequireFromString("40")
	f.seed(t, "ORD-1", "Cleaned", func(o *model.Order) {
		o.CustomerName = "Alice"
		o.TotalAmount = &total
		o.PaidAmount = &paid
		o.Items = []model.OrderItem{{Name: "Shirt", Quantity: 2}}
	})
	f.seed(t, "ORD-2", "Cleaned", func(o *model.Order) { o.CustomerName = "Bob" })
	f.seed(t, "ORD-3", "Ready", func(o *model.Order) { o.CustomerName = "Alice" })

	result, err := f.svc.View(context.Background(), testScope, workflow.StatusCleaned, filter.Filters{Search: "alice"})
	require.NoError(t, err)

	require.Len(t, result.Orders, 1)
	row := result.Orders[0]
	assert.Equal(t, "ORD-1", row.OrderID)
	assert.Equal(t, 2, row.Pieces)
	assert.True(t, row.Due.Equal(decimal.RequireFromString("60")), "due = %s", row.Due)
	assert.Equal(t, 1, result.Metrics.Orders)
	assert.Equal(t, 2, result.Metrics.Pieces)
	assert.True(t, result.Metrics.Unpaid.Equal(decimal.RequireFromString("60")))
}

func TestUpdateThenViewRoundTrip(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Cleaned")

	notes := "handle with care"
	rack := "R-9"
	err := f.svc.UpdateDetails(context.Background(), testScope, "ORD-1", UpdateOrderRequest{
		Notes:      &notes,
		RackNumber: &rack,
	})
	require.NoError(t, err)

	result, err := f.svc.View(context.Background(), testScope, workflow.StatusCleaned, filter.Filters{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "handle with care", result.Orders[0].Notes)
	assert.Equal(t, "R-9", result.Orders[0].RackNumber)
}

func TestViewHighlightThresholds(t *testing.T) {
	f := newOrderFixture(t)
	// Five days past delivery: over the cleaning default (2), under the
	// ready default (20).
	f.seed(t, "ORD-1", "Cleaned", func(o *model.Order) { o.DeliveryDate = frozenNow.AddDate(0, 0, -5) })
	f.seed(t, "ORD-2", "Ready", func(o *model.Order) { o.DeliveryDate = frozenNow.AddDate(0, 0, -5) })

	cleaning, err := f.svc.View(context.Background(), testScope, workflow.StatusCleaned, filter.Filters{})
	require.NoError(t, err)
	require.Len(t, cleaning.Orders, 1)
	assert.True(t, cleaning.Orders[0].Highlight)

	ready, err := f.svc.View(context.Background(), testScope, workflow.StatusReady, filter.Filters{})
	require.NoError(t, err)
	require.Len(t, ready.Orders, 1)
	assert.False(t, ready.Orders[0].Highlight)
}

func TestViewHighlightUsesStoreSetting(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.settings.Upsert(context.Background(), &model.StoreSettings{
		StoreID:              testScope.StoreID,
		HighlightOrderRowRed: 10,
	}))
	f.seed(t, "ORD-1", "Cleaned", func(o *model.Order) { o.DeliveryDate = frozenNow.AddDate(0, 0, -5) })

	result, err := f.svc.View(context.Background(), testScope, workflow.StatusCleaned, filter.Filters{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.False(t, result.Orders[0].Highlight, "store override of 10 days beats the default of 2")
}

func TestPackingReportExclusions(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Cleaned")
	f.seed(t, "ORD-2", "Completed")
	f.seed(t, "ORD-3", "Ironing", func(o *model.Order) { o.Section = "Rental Linen" })

	result, err := f.svc.PackingReport(context.Background(), testScope, filter.Filters{})
	require.NoError(t, err)
	assert.Len(t, result.Orders, 2, "rental stays in while the feature is on")

	rentalOff := false
	require.NoError(t, f.settings.Upsert(context.Background(), &model.StoreSettings{
		StoreID:       testScope.StoreID,
		RentalEnabled: &rentalOff,
	}))

	result, err = f.svc.PackingReport(context.Background(), testScope, filter.Filters{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "ORD-1", result.Orders[0].OrderID)
}

func TestLookupRFID(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Ready", func(o *model.Order) { o.RFIDCode = "TAG-42" })

	view, err := f.svc.LookupRFID(context.Background(), testScope, "TAG-42")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", view.OrderID)

	view, err = f.svc.LookupRFID(context.Background(), testScope, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", view.OrderID, "lookup falls back to the order id")

	_, err = f.svc.LookupRFID(context.Background(), testScope, "TAG-404")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestDelete(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Pending")

	require.NoError(t, f.svc.Delete(context.Background(), testScope, "ORD-1", "staff-7"))
	_, err := f.orders.GetOne(context.Background(), testScope, "ORD-1")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	err = f.svc.Delete(context.Background(), testScope, "ORD-1", "staff-7")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestScopeIsolation(t *testing.T) {
	f := newOrderFixture(t)
	f.seed(t, "ORD-1", "Cleaned")

	otherScope := repository.Scope{AdminID: "admin-2", StoreID: "store-2"}
	_, err := f.svc.View(context.Background(), otherScope, workflow.StatusCleaned, filter.Filters{})
	require.NoError(t, err)

	err = f.svc.MarkIroned(context.Background(), otherScope, "ORD-1", "staff-7")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound, "another tenant cannot touch the order")
}
