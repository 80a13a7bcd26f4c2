// Package filter is the pure filter & metrics engine behind every dashboard
// view: given the raw order list for a status and the staff's filter
// selections, it produces the rows to display and the header metrics.
// It holds no state and touches no storage.
package filter

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"laundryops/internal/model"
	"laundryops/internal/workflow"
)

// DueBucket is a named delivery-date filter category.
type DueBucket string

const (
	DueAll          DueBucket = "All"
	DueToday        DueBucket = "Due Today"
	DueTomorrow     DueBucket = "Due Tomorrow"
	DueTodayOverdue DueBucket = "Due Today & Overdue"
	DueOverdue      DueBucket = "Overdue"
	DueCreatedToday DueBucket = "Created Today"
)

// SectionAll and PriceListAll disable the respective exact-match filters.
const (
	SectionAll   = "All"
	PriceListAll = "All"
)

// Filters are the staff's selections for one view. Zero values are no-ops:
// empty search matches everything, empty/"All" section and price list skip
// the exact match, an empty bucket behaves like DueAll, and the date range
// only applies when both bounds are set.
type Filters struct {
	Search    string
	Section   string
	Due       DueBucket
	StartDate *time.Time
	EndDate   *time.Time
	PriceList string
}

// Metrics are the header sums over the post-filter list.
type Metrics struct {
	Orders int             `json:"orders"`
	Pieces int             `json:"pieces"`
	Value  decimal.Decimal `json:"value"`
	Unpaid decimal.Decimal `json:"unpaid"`
}

// Resolver supplies the field-resolution strategy for orders of any origin.
// The default delegates to the fallback chains documented in
// internal/model/resolve.go; tests substitute their own.
type Resolver interface {
	Items(o *model.Order) []model.OrderItem
	Pieces(o *model.Order) int
	Section(o *model.Order) string
	PriceList(o *model.Order) string
	Total(o *model.Order) decimal.Decimal
	Due(o *model.Order) decimal.Decimal
}

type defaultResolver struct{}

func (defaultResolver) Items(o *model.Order) []model.OrderItem { return o.ResolvedItems() }
func (defaultResolver) Pieces(o *model.Order) int              { return o.PieceCount() }
func (defaultResolver) Section(o *model.Order) string          { return o.ResolvedSection() }
func (defaultResolver) PriceList(o *model.Order) string        { return o.ResolvedPriceList() }
func (defaultResolver) Total(o *model.Order) decimal.Decimal   { return o.ResolvedTotal() }
func (defaultResolver) Due(o *model.Order) decimal.Decimal     { return o.ResolvedDue() }

// Engine evaluates filters and metrics. Safe for concurrent use.
type Engine struct {
	resolve Resolver
}

// New returns an engine using the default field resolver.
func New() *Engine { return &Engine{resolve: defaultResolver{}} }

// NewWithResolver returns an engine with a custom field-resolution strategy.
func NewWithResolver(r Resolver) *Engine { return &Engine{resolve: r} }

// Apply runs every selected predicate (combined by AND) over orders and
// computes metrics over the survivors. The input slice is not modified;
// order of the survivors follows the input.
func (e *Engine) Apply(orders []model.Order, f Filters, now time.Time) ([]model.Order, Metrics) {
	displayed := make([]model.Order, 0, len(orders))
	for i := range orders {
		if e.matches(&orders[i], f, now) {
			displayed = append(displayed, orders[i])
		}
	}
	return displayed, e.metrics(displayed)
}

func (e *Engine) matches(o *model.Order, f Filters, now time.Time) bool {
	return e.matchSearch(o, f.Search) &&
		e.matchSection(o, f.Section) &&
		matchDue(o, f.Due, now) &&
		matchDateRange(o, f.StartDate, f.EndDate) &&
		e.matchPriceList(o, f.PriceList)
}

// matchSearch is a case-insensitive substring match against the customer
// name or the order id. Empty query matches everything.
func (e *Engine) matchSearch(o *model.Order, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.CustomerName), query) ||
		strings.Contains(strings.ToLower(o.OrderID), query)
}

func (e *Engine) matchSection(o *model.Order, section string) bool {
	if section == "" || section == SectionAll {
		return true
	}
	return e.resolve.Section(o) == section
}

func (e *Engine) matchPriceList(o *model.Order, name string) bool {
	if name == "" || name == PriceListAll {
		return true
	}
	return e.resolve.PriceList(o) == name
}

// matchDue evaluates the bucket against local-day boundaries
// (00:00:00.000 to 23:59:59.999 of the relevant day).
func matchDue(o *model.Order, bucket DueBucket, now time.Time) bool {
	if bucket == "" || bucket == DueAll {
		return true
	}

	todayStart := startOfDay(now)
	todayEnd := endOfDay(now)
	delivery := o.DeliveryDate

	switch bucket {
	case DueToday:
		return within(delivery, todayStart, todayEnd)
	case DueTomorrow:
		return within(delivery, todayStart.AddDate(0, 0, 1), todayEnd.AddDate(0, 0, 1))
	case DueTodayOverdue:
		return within(delivery, todayStart, todayEnd) || delivery.Before(todayStart)
	case DueOverdue:
		return delivery.Before(todayStart)
	case DueCreatedToday:
		return within(o.CreatedAt, todayStart, todayEnd)
	default:
		return true
	}
}

// matchDateRange is the packing-report absolute range over the creation
// date, inclusive of the whole end day. With either bound missing the range
// filter is skipped entirely, never applied half-way.
func matchDateRange(o *model.Order, start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return within(o.CreatedAt, startOfDay(*start), endOfDay(*end))
}

func (e *Engine) metrics(orders []model.Order) Metrics {
	m := Metrics{
		Orders: len(orders),
		Value:  decimal.Zero,
		Unpaid: decimal.Zero,
	}
	for i := range orders {
		o := &orders[i]
		m.Pieces += e.resolve.Pieces(o)
		m.Value = m.Value.Add(e.resolve.Total(o))
		m.Unpaid = m.Unpaid.Add(e.resolve.Due(o))
	}
	return m
}

// ShouldHighlight reports whether a row gets the overdue highlight:
// floor((now - deliveryDate) / 1 day) >= thresholdDays. Independent of the
// due-bucket filter.
func ShouldHighlight(o *model.Order, thresholdDays int, now time.Time) bool {
	if o.DeliveryDate.IsZero() {
		return false
	}
	days := int(math.Floor(now.Sub(o.DeliveryDate).Hours() / 24))
	return days >= thresholdDays
}

// PackingReport narrows a full order dump to the cleaning pipeline: orders
// not yet Completed or Cancelled, minus rental-category orders when the
// store's rental feature is off.
func (e *Engine) PackingReport(orders []model.Order, rentalEnabled bool) []model.Order {
	out := make([]model.Order, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		status := workflow.Status(o.Status)
		if status == workflow.StatusCompleted || status == workflow.StatusCancelled {
			continue
		}
		if !rentalEnabled && isRentalSection(e.resolve.Section(o)) {
			continue
		}
		out = append(out, orders[i])
	}
	return out
}

func isRentalSection(section string) bool {
	return strings.Contains(strings.ToLower(section), "rental") || section == "Rental Linen"
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Millisecond)
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
