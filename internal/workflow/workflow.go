// Package workflow defines the order statuses and the only legal moves
// between them. Every forward transition is an explicit staff action; the
// package computes the partial field set a transition stamps and refuses
// anything outside the table.
package workflow

import (
	"fmt"
	"strings"
	"time"
)

// Status is an order's position in the cleaning pipeline.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusUnCleaned Status = "Un-Cleaned"
	StatusCleaned   Status = "Cleaned"
	StatusIroning   Status = "Ironing"
	StatusReady     Status = "Ready"
	StatusCollected Status = "Collected"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Transition errors
var (
	ErrInvalidTransition = fmt.Errorf("illegal status transition")
	ErrRackRequired      = fmt.Errorf("rack number is required")
	ErrUnknownStatus     = fmt.Errorf("unknown order status")
)

// Input carries the staff-supplied fields a transition may need.
type Input struct {
	RackNumber    string
	MachineNumber string
}

// Patch is the partial field set a transition stamps, keyed by column name,
// in the shape the repository's partial update takes.
type Patch map[string]any

type edge struct{ from, to Status }

type transitionFn func(in Input, now time.Time) (Patch, bool, error)

// transitions is the full table of legal moves. The bool a handler returns
// reports whether the move emits an orderCleaned review notification.
var transitions = map[edge]transitionFn{
	{StatusPending, StatusCleaned}:   markCleaned,
	{StatusUnCleaned, StatusCleaned}: markCleaned,
	{StatusCleaned, StatusIroning}:   confirmRack,
	{StatusIroning, StatusReady}:     markIroned,
	{StatusCleaned, StatusReady}:     acceptCleaning,
	{StatusReady, StatusCollected}:   markCollected,
	{StatusReady, StatusCompleted}:   markDelivered,
	{StatusCleaned, StatusUnCleaned}: declineCleaning,

	{StatusPending, StatusCancelled}:   cancel,
	{StatusUnCleaned, StatusCancelled}: cancel,
	{StatusCleaned, StatusCancelled}:   cancel,
	{StatusIroning, StatusCancelled}:   cancel,
	{StatusReady, StatusCancelled}:     cancel,
}

// Transition validates the move from -> to and returns the fields it stamps.
// Re-applying a transition the order already completed (from == to) is a
// no-op: the empty patch and a false emit flag come back, so callers never
// double-write or double-notify.
func Transition(from, to Status, in Input, now time.Time) (Patch, bool, error) {
	if from == to {
		return Patch{}, false, nil
	}
	fn, ok := transitions[edge{from, to}]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	patch, emit, err := fn(in, now)
	if err != nil {
		return nil, false, err
	}
	patch["status"] = string(to)
	patch["updated_at"] = now
	return patch, emit, nil
}

// markCleaned stamps the rack assignment and cleaned time and raises the
// review notification. Refused without a rack number, with no state change.
func markCleaned(in Input, now time.Time) (Patch, bool, error) {
	if strings.TrimSpace(in.RackNumber) == "" {
		return nil, false, ErrRackRequired
	}
	patch := Patch{
		"rack_number":       in.RackNumber,
		"cleaned_date_time": now,
	}
	if in.MachineNumber != "" {
		patch["machine_number"] = in.MachineNumber
	}
	return patch, true, nil
}

// confirmRack moves a cleaned order onto the ironing queue. It re-stamps the
// rack and cleaned time the same way markCleaned does but never re-notifies;
// the overlap is inherited from the source workflow, where both steps double
// as "rack assignment confirmed".
func confirmRack(in Input, now time.Time) (Patch, bool, error) {
	if strings.TrimSpace(in.RackNumber) == "" {
		return nil, false, ErrRackRequired
	}
	return Patch{
		"rack_number":       in.RackNumber,
		"cleaned_date_time": now,
	}, false, nil
}

func markIroned(_ Input, now time.Time) (Patch, bool, error) {
	return Patch{"ironed_date_time": now}, false, nil
}

// acceptCleaning is the admin approving the cleaning review.
func acceptCleaning(_ Input, now time.Time) (Patch, bool, error) {
	return Patch{"ready_date_time": now}, false, nil
}

func markCollected(_ Input, now time.Time) (Patch, bool, error) {
	return Patch{"collected_date_time": now}, false, nil
}

func markDelivered(_ Input, now time.Time) (Patch, bool, error) {
	return Patch{"delivered_date_time": now}, false, nil
}

// declineCleaning reverts an order whose cleaning review was refused. The
// cleaned timestamp is cleared; this is the only path that ever clears a
// transition timestamp.
func declineCleaning(_ Input, _ time.Time) (Patch, bool, error) {
	return Patch{"cleaned_date_time": nil}, false, nil
}

func cancel(_ Input, _ time.Time) (Patch, bool, error) {
	return Patch{}, false, nil
}

// ActiveStatuses are the statuses dashboard views list. Cancelled orders are
// excluded everywhere; Collected and Completed only show in history views.
var ActiveStatuses = []Status{
	StatusPending, StatusUnCleaned, StatusCleaned, StatusIroning, StatusReady,
}

// Terminal reports whether no transition leads out of s.
func Terminal(s Status) bool {
	return s == StatusCollected || s == StatusCompleted || s == StatusCancelled
}

var statusNames = map[string]Status{
	"pending":   StatusPending,
	"uncleaned": StatusUnCleaned,
	"cleaned":   StatusCleaned,
	"ironing":   StatusIroning,
	"ready":     StatusReady,
	"collected": StatusCollected,
	"completed": StatusCompleted,
	"cancelled": StatusCancelled,
}

// ParseStatus maps user-facing status names onto a Status. It accepts the
// canonical form and the lowercase URL form ("Un-Cleaned", "uncleaned").
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	if st, ok := statusNames[normalized]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}
