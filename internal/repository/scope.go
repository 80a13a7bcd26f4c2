package repository

import "errors"

// Scope identifies the tenant (admin account) and store every order query is
// bound to. Both are opaque identifiers threaded in explicitly; no ambient
// global state.
type Scope struct {
	AdminID string
	StoreID string
}

// Repository sentinel errors
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
