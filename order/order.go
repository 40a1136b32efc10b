// Package order owns the reservation lifecycle: pending orders, their
// scheduled transitions, and the time-bounded leases that confirmation
// activates. It is the only part of the system with concurrent mutable state.
package order

import (
	"errors"
	"time"
)

// State is the lifecycle position of an in-flight order. Transitions only
// move forward; retirement is expressed by removing the record.
type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
)

var (
	// ErrDuplicateID is returned when a create collides with an existing order id.
	ErrDuplicateID = errors.New("order: duplicate id")
)

// SessionRef is the opaque handle used to route outbound messages back to
// the originating conversation. The transport decides what it actually is;
// the state machine only passes it through.
type SessionRef any

// Order tracks one user's selection from reservation to retirement.
// It is exclusively owned by the Store until it is removed.
type Order struct {
	ID         string
	UserID     int64
	VariantKey string
	InstanceID string
	Price      int
	State      State
	CreatedAt  time.Time
	Session    SessionRef
}

// Lease grants a user claim over an instance identifier until ExpiresAt.
type Lease struct {
	UserID     int64
	InstanceID string
	VariantKey string
	ExpiresAt  time.Time
}
