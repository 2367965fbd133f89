package domain

import (
	"errors"
	"fmt"
)

// ErrIllegalState is returned for protocol violations: unbalanced descend/ascend,
// call-path overflow or underflow, or operating on a call that is not in progress.
// These are programming errors and are never retried.
var ErrIllegalState = errors.New("illegal state")

// ErrRouteOutOfRange is returned when a route segment addresses a child that does not exist.
var ErrRouteOutOfRange = errors.New("route segment out of range")

// ErrChildNotFound is returned when a call path names a child that does not exist.
var ErrChildNotFound = errors.New("child not found")

// ErrSessionNotFound is returned when a session ID has no materialized state tree.
var ErrSessionNotFound = errors.New("session not found")

// IllegalState builds an error wrapping ErrIllegalState with a reason.
func IllegalState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, fmt.Sprintf(format, args...))
}

// RouteError describes a route segment that cannot be followed.
type RouteError struct {
	ComponentID string
	Index       int
	ChildCount  int
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("component '%s' has no child %d (children: %d)", e.ComponentID, e.Index, e.ChildCount)
}

func (e *RouteError) Unwrap() error {
	return ErrRouteOutOfRange
}
