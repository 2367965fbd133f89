package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle notification.
type EventType string

const (
	EventDeliver      EventType = "deliver"
	EventStateCreated EventType = "state_created"
	EventAscend       EventType = "ascend"
)

// EventBase contains common fields for all lifecycle notifications.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	FrameID   uint64    `json:"frame_id"`
}

// DeliveryEvent reports a message reaching a component.
type DeliveryEvent struct {
	EventBase
	ComponentID string `json:"component_id"`
	Path        []int  `json:"path"`
	MessageType string `json:"message_type"`
	Multicast   bool   `json:"multicast,omitempty"`
	Err         error  `json:"-"`
}

// StateEvent reports a State being materialized for a component.
type StateEvent struct {
	EventBase
	ComponentID string `json:"component_id"`
	Path        []int  `json:"path"`
}

// EventTrace reports an event ascending into a parent component.
type EventTrace struct {
	EventBase
	FromComponentID string `json:"from_component_id"`
	ToComponentID   string `json:"to_component_id"`
	EventType       string `json:"event_type"`
	StateDepth      int    `json:"state_depth"`
}

// LifecycleHooks defines callbacks for dispatch observability.
// OnDeliver fires after delivery returns, with Err set when it failed.
type LifecycleHooks struct {
	OnDeliver      func(context.Context, *DeliveryEvent)
	OnStateCreated func(context.Context, *StateEvent)
	OnEvent        func(context.Context, *EventTrace)
}

// MergeHooks combines hook sets; callbacks run in argument order.
func MergeHooks(sets ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range sets {
		merged.OnDeliver = chain(merged.OnDeliver, h.OnDeliver)
		merged.OnStateCreated = chain(merged.OnStateCreated, h.OnStateCreated)
		merged.OnEvent = chain(merged.OnEvent, h.OnEvent)
	}
	return merged
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
