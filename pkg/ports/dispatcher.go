package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Dispatcher is the routing protocol a Component sees while handling a Message or Event.
//
// It tracks the current (State, Component) pair and a route cursor. Every operation that
// moves the pair restores it before returning, whether delivery succeeded, failed or panicked.
type Dispatcher interface {
	// State returns the current State (nil in stateless mode).
	State() domain.State

	// Component returns the current Component.
	Component() Component

	// Frame returns the frame of the batch being processed.
	Frame() domain.Frame

	// Stateful reports whether States are materialized during delivery.
	Stateful() bool

	// PushPath consumes the next route segment, if any.
	PushPath() (int, bool)

	// PopPath returns the last consumed segment to the front of the route.
	PopPath()

	// Remaining returns a copy of the unconsumed route segments.
	Remaining() []int

	// RelayMessage forwards m one level down: to the child at the next route segment
	// or, with no route left, to every child if m is multicast.
	RelayMessage(ctx context.Context, m domain.Message) error

	// MessageChild delivers m to the child at index, materializing its State if needed.
	MessageChild(ctx context.Context, index int, m domain.Message) error

	// HandleEvent ascends e to the parent of the current component.
	HandleEvent(ctx context.Context, e domain.Event) error

	// Descend moves the current position into the child at index. In-band descents also
	// consume a route segment. Each Descend must be matched by one Ascend, LIFO.
	Descend(index int, outOfBand bool) error

	// Ascend undoes the most recent Descend.
	Ascend(outOfBand bool) error

	// Call delivers m to the descendant reached by following child IDs from the current
	// component. Calls nest: the target may issue its own Call.
	Call(ctx context.Context, m domain.Message, names ...string) error
}
