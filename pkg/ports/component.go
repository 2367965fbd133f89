package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Component is a node of the static behavior tree.
type Component interface {
	// ID identifies the component among its siblings.
	ID() string

	// CreateState returns a new, unlinked State for this component under parent.
	// The engine links it and stores it in the parent's slot.
	CreateState(parent domain.State) domain.State

	// Message handles a directive. Implementations must not retain d after returning.
	Message(ctx context.Context, d Dispatcher, m domain.Message) error

	// Parent returns the enclosing component, or nil at the root.
	Parent() Parent
}

// Container is the aspect of a Component that owns an ordered, bind-time-fixed list of children.
type Container interface {
	Component

	// Child returns the child at index; callers keep index within [0, ChildCount()).
	Child(index int) Component

	// ChildCount returns the number of children.
	ChildCount() int

	// HandleEvent reacts to an event ascending from one of the children.
	// The dispatcher is positioned on this container when it is called.
	HandleEvent(ctx context.Context, d Dispatcher, e domain.Event) error
}

// Parent is the aspect of a Component used for upward traversal.
type Parent interface {
	Component

	// StateDepth is the number of State levels this component spans for each child.
	// It is normally 1; a larger value interposes auxiliary levels. Zero is unsupported.
	StateDepth() int
}

// AsContainer returns the Container aspect of c, if any.
func AsContainer(c Component) (Container, bool) {
	if c == nil {
		return nil, false
	}
	container, ok := c.(Container)
	return container, ok
}

// AsParent returns the Parent aspect of c, if any.
func AsParent(c Component) (Parent, bool) {
	if c == nil {
		return nil, false
	}
	parent, ok := c.(Parent)
	return parent, ok
}

// FindAncestor searches the parents of c for the first component of type T.
func FindAncestor[T any](c Component) (T, bool) {
	if c != nil {
		for p := c.Parent(); p != nil; p = p.Parent() {
			if t, ok := p.(T); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}

// StateDistance returns how many State levels separate c from its nearest ancestor of type T.
// It is the sum of the state depths of every parent crossed on the way up.
func StateDistance[T any](c Component) (int, bool) {
	if c == nil {
		return 0, false
	}
	distance := 0
	for p := c.Parent(); p != nil; p = p.Parent() {
		distance += p.StateDepth()
		if _, ok := p.(T); ok {
			return distance, true
		}
	}
	return 0, false
}

// AuxStateCreator is implemented by a Parent whose StateDepth is greater than one and
// that supplies its own interposed States. level counts from 1 (directly under the
// parent's State) to StateDepth()-1.
type AuxStateCreator interface {
	CreateAuxState(parent domain.State, level int) domain.State
}
