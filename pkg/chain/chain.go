// Package chain wraps a component's message handling with handlers that run before and
// after it, e.g. to validate, trace or post-process around a relay.
package chain

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Handler runs around a component's own Message. The dispatcher is positioned on the
// wrapped component.
type Handler func(ctx context.Context, d ports.Dispatcher, m domain.Message) error

// Wrap returns a component that behaves like c, except that Message runs pre, then
// c.Message, then post. The first error stops the chain.
//
// The Container and Parent aspects of c are preserved.
func Wrap(c ports.Component, pre, post []Handler) ports.Component {
	w := &wrapped{Component: c, pre: pre, post: post}
	container, isContainer := ports.AsContainer(c)
	parent, isParent := ports.AsParent(c)
	switch {
	case isContainer && isParent:
		return &wrappedBranch{wrapped: w, container: container, parent: parent}
	case isContainer:
		return &wrappedContainer{wrapped: w, container: container}
	case isParent:
		return &wrappedParent{wrapped: w, parent: parent}
	}
	return w
}

type wrapped struct {
	ports.Component
	pre, post []Handler
}

func (w *wrapped) Message(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
	for _, h := range w.pre {
		if err := h(ctx, d, m); err != nil {
			return err
		}
	}
	if err := w.Component.Message(ctx, d, m); err != nil {
		return err
	}
	for _, h := range w.post {
		if err := h(ctx, d, m); err != nil {
			return err
		}
	}
	return nil
}

// Unwrap returns the wrapped component.
func (w *wrapped) Unwrap() ports.Component {
	return w.Component
}

type wrappedContainer struct {
	*wrapped
	container ports.Container
}

func (w *wrappedContainer) Child(index int) ports.Component { return w.container.Child(index) }
func (w *wrappedContainer) ChildCount() int { return w.container.ChildCount() }
func (w *wrappedContainer) HandleEvent(ctx context.Context, d ports.Dispatcher, e domain.Event) error {
	return w.container.HandleEvent(ctx, d, e)
}

type wrappedParent struct {
	*wrapped
	parent ports.Parent
}

func (w *wrappedParent) StateDepth() int { return w.parent.StateDepth() }

type wrappedBranch struct {
	*wrapped
	container ports.Container
	parent    ports.Parent
}

func (w *wrappedBranch) Child(index int) ports.Component { return w.container.Child(index) }
func (w *wrappedBranch) ChildCount() int { return w.container.ChildCount() }
func (w *wrappedBranch) StateDepth() int { return w.parent.StateDepth() }
func (w *wrappedBranch) HandleEvent(ctx context.Context, d ports.Dispatcher, e domain.Event) error {
	return w.container.HandleEvent(ctx, d, e)
}

var (
	_ ports.Container = (*wrappedContainer)(nil)
	_ ports.Container = (*wrappedBranch)(nil)
	_ ports.Parent    = (*wrappedBranch)(nil)
	_ ports.Parent    = (*wrappedParent)(nil)
)
