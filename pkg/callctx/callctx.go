// Package callctx tracks progress through nested name-addressed calls.
//
// A Stack of CallStates travels inside a context.Context instead of living in
// goroutine-local storage: every logical call chain that derives its context from the
// same WithStack root shares one cursor stack, and unrelated chains never interact.
// A Stack is not safe for concurrent use; give each goroutine its own with WithStack.
package callctx

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
)

var (
	ErrNoCall   = fmt.Errorf("%w: no call in progress", domain.ErrIllegalState)
	ErrMaxDepth = fmt.Errorf("%w: call already at max depth", domain.ErrIllegalState)
	ErrUnwound  = fmt.Errorf("%w: call stack already unwound", domain.ErrIllegalState)
)

// CallState is the cursor of one call: the path being followed and how far along it is.
// NextIndex is always within [0, len(Path)].
type CallState struct {
	path      []string
	nextIndex int
}

// Path returns a copy of the call path.
func (c *CallState) Path() []string {
	return slices.Clone(c.path)
}

func (c *CallState) NextIndex() int {
	return c.nextIndex
}

// Stack holds the CallStates of nested calls, innermost last.
type Stack struct {
	calls []*CallState
}

func (s *Stack) current() (*CallState, bool) {
	if s == nil || len(s.calls) == 0 {
		return nil, false
	}
	return s.calls[len(s.calls)-1], true
}

// Depth returns the number of calls in progress.
func (s *Stack) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.calls)
}

type stackKey struct{}

// WithStack returns a child context carrying a fresh, empty Stack.
func WithStack(ctx context.Context) context.Context {
	return context.WithValue(ctx, stackKey{}, &Stack{})
}

// FromContext returns the Stack carried by ctx, or nil.
func FromContext(ctx context.Context) *Stack {
	s, _ := ctx.Value(stackKey{}).(*Stack)
	return s
}

// PushCall starts a call along path. If ctx carries no Stack one is installed, so
// callers must continue with the returned context.
func PushCall(ctx context.Context, path []string) context.Context {
	s := FromContext(ctx)
	if s == nil {
		ctx = WithStack(ctx)
		s = FromContext(ctx)
	}
	s.calls = append(s.calls, &CallState{path: slices.Clone(path)})
	return ctx
}

// PopCall ends the innermost call.
func PopCall(ctx context.Context) error {
	s := FromContext(ctx)
	if _, ok := s.current(); !ok {
		return ErrNoCall
	}
	s.calls[len(s.calls)-1] = nil
	s.calls = s.calls[:len(s.calls)-1]
	return nil
}

// Current returns the innermost CallState.
func Current(ctx context.Context) (*CallState, bool) {
	return FromContext(ctx).current()
}

// NextSegment returns the segment the innermost call is about to enter. It reports
// false when the path is exhausted or no call is in progress.
func NextSegment(ctx context.Context) (string, bool) {
	c, ok := Current(ctx)
	if !ok || c.nextIndex == len(c.path) {
		return "", false
	}
	return c.path[c.nextIndex], true
}

// Descend advances the innermost call by one segment.
func Descend(ctx context.Context) error {
	c, ok := Current(ctx)
	if !ok {
		return ErrNoCall
	}
	if c.nextIndex == len(c.path) {
		return ErrMaxDepth
	}
	c.nextIndex++
	return nil
}

// Ascend moves the innermost call back by one segment.
func Ascend(ctx context.Context) error {
	c, ok := Current(ctx)
	if !ok {
		return ErrNoCall
	}
	if c.nextIndex == 0 {
		return ErrUnwound
	}
	c.nextIndex--
	return nil
}
