package node

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// MessageFunc handles a message delivered to a component.
type MessageFunc func(ctx context.Context, d ports.Dispatcher, m domain.Message) error

// EventFunc handles an event that ascended into a Branch.
type EventFunc func(ctx context.Context, d ports.Dispatcher, e domain.Event) error

// StateFunc creates the State for component id under parent.
type StateFunc func(id string, parent domain.State) domain.State

// Relay forwards the message one level down. It is the default handler of a Branch.
func Relay(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
	return d.RelayMessage(ctx, m)
}

// Bubble passes the event on to the next parent. It is the default event handler of a Branch.
func Bubble(ctx context.Context, d ports.Dispatcher, e domain.Event) error {
	return d.HandleEvent(ctx, e)
}

// Ignore accepts a message and does nothing.
func Ignore(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
	return nil
}

// Option configures a Leaf or Branch.
type Option func(*base)

// OnMessage sets the message handler.
func OnMessage(fn MessageFunc) Option {
	return func(b *base) {
		b.onMessage = fn
	}
}

// OnEvent sets the event handler (Branch only).
func OnEvent(fn EventFunc) Option {
	return func(b *base) {
		b.onEvent = fn
	}
}

// WithState sets the State factory.
func WithState(fn StateFunc) Option {
	return func(b *base) {
		b.newState = fn
	}
}

// WithStateDepth sets how many State levels a Branch spans per child.
func WithStateDepth(depth int) Option {
	return func(b *base) {
		b.depth = depth
	}
}

type base struct {
	id        string
	parent    ports.Parent
	onMessage MessageFunc
	onEvent   EventFunc
	newState  StateFunc
	depth     int
}

func newBase(id string, onMessage MessageFunc, opts []Option) base {
	b := base{
		id:        id,
		onMessage: onMessage,
		onEvent:   Bubble,
		depth:     1,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Parent() ports.Parent {
	return b.parent
}

func (b *base) setParent(p ports.Parent) {
	b.parent = p
}

func (b *base) CreateState(parent domain.State) domain.State {
	if b.newState != nil {
		return b.newState(b.id, parent)
	}
	return domain.NewBaseState(b.id)
}

func (b *base) Message(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
	if b.onMessage == nil {
		return nil
	}
	return b.onMessage(ctx, d, m)
}

// Leaf is a Component without children.
type Leaf struct {
	base
}

// NewLeaf creates a leaf whose default message handler ignores everything.
func NewLeaf(id string, opts ...Option) *Leaf {
	return &Leaf{base: newBase(id, Ignore, opts)}
}

// Branch is a Component with the Container and Parent aspects.
type Branch struct {
	base
	children []ports.Component
}

// NewBranch creates a branch that relays messages and bubbles events by default.
func NewBranch(id string, opts ...Option) *Branch {
	return &Branch{base: newBase(id, Relay, opts)}
}

func (b *Branch) Child(index int) ports.Component {
	return b.children[index]
}

func (b *Branch) ChildCount() int {
	return len(b.children)
}

func (b *Branch) StateDepth() int {
	return b.depth
}

func (b *Branch) HandleEvent(ctx context.Context, d ports.Dispatcher, e domain.Event) error {
	if b.onEvent == nil {
		return nil
	}
	return b.onEvent(ctx, d, e)
}

// Children returns the bound children in index order.
func (b *Branch) Children() []ports.Component {
	out := make([]ports.Component, len(b.children))
	copy(out, b.children)
	return out
}

type parentSetter interface {
	setParent(ports.Parent)
}

// Bind appends children to parent and points each child back at it. A wrapped child
// (one with an Unwrap method) is linked through the component it wraps.
// Children are fixed once the tree is handed to an engine.
func Bind(parent *Branch, children ...ports.Component) *Branch {
	for _, c := range children {
		link(c, parent)
		parent.children = append(parent.children, c)
	}
	return parent
}

func link(c ports.Component, parent ports.Parent) {
	for c != nil {
		if ps, ok := c.(parentSetter); ok {
			ps.setParent(parent)
			return
		}
		u, ok := c.(interface{ Unwrap() ports.Component })
		if !ok {
			return
		}
		c = u.Unwrap()
	}
}

var (
	_ ports.Component = (*Leaf)(nil)
	_ ports.Container = (*Branch)(nil)
	_ ports.Parent    = (*Branch)(nil)
)
