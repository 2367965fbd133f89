package runtime

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// position is one entry of the explicit dispatch stack: the (State, Component) pair
// that is current while the entry is on top.
type position struct {
	state     domain.State
	component ports.Component

	// Set only for entries pushed by Descend.
	descended  bool
	outOfBand  bool
	pushedPath bool
}

// Dispatcher threads messages through the component and State trees for one logical
// thread of control. It is re-entrant (components may dispatch from inside a delivery)
// but must not be used by more than one goroutine at a time.
type Dispatcher struct {
	engine *Engine
	stack  []position
	route  route
	frame  domain.Frame
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) top() (position, bool) {
	if len(d.stack) == 0 {
		return position{}, false
	}
	return d.stack[len(d.stack)-1], true
}

func (d *Dispatcher) push(p position) {
	d.stack = append(d.stack, p)
}

// unwind truncates the stack back to mark, returning consumed route segments of any
// descents left open. It reports an illegal-state error when the stack does not hold
// exactly the entry pushed at mark, unless err already carries a failure.
func (d *Dispatcher) unwind(mark int, err error) error {
	open := len(d.stack) - (mark + 1)
	for i := len(d.stack) - 1; i >= mark; i-- {
		if d.stack[i].pushedPath {
			d.route.pop()
		}
		d.stack[i] = position{}
	}
	d.stack = d.stack[:mark]
	if open != 0 && err == nil {
		return domain.IllegalState("unbalanced descend: %d descent(s) left open", open)
	}
	return err
}

// Depth returns the number of entries on the dispatch stack.
func (d *Dispatcher) Depth() int {
	return len(d.stack)
}

func (d *Dispatcher) State() domain.State {
	p, _ := d.top()
	return p.state
}

func (d *Dispatcher) Component() ports.Component {
	p, _ := d.top()
	return p.component
}

func (d *Dispatcher) Frame() domain.Frame {
	return d.frame
}

func (d *Dispatcher) Stateful() bool {
	return d.engine.Stateful()
}

func (d *Dispatcher) PushPath() (int, bool) {
	return d.route.push()
}

func (d *Dispatcher) PopPath() {
	d.route.pop()
}

func (d *Dispatcher) Remaining() []int {
	return d.route.remaining()
}

// Consumed returns a copy of the route segments consumed so far.
func (d *Dispatcher) Consumed() []int {
	return d.route.consumed()
}

// SendMessage is the root entry point: it installs c and s as the current pair, replaces
// the route with path, delivers m to c, and restores everything it replaced.
func (d *Dispatcher) SendMessage(ctx context.Context, frame domain.Frame, m domain.Message, c ports.Component, s domain.State, path []int) error {
	return d.Within(ctx, frame, c, s, path, func(ctx context.Context) error {
		return d.deliver(ctx, m)
	})
}

// Within runs fn with c and s installed as the current pair and path as the route.
// The previous pair, route and frame are restored when fn returns or panics.
func (d *Dispatcher) Within(ctx context.Context, frame domain.Frame, c ports.Component, s domain.State, path []int, fn func(context.Context) error) (err error) {
	if c == nil {
		return domain.IllegalState("dispatch requires a component")
	}
	if d.Stateful() && s == nil {
		return domain.IllegalState("stateful dispatch to '%s' requires a state", c.ID())
	}
	if !d.Stateful() {
		s = nil
	}

	savedRoute := d.route
	savedFrame := d.frame
	mark := len(d.stack)

	d.push(position{state: s, component: c})
	d.route.reset(path)
	d.frame = frame
	defer func() {
		err = d.unwind(mark, err)
		d.route = savedRoute
		d.frame = savedFrame
	}()

	return fn(ctx)
}

// deliver hands m to the current component, bracketing its State in the current frame.
func (d *Dispatcher) deliver(ctx context.Context, m domain.Message) error {
	p, ok := d.top()
	if !ok {
		return domain.IllegalState("no dispatch in progress")
	}

	var path []int
	if p.state != nil {
		path = p.state.Path()
		if !d.frame.IsZero() {
			p.state.EnterFrame(d.frame)
			defer p.state.ExitFrame()
		}
	}

	d.engine.logger.DebugContext(ctx, "delivering message",
		"component", p.component.ID(),
		"path", path,
		"message_type", m.Type,
		"multicast", m.Multicast,
	)

	err := p.component.Message(ctx, d, m)

	if d.engine.hooks.OnDeliver != nil {
		d.engine.hooks.OnDeliver(ctx, &domain.DeliveryEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventDeliver,
				FrameID:   d.frame.ID(),
			},
			ComponentID: p.component.ID(),
			Path:        path,
			MessageType: m.Type,
			Multicast:   m.Multicast,
			Err:         err,
		})
	}
	return err
}
