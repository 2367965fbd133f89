package runtime

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// RelayMessage forwards m one level below the current component.
//
// With route segments remaining, only the child at the next segment receives m. With no
// route left, a multicast m reaches every immediate child in index order; a targeted m
// reaches nobody. Fan-out is never transitive: grandchildren see m only if a child relays.
func (d *Dispatcher) RelayMessage(ctx context.Context, m domain.Message) error {
	container, ok := ports.AsContainer(d.Component())
	if !ok {
		return nil
	}

	if index, ok := d.PushPath(); ok {
		defer d.PopPath()
		return d.MessageChild(ctx, index, m)
	}

	if !m.IsMulticast() {
		return nil
	}

	// Children are fixed at bind time; the count is read once.
	count := container.ChildCount()
	for i := 0; i < count; i++ {
		if err := d.MessageChild(ctx, i, m); err != nil {
			return err
		}
	}
	return nil
}

// MessageChild delivers m to the child at index. In stateful mode the child's State is
// materialized on first visit and reused afterwards.
func (d *Dispatcher) MessageChild(ctx context.Context, index int, m domain.Message) (err error) {
	child, cur, err := d.child(index)
	if err != nil {
		return err
	}

	next := position{state: cur.state, component: child}
	if d.Stateful() {
		next.state, err = d.ensureChildState(ctx, cur, index, child)
		if err != nil {
			return err
		}
	}

	mark := len(d.stack)
	d.push(next)
	defer func() {
		err = d.unwind(mark, err)
	}()

	return d.deliver(ctx, m)
}

// child resolves the child component at index below the current position.
func (d *Dispatcher) child(index int) (ports.Component, position, error) {
	cur, ok := d.top()
	if !ok {
		return nil, position{}, domain.IllegalState("no dispatch in progress")
	}
	container, ok := ports.AsContainer(cur.component)
	if !ok {
		return nil, cur, domain.IllegalState("component '%s' is not a container", cur.component.ID())
	}
	if count := container.ChildCount(); index < 0 || index >= count {
		return nil, cur, &domain.RouteError{ComponentID: cur.component.ID(), Index: index, ChildCount: count}
	}
	return container.Child(index), cur, nil
}

// ensureChildState returns the State stored for child at index, creating and linking it
// (plus any interposed levels of a multi-level parent) when absent.
func (d *Dispatcher) ensureChildState(ctx context.Context, cur position, index int, child ports.Component) (domain.State, error) {
	if cur.state == nil {
		return nil, domain.IllegalState("component '%s' has no state", cur.component.ID())
	}

	holder := cur.state
	slot := index
	if parent, ok := ports.AsParent(cur.component); ok {
		for level := 1; level < parent.StateDepth(); level++ {
			aux, err := d.ensureSlot(ctx, holder, slot, func(s domain.State) domain.State {
				if creator, ok := parent.(ports.AuxStateCreator); ok {
					return creator.CreateAuxState(s, level)
				}
				return domain.NewBaseState(parent.ID())
			}, parent.ID())
			if err != nil {
				return nil, err
			}
			holder, slot = aux, 0
		}
	}

	return d.ensureSlot(ctx, holder, slot, child.CreateState, child.ID())
}

func (d *Dispatcher) ensureSlot(ctx context.Context, holder domain.State, slot int, create func(domain.State) domain.State, componentID string) (domain.State, error) {
	if existing := holder.Child(slot); existing != nil {
		return existing, nil
	}

	s := create(holder)
	if s == nil {
		return nil, domain.IllegalState("component '%s' returned no state", componentID)
	}
	path := domain.ChildPath(holder, slot)
	s.Link(holder, path)
	holder.SetChild(slot, s)

	d.engine.logger.DebugContext(ctx, "state materialized", "component", componentID, "path", path)
	if d.engine.hooks.OnStateCreated != nil {
		d.engine.hooks.OnStateCreated(ctx, &domain.StateEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventStateCreated,
				FrameID:   d.frame.ID(),
			},
			ComponentID: componentID,
			Path:        path,
		})
	}
	return s, nil
}
