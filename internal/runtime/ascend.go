package runtime

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// HandleEvent ascends e from the current component into its parent. The current State
// moves up by the parent's state depth, so multi-level parents see their own State.
// If the parent has a Container aspect it handles e; it may call HandleEvent again to
// keep the event climbing.
func (d *Dispatcher) HandleEvent(ctx context.Context, e domain.Event) (err error) {
	cur, ok := d.top()
	if !ok {
		return domain.IllegalState("no dispatch in progress")
	}
	parent := cur.component.Parent()
	if parent == nil {
		return nil
	}

	depth := parent.StateDepth()
	state := cur.state
	if d.Stateful() && state != nil {
		state = domain.Ancestor(state, depth)
	}

	d.engine.logger.DebugContext(ctx, "event ascending",
		"component", cur.component.ID(),
		"parent", parent.ID(),
		"event_type", e.Type,
		"state_depth", depth,
	)
	if d.engine.hooks.OnEvent != nil {
		d.engine.hooks.OnEvent(ctx, &domain.EventTrace{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventAscend,
				FrameID:   d.frame.ID(),
			},
			FromComponentID: cur.component.ID(),
			ToComponentID:   parent.ID(),
			EventType:       e.Type,
			StateDepth:      depth,
		})
	}

	mark := len(d.stack)
	d.push(position{state: state, component: parent})
	defer func() {
		err = d.unwind(mark, err)
	}()

	if container, ok := ports.AsContainer(parent); ok {
		return container.HandleEvent(ctx, d, e)
	}
	return nil
}
