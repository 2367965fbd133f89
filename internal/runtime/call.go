package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/callctx"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Call delivers m to the descendant named by names, relative to the current component.
//
// The walk is tracked by a CallState on ctx and performed with out-of-band descents, so
// the route cursor of the enclosing delivery is left untouched. Every descent is undone
// before Call returns.
func (d *Dispatcher) Call(ctx context.Context, m domain.Message, names ...string) (err error) {
	ctx = callctx.PushCall(ctx, names)
	depth := 0
	defer func() {
		for ; depth > 0; depth-- {
			if uerr := errors.Join(d.Ascend(true), callctx.Ascend(ctx)); uerr != nil {
				err = errors.Join(err, uerr)
			}
		}
		if perr := callctx.PopCall(ctx); perr != nil {
			err = errors.Join(err, perr)
		}
	}()

	for {
		name, ok := callctx.NextSegment(ctx)
		if !ok {
			break
		}
		index, err := d.childIndex(name)
		if err != nil {
			return err
		}
		if err := d.Descend(index, true); err != nil {
			return err
		}
		if err := callctx.Descend(ctx); err != nil {
			if aerr := d.Ascend(true); aerr != nil {
				return errors.Join(err, aerr)
			}
			return err
		}
		depth++
	}

	d.engine.logger.DebugContext(ctx, "call resolved", "names", names, "component", d.Component().ID())

	// The target runs on its own stack entry, so it cannot ascend out of the call's descents.
	cur, _ := d.top()
	mark := len(d.stack)
	d.push(position{state: cur.state, component: cur.component})
	defer func() {
		err = d.unwind(mark, err)
	}()

	return d.deliver(ctx, m)
}

func (d *Dispatcher) childIndex(name string) (int, error) {
	cur, ok := d.top()
	if !ok {
		return 0, domain.IllegalState("no dispatch in progress")
	}
	container, ok := ports.AsContainer(cur.component)
	if !ok {
		return 0, fmt.Errorf("%w: '%s' under leaf '%s'", domain.ErrChildNotFound, name, cur.component.ID())
	}
	for i := 0; i < container.ChildCount(); i++ {
		if container.Child(i).ID() == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: '%s' under '%s'", domain.ErrChildNotFound, name, cur.component.ID())
}
