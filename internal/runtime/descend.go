package runtime

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Descend makes the child at index current, for components that walk the tree
// themselves instead of relaying. An in-band descent also consumes the next route
// segment; an out-of-band one leaves the route untouched.
//
// Every successful Descend must be matched by exactly one Ascend with the same
// outOfBand flag, in LIFO order. Descents still open when the enclosing delivery
// returns are unwound and reported as ErrIllegalState.
func (d *Dispatcher) Descend(index int, outOfBand bool) error {
	child, cur, err := d.child(index)
	if err != nil {
		return err
	}

	next := position{
		state:     cur.state,
		component: child,
		descended: true,
		outOfBand: outOfBand,
	}
	if d.Stateful() {
		next.state, err = d.ensureChildState(context.Background(), cur, index, child)
		if err != nil {
			return err
		}
	}
	if !outOfBand {
		_, next.pushedPath = d.route.push()
	}

	d.push(next)
	return nil
}

// Ascend undoes the most recent Descend.
func (d *Dispatcher) Ascend(outOfBand bool) error {
	cur, ok := d.top()
	if !ok || !cur.descended {
		return domain.IllegalState("ascend without matching descend")
	}
	if cur.outOfBand != outOfBand {
		return domain.IllegalState("ascend(outOfBand=%t) does not match descend(outOfBand=%t)", outOfBand, cur.outOfBand)
	}

	if cur.pushedPath {
		d.route.pop()
	}
	d.stack[len(d.stack)-1] = position{}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}
