package runtime_test

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
)

// recorder collects the IDs of components that received a message, in order.
type recorder struct {
	visits []string
}

func (r *recorder) add(id string) {
	r.visits = append(r.visits, id)
}

// leaf records the visit and does nothing else.
func (r *recorder) leaf(id string, opts ...node.Option) *node.Leaf {
	record := node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		r.add(id)
		return nil
	})
	return node.NewLeaf(id, append([]node.Option{record}, opts...)...)
}

// relay records the visit and relays one level down.
func (r *recorder) relay(id string, opts ...node.Option) *node.Branch {
	record := node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		r.add(id)
		return d.RelayMessage(ctx, m)
	})
	return node.NewBranch(id, append([]node.Option{record}, opts...)...)
}

// handler builds a leaf running fn on every message.
func handler(id string, fn node.MessageFunc) *node.Leaf {
	return node.NewLeaf(id, node.OnMessage(fn))
}
