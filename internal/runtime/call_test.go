package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/callctx"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivers to the named descendant", func(t *testing.T) {
		var target string
		var targetPath, route []int
		x := handler("x", func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			target = d.Component().ID()
			targetPath = d.State().Path()
			route = d.Remaining()
			return nil
		})
		root := node.NewBranch("root", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			if err := d.Call(ctx, domain.NewMessage("poke", nil), "g", "x"); err != nil {
				return err
			}
			assert.Equal(t, "root", d.Component().ID())
			_, inCall := callctx.Current(ctx)
			assert.False(t, inCall)
			return nil
		}))
		node.Bind(root, node.NewLeaf("a"), node.Bind(node.NewBranch("g"), node.NewLeaf("w"), x))

		d := runtime.NewEngine().NewDispatcher()
		err := d.SendMessage(ctx, domain.NewFrame(), domain.NewMessage("go", nil), root, domain.NewBaseState("root"), []int{4, 2})
		require.NoError(t, err)
		assert.Equal(t, "x", target)
		assert.Equal(t, []int{1, 1}, targetPath)
		assert.Equal(t, []int{4, 2}, route, "calls do not consume the route")
	})

	t.Run("Unknown name fails and restores position", func(t *testing.T) {
		root := node.NewBranch("root", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			err := d.Call(ctx, m, "g", "nope")
			assert.ErrorIs(t, err, domain.ErrChildNotFound)
			assert.Equal(t, "root", d.Component().ID())
			return nil
		}))
		node.Bind(root, node.Bind(node.NewBranch("g"), node.NewLeaf("w")))

		d := runtime.NewEngine().NewDispatcher()
		err := d.SendMessage(ctx, domain.NewFrame(), domain.NewMessage("go", nil), root, domain.NewBaseState("root"), nil)
		require.NoError(t, err)
	})

	t.Run("Target errors propagate", func(t *testing.T) {
		root := node.NewBranch("root", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			return d.Call(ctx, m, "bad")
		}))
		node.Bind(root, handler("bad", func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			return errBoom
		}))

		d := runtime.NewEngine().NewDispatcher()
		err := d.SendMessage(ctx, domain.NewFrame(), domain.NewMessage("go", nil), root, domain.NewBaseState("root"), nil)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 0, d.Depth())
	})

	t.Run("Nested calls keep independent cursors", func(t *testing.T) {
		var innerReached bool
		var depthDuringInner, depthAfterInner int
		g := node.NewBranch("g", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			_, more := callctx.NextSegment(ctx)
			assert.False(t, more, "outer call is exhausted at its target")
			if err := d.Call(ctx, domain.NewMessage("inner", nil), "y"); err != nil {
				return err
			}
			depthAfterInner = callctx.FromContext(ctx).Depth()
			return nil
		}))
		y := handler("y", func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			innerReached = m.Type == "inner"
			depthDuringInner = callctx.FromContext(ctx).Depth()
			return nil
		})
		node.Bind(g, y)
		root := node.NewBranch("root", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			return d.Call(ctx, m, "g")
		}))
		node.Bind(root, g)

		d := runtime.NewEngine().NewDispatcher()
		err := d.SendMessage(ctx, domain.NewFrame(), domain.NewMessage("outer", nil), root, domain.NewBaseState("root"), nil)
		require.NoError(t, err)
		assert.True(t, innerReached)
		assert.Equal(t, 2, depthDuringInner)
		assert.Equal(t, 1, depthAfterInner)
	})

	t.Run("Unmatched ascend in the target fails immediately", func(t *testing.T) {
		var ascendErr error
		var after string
		root := node.NewBranch("root", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			return d.Call(ctx, m, "x")
		}))
		node.Bind(root, handler("x", func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			ascendErr = d.Ascend(true)
			after = d.Component().ID()
			return nil
		}))

		d := runtime.NewEngine().NewDispatcher()
		err := d.SendMessage(ctx, domain.NewFrame(), domain.NewMessage("go", nil), root, domain.NewBaseState("root"), nil)
		require.NoError(t, err)
		assert.ErrorIs(t, ascendErr, domain.ErrIllegalState)
		assert.Equal(t, "x", after, "the target keeps its position")
		assert.Equal(t, 0, d.Depth())
	})

	t.Run("Stateless calls", func(t *testing.T) {
		var got domain.State = domain.NewBaseState("sentinel")
		root := node.NewBranch("root", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			return d.Call(ctx, m, "leaf")
		}))
		node.Bind(root, handler("leaf", func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			got = d.State()
			return nil
		}))

		d := runtime.NewEngine(runtime.WithStateless(true)).NewDispatcher()
		require.NoError(t, d.SendMessage(ctx, domain.NewFrame(), domain.NewMessage("go", nil), root, nil, nil))
		assert.Nil(t, got)
	})
}
