package node_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	*domain.BaseState
	hits int
}

func TestLeaf_Defaults(t *testing.T) {
	leaf := node.NewLeaf("leaf")

	assert.Equal(t, "leaf", leaf.ID())
	assert.Nil(t, leaf.Parent())
	assert.NoError(t, leaf.Message(context.Background(), nil, domain.NewMessage("x", nil)))

	s := leaf.CreateState(nil)
	require.NotNil(t, s)
	assert.Equal(t, "leaf", s.ComponentID())
}

func TestWithState(t *testing.T) {
	var gotID string
	var gotParent domain.State
	leaf := node.NewLeaf("leaf", node.WithState(func(id string, parent domain.State) domain.State {
		gotID, gotParent = id, parent
		return &counter{BaseState: domain.NewBaseState(id)}
	}))

	parent := domain.NewBaseState("root")
	s := leaf.CreateState(parent)

	assert.IsType(t, &counter{}, s)
	assert.Equal(t, "leaf", gotID)
	assert.Same(t, parent, gotParent)
}

func TestBind(t *testing.T) {
	a, b := node.NewLeaf("a"), node.NewLeaf("b")
	root := node.Bind(node.NewBranch("root", node.WithStateDepth(2)), a, b)

	assert.Equal(t, 2, root.ChildCount())
	assert.Equal(t, 2, root.StateDepth())
	assert.Same(t, b, root.Child(1))
	assert.Equal(t, "root", a.Parent().ID())

	children := root.Children()
	children[0] = nil
	assert.Same(t, a, root.Child(0), "Children returns a copy")
}

// decorated wraps a component the way middleware packages do.
type decorated struct {
	ports.Component
}

func (d decorated) Unwrap() ports.Component { return d.Component }

func TestBind_Unwraps(t *testing.T) {
	inner := node.NewLeaf("inner")
	root := node.Bind(node.NewBranch("root"), decorated{decorated{inner}})

	assert.Equal(t, "root", inner.Parent().ID())
	assert.Equal(t, "root", root.Child(0).Parent().ID())
}

func TestBranch_DefaultsRelayAndBubble(t *testing.T) {
	var seen []string
	var caught []string

	leaf := node.NewLeaf("leaf", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		seen = append(seen, m.Type)
		return d.HandleEvent(ctx, domain.NewEvent("touched", nil))
	}))
	middle := node.Bind(node.NewBranch("middle"), leaf)
	root := node.Bind(node.NewBranch("root", node.OnEvent(func(ctx context.Context, d ports.Dispatcher, e domain.Event) error {
		caught = append(caught, d.Component().ID()+":"+e.Type)
		return nil
	})), middle)

	engine, err := arbor.New(root)
	require.NoError(t, err)
	state, err := engine.NewRootState()
	require.NoError(t, err)

	require.NoError(t, engine.Dispatch(context.Background(), state, domain.NewMulticast("ping", nil)))
	assert.Equal(t, []string{"ping"}, seen, "middle relays the multicast one level further")
	assert.Equal(t, []string{"root:touched"}, caught, "middle bubbles the event to root")
}

func TestBranch_Ignore(t *testing.T) {
	var seen bool
	leaf := node.NewLeaf("leaf", node.OnMessage(func(context.Context, ports.Dispatcher, domain.Message) error {
		seen = true
		return nil
	}))
	root := node.Bind(node.NewBranch("root", node.OnMessage(node.Ignore)), leaf)

	engine, err := arbor.New(root)
	require.NoError(t, err)
	state, err := engine.NewRootState()
	require.NoError(t, err)

	require.NoError(t, engine.Dispatch(context.Background(), state, domain.NewMulticast("ping", nil)))
	assert.False(t, seen)
}
