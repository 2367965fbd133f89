package chain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/chain"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreAndPostOrder(t *testing.T) {
	var trace []string
	step := func(name string) chain.Handler {
		return func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
			trace = append(trace, name+"@"+d.Component().ID())
			return nil
		}
	}

	leaf := node.NewLeaf("leaf", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		trace = append(trace, "leaf")
		return nil
	}))
	branch := node.Bind(node.NewBranch("branch", node.WithStateDepth(2)), leaf)
	wrapped := chain.Wrap(branch, []chain.Handler{step("pre")}, []chain.Handler{step("post")})
	_, isParent := ports.AsParent(wrapped)
	require.True(t, isParent)
	assert.Equal(t, 2, wrapped.(ports.Parent).StateDepth())

	eng, err := arbor.New(wrapped)
	require.NoError(t, err)
	state, err := eng.NewRootState()
	require.NoError(t, err)

	require.NoError(t, eng.Dispatch(context.Background(), state, domain.NewMulticast("go", nil)))
	assert.Equal(t, []string{"pre@branch", "leaf", "post@branch"}, trace)
}

func TestWrap_ErrorStopsChain(t *testing.T) {
	errStop := errors.New("stop")
	var ran []string
	leaf := node.NewLeaf("leaf", node.OnMessage(func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		ran = append(ran, "leaf")
		return nil
	}))
	post := func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		ran = append(ran, "post")
		return nil
	}
	reject := func(ctx context.Context, d ports.Dispatcher, m domain.Message) error {
		return errStop
	}
	wrapped := chain.Wrap(leaf, []chain.Handler{reject}, []chain.Handler{post})
	_, isContainer := ports.AsContainer(wrapped)
	assert.False(t, isContainer)

	eng, err := arbor.New(wrapped)
	require.NoError(t, err)
	state, err := eng.NewRootState()
	require.NoError(t, err)

	err = eng.Dispatch(context.Background(), state, domain.NewMessage("go", nil))
	assert.ErrorIs(t, err, errStop)
	assert.Empty(t, ran)
}

// tabs spans two State levels but has no children of its own.
type tabs struct {
	*node.Leaf
}

func (tabs) StateDepth() int { return 2 }

func TestWrap_KeepsParentOnlyAspect(t *testing.T) {
	wrapped := chain.Wrap(tabs{node.NewLeaf("tabs")}, nil, nil)

	_, isContainer := ports.AsContainer(wrapped)
	assert.False(t, isContainer)
	parent, isParent := ports.AsParent(wrapped)
	require.True(t, isParent)
	assert.Equal(t, 2, parent.StateDepth())
	assert.Equal(t, "tabs", parent.ID())
}
