package validator_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orphan is a container whose children were never bound.
type orphan struct {
	id       string
	children []ports.Component
}

func (o *orphan) ID() string { return o.id }
func (o *orphan) CreateState(domain.State) domain.State { return domain.NewBaseState(o.id) }
func (o *orphan) Parent() ports.Parent { return nil }
func (o *orphan) Child(i int) ports.Component { return o.children[i] }
func (o *orphan) ChildCount() int { return len(o.children) }
func (o *orphan) StateDepth() int { return 1 }
func (o *orphan) Message(context.Context, ports.Dispatcher, domain.Message) error {
	return nil
}
func (o *orphan) HandleEvent(context.Context, ports.Dispatcher, domain.Event) error {
	return nil
}

func TestValidateTree(t *testing.T) {
	t.Run("Valid tree", func(t *testing.T) {
		root := node.Bind(node.NewBranch("root"),
			node.NewLeaf("a"),
			node.Bind(node.NewBranch("b", node.WithStateDepth(2)), node.NewLeaf("a")))
		assert.NoError(t, validator.ValidateTree(root))
	})

	t.Run("Nil root", func(t *testing.T) {
		assert.ErrorIs(t, validator.ValidateTree(nil), validator.ErrInvalidTree)
	})

	t.Run("Duplicate sibling IDs", func(t *testing.T) {
		root := node.Bind(node.NewBranch("root"), node.NewLeaf("x"), node.NewLeaf("x"))
		err := validator.ValidateTree(root)
		require.ErrorIs(t, err, validator.ErrInvalidTree)
		assert.Contains(t, err.Error(), "duplicate child ID 'x'")
	})

	t.Run("Zero state depth", func(t *testing.T) {
		root := node.Bind(node.NewBranch("root", node.WithStateDepth(0)), node.NewLeaf("a"))
		err := validator.ValidateTree(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported state depth 0")
	})

	t.Run("Missing back-pointer", func(t *testing.T) {
		root := &orphan{id: "root", children: []ports.Component{node.NewLeaf("lost")}}
		err := validator.ValidateTree(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'root/lost' has no parent back-pointer")
	})

	t.Run("Cycle", func(t *testing.T) {
		root := node.NewBranch("root")
		child := node.NewBranch("child")
		node.Bind(root, child)
		node.Bind(child, root)
		err := validator.ValidateTree(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reachable twice")
	})

	t.Run("Reports every problem", func(t *testing.T) {
		root := node.Bind(node.NewBranch("root"),
			node.NewLeaf("x"), node.NewLeaf("x"),
			node.Bind(node.NewBranch("deep", node.WithStateDepth(-1)), node.NewLeaf("y")))
		err := validator.ValidateTree(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 2 errors")
	})
}
