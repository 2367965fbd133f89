package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/node"
	"github.com/aretw0/arbor/pkg/ports"
)

// Builder describes one Branch and, recursively, its children.
type Builder struct {
	id       string
	opts     []node.Option
	children []child
}

// child is either a nested builder or a ready-made component.
type child struct {
	branch    *Builder
	leafID    string
	leafOpts  []node.Option
	component ports.Component
}

// New starts a tree whose root Branch is id.
func New(id string, opts ...node.Option) *Builder {
	return &Builder{id: id, opts: opts}
}

// With appends options to the Branch being described.
func (b *Builder) With(opts ...node.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Leaf appends a Leaf child.
func (b *Builder) Leaf(id string, opts ...node.Option) *Builder {
	b.children = append(b.children, child{leafID: id, leafOpts: opts})
	return b
}

// Branch appends a Branch child; fn describes its children.
func (b *Builder) Branch(id string, fn func(*Builder), opts ...node.Option) *Builder {
	nested := New(id, opts...)
	if fn != nil {
		fn(nested)
	}
	b.children = append(b.children, child{branch: nested})
	return b
}

// Use appends a component built elsewhere.
func (b *Builder) Use(c ports.Component) *Builder {
	b.children = append(b.children, child{component: c})
	return b
}

// Build binds the tree and validates it.
func (b *Builder) Build() (*node.Branch, error) {
	root, err := b.build()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateTree(root); err != nil {
		return nil, fmt.Errorf("failed to build tree '%s': %w", b.id, err)
	}
	return root, nil
}

// MustBuild is like Build but panics on error. Intended for package-level trees and tests.
func (b *Builder) MustBuild() *node.Branch {
	root, err := b.Build()
	if err != nil {
		panic(err)
	}
	return root
}

func (b *Builder) build() (*node.Branch, error) {
	if b.id == "" {
		return nil, errors.New("branch ID is required")
	}
	parent := node.NewBranch(b.id, b.opts...)
	for i, c := range b.children {
		switch {
		case c.branch != nil:
			nested, err := c.branch.build()
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", b.id, i, err)
			}
			node.Bind(parent, nested)
		case c.component != nil:
			node.Bind(parent, c.component)
		default:
			if c.leafID == "" {
				return nil, fmt.Errorf("%s[%d]: leaf ID is required", b.id, i)
			}
			node.Bind(parent, node.NewLeaf(c.leafID, c.leafOpts...))
		}
	}
	return parent, nil
}
