package domain

import "slices"

// Kinds reported by Outline.
const (
	KindLeaf      = "leaf"
	KindContainer = "container"
)

// Outline is a serializable snapshot of a component tree's shape.
type Outline struct {
	ID         string    `json:"id" yaml:"id"`
	Kind       string    `json:"kind" yaml:"kind"`
	StateDepth int       `json:"state_depth,omitempty" yaml:"state_depth,omitempty"`
	Children   []Outline `json:"children,omitempty" yaml:"children,omitempty"`
}

// Walk visits o and its descendants depth-first, pre-order. path holds the child
// indices from o to the visited node and must not be retained.
func (o Outline) Walk(fn func(path []int, node Outline)) {
	o.walk(nil, fn)
}

func (o Outline) walk(path []int, fn func([]int, Outline)) {
	fn(path, o)
	for i, c := range o.Children {
		c.walk(append(path, i), fn)
	}
}

// Count returns the number of nodes in the outline.
func (o Outline) Count() int {
	n := 0
	o.Walk(func([]int, Outline) { n++ })
	return n
}

// Find returns the node at path.
func (o Outline) Find(path []int) (Outline, bool) {
	cur := o
	for _, i := range path {
		if i < 0 || i >= len(cur.Children) {
			return Outline{}, false
		}
		cur = cur.Children[i]
	}
	return cur, true
}

// Resolve translates a path of child IDs into child indices.
func (o Outline) Resolve(names ...string) ([]int, bool) {
	cur := o
	path := make([]int, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(cur.Children, func(c Outline) bool { return c.ID == name })
		if i < 0 {
			return nil, false
		}
		path = append(path, i)
		cur = cur.Children[i]
	}
	return path, true
}

// StateAt returns the State of the component at path, given the root State of a tree
// shaped like o. Interposed levels of multi-level parents are skipped. It returns nil
// when the position was never visited.
func (o Outline) StateAt(root State, path []int) State {
	cur, s := o, root
	for _, i := range path {
		if s == nil || i < 0 || i >= len(cur.Children) {
			return nil
		}
		s = s.Child(i)
		for level := 1; level < cur.StateDepth && s != nil; level++ {
			s = s.Child(0)
		}
		cur = cur.Children[i]
	}
	return s
}

// Materialized lists the paths of components that have a State under root, pre-order.
func (o Outline) Materialized(root State) [][]int {
	var out [][]int
	o.Walk(func(path []int, _ Outline) {
		if o.StateAt(root, path) != nil {
			out = append(out, slices.Clone(path))
		}
	})
	return out
}
