package ports

import "github.com/aretw0/arbor/pkg/domain"

// Describe captures the shape of the tree rooted at c. The tree must be acyclic.
func Describe(c Component) domain.Outline {
	o := domain.Outline{ID: c.ID(), Kind: domain.KindLeaf}
	if p, ok := AsParent(c); ok {
		o.StateDepth = p.StateDepth()
	}
	if container, ok := AsContainer(c); ok {
		o.Kind = domain.KindContainer
		n := container.ChildCount()
		o.Children = make([]domain.Outline, 0, n)
		for i := 0; i < n; i++ {
			o.Children = append(o.Children, Describe(container.Child(i)))
		}
	}
	return o
}
