package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/ports"
)

// ErrInvalidTree is wrapped by every error returned from ValidateTree.
var ErrInvalidTree = errors.New("invalid component tree")

type visit struct {
	component ports.Component
	parent    ports.Container
	label     string
}

// ValidateTree crawls the tree from root and reports structural problems: children whose
// parent back-pointer is wrong, duplicate sibling IDs, unsupported state depths and cycles.
func ValidateTree(root ports.Component) error {
	if root == nil {
		return fmt.Errorf("%w: root is nil", ErrInvalidTree)
	}

	var problems []string
	seen := make(map[uintptr]string)
	queue := []visit{{component: root, label: root.ID()}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c := cur.component

		if key, ok := identity(c); ok {
			if prev, dup := seen[key]; dup {
				problems = append(problems, fmt.Sprintf("'%s' is reachable twice (also at '%s'); the tree has a cycle or a shared node", cur.label, prev))
				continue
			}
			seen[key] = cur.label
		}

		if cur.parent != nil {
			switch p := c.Parent(); {
			case p == nil:
				problems = append(problems, fmt.Sprintf("'%s' has no parent back-pointer", cur.label))
			case p.ID() != cur.parent.ID():
				problems = append(problems, fmt.Sprintf("'%s' points at parent '%s'", cur.label, p.ID()))
			}
		}

		if p, ok := ports.AsParent(c); ok && p.StateDepth() < 1 {
			problems = append(problems, fmt.Sprintf("'%s' has unsupported state depth %d", cur.label, p.StateDepth()))
		}

		container, ok := ports.AsContainer(c)
		if !ok {
			continue
		}
		ids := make(map[string]int)
		for i := 0; i < container.ChildCount(); i++ {
			child := container.Child(i)
			if child == nil {
				problems = append(problems, fmt.Sprintf("'%s' has a nil child at index %d", cur.label, i))
				continue
			}
			if first, dup := ids[child.ID()]; dup {
				problems = append(problems, fmt.Sprintf("'%s' has duplicate child ID '%s' at indices %d and %d", cur.label, child.ID(), first, i))
			} else {
				ids[child.ID()] = i
			}
			queue = append(queue, visit{component: child, parent: container, label: cur.label + "/" + child.ID()})
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", ErrInvalidTree, len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// identity returns the address behind pointer-shaped components.
func identity(c ports.Component) (uintptr, bool) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Pointer {
		return 0, false
	}
	return v.Pointer(), true
}
