package domain

import "slices"

// State is a per-context data node paired with a Component at one tree position.
//
// States form a dynamic tree mirroring the static component tree. A State is owned by
// its parent (or by the dispatch root) and holds a non-owning reference back to it.
// Custom states usually embed *BaseState and add their own fields.
type State interface {
	// Path returns the child indices from the root to this State.
	Path() []int

	// Parent returns the parent State, or nil for a root.
	Parent() State

	// Child returns the State stored at index, or nil if the slot is empty.
	Child(index int) State

	// SetChild stores child at index. A nil child clears the slot.
	SetChild(index int, child State)

	// ComponentID identifies the component this State belongs to.
	ComponentID() string

	// Link sets the parent and position. The engine calls it once, right after creation.
	Link(parent State, path []int)

	// EnterFrame opens a processing bracket for frame f.
	EnterFrame(f Frame)

	// ExitFrame closes the bracket opened by EnterFrame.
	ExitFrame()

	// IsNewFrame reports whether the last EnterFrame saw a frame other than the stored one.
	// It changes only on EnterFrame, so it stays readable after the bracket closes.
	IsNewFrame() bool

	// Frame returns the last frame recorded by EnterFrame.
	Frame() Frame
}

// BaseState is the standard State implementation.
type BaseState struct {
	componentID string
	path        []int
	parent      State
	children    []State
	frame       Frame
	newFrame    bool
}

// NewBaseState creates an unlinked State for the given component.
func NewBaseState(componentID string) *BaseState {
	return &BaseState{componentID: componentID}
}

func (s *BaseState) Path() []int {
	return slices.Clone(s.path)
}

func (s *BaseState) Parent() State {
	return s.parent
}

func (s *BaseState) Child(index int) State {
	if index < 0 || index >= len(s.children) {
		return nil
	}
	return s.children[index]
}

// SetChild grows the slot array on demand; unvisited slots stay nil.
func (s *BaseState) SetChild(index int, child State) {
	if index < 0 {
		return
	}
	if index >= len(s.children) {
		if child == nil {
			return
		}
		s.children = append(s.children, make([]State, index+1-len(s.children))...)
	}
	s.children[index] = child
}

// Children returns the number of child slots, populated or not.
func (s *BaseState) Children() int {
	return len(s.children)
}

func (s *BaseState) ComponentID() string {
	return s.componentID
}

func (s *BaseState) Link(parent State, path []int) {
	s.parent = parent
	s.path = slices.Clone(path)
}

func (s *BaseState) EnterFrame(f Frame) {
	s.newFrame = f != s.frame
	s.frame = f
}

// ExitFrame leaves the new-frame flag untouched.
func (s *BaseState) ExitFrame() {}

func (s *BaseState) IsNewFrame() bool {
	return s.newFrame
}

func (s *BaseState) Frame() Frame {
	return s.frame
}

// FindState walks from s through its ancestors and returns the first State of type T.
func FindState[T any](s State) (T, bool) {
	for cur := s; cur != nil; cur = cur.Parent() {
		if t, ok := cur.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Ancestor returns the State distance levels above s (0 is s itself).
// It returns nil when distance is negative or reaches past the root.
func Ancestor(s State, distance int) State {
	if distance < 0 {
		return nil
	}
	cur := s
	for i := 0; i < distance && cur != nil; i++ {
		cur = cur.Parent()
	}
	return cur
}

// ChildPath returns parent's path extended with index.
func ChildPath(parent State, index int) []int {
	if parent == nil {
		return []int{index}
	}
	return append(parent.Path(), index)
}
