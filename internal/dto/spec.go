package dto

// NodeSpec is the declarative form of one component in a tree file.
// It uses "mapstructure" tags so YAML and JSON documents decode the same way.
type NodeSpec struct {
	ID string `json:"id" mapstructure:"id"`

	// Kind is "leaf" or "branch". Empty means branch when Children is non-empty.
	Kind string `json:"kind,omitempty" mapstructure:"kind"`

	// StateDepth is how many State levels a branch spans per child (default 1). An
	// explicit value is passed through unchanged, so invalid depths reach validation.
	StateDepth *int `json:"state_depth,omitempty" mapstructure:"state_depth"`

	// Relay controls whether a branch forwards messages to its children (default true).
	Relay *bool `json:"relay,omitempty" mapstructure:"relay"`

	// Emit makes the component raise an event of this type on every message.
	Emit string `json:"emit,omitempty" mapstructure:"emit"`

	// Handle makes a branch stop events of this type instead of bubbling them.
	Handle []string `json:"handle,omitempty" mapstructure:"handle"`

	Children []NodeSpec `json:"children,omitempty" mapstructure:"children"`

	// General Metadata
	Metadata map[string]string `json:"metadata,omitempty" mapstructure:"metadata"`
}

// IsLeaf reports whether the spec describes a leaf.
func (n NodeSpec) IsLeaf() bool {
	if n.Kind != "" {
		return n.Kind == "leaf"
	}
	return len(n.Children) == 0
}
