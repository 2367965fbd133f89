package compiler

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw bytes into a tree spec.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML (or JSON) tree document.
func (p *Parser) Parse(data []byte) (*dto.NodeSpec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("tree document is empty")
	}

	var spec dto.NodeSpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	if err := check(spec, spec.ID); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ParseFile reads and parses the document at path.
func (p *Parser) ParseFile(path string) (*dto.NodeSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(data)
}

func check(spec dto.NodeSpec, label string) error {
	if spec.ID == "" {
		return fmt.Errorf("node missing ID at '%s'", label)
	}
	switch spec.Kind {
	case "", "leaf", "branch":
	default:
		return fmt.Errorf("node '%s' has unknown kind '%s'", label, spec.Kind)
	}
	if spec.Kind == "leaf" && len(spec.Children) > 0 {
		return fmt.Errorf("leaf '%s' cannot have children", label)
	}
	if spec.StateDepth != nil && spec.IsLeaf() {
		return fmt.Errorf("leaf '%s' cannot set state_depth", label)
	}
	for i, c := range spec.Children {
		childLabel := fmt.Sprintf("%s/%s", label, c.ID)
		if c.ID == "" {
			childLabel = fmt.Sprintf("%s[%d]", label, i)
		}
		if err := check(c, childLabel); err != nil {
			return err
		}
	}
	return nil
}
