package ir

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Required is a definition's required-field facet. The source language allows
// either an explicit list of field names or a boolean meaning "all fields".
type Required struct {
	// All marks every field required.
	All bool

	// Fields lists the required field names.
	Fields []string
}

// Has reports whether the named field is required under this facet.
func (r Required) Has(name string) bool {
	return r.All || slices.Contains(r.Fields, name)
}

// IsZero reports whether the facet is absent.
func (r Required) IsZero() bool {
	return !r.All && len(r.Fields) == 0
}

// UnmarshalJSON accepts either a boolean or a list of names.
func (r *Required) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*r = Required{All: b}
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*r = Required{Fields: names}
		return nil
	}
	return fmt.Errorf("ir: required must be a boolean or a list of names, got %s", data)
}

// MarshalJSON emits the boolean form when All is set, the list otherwise.
func (r Required) MarshalJSON() ([]byte, error) {
	if r.All {
		return json.Marshal(true)
	}
	return json.Marshal(r.Fields)
}

// UnmarshalYAML accepts either a boolean or a list of names.
func (r *Required) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("ir: required must be a boolean or a list of names: %w", err)
		}
		*r = Required{All: b}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*r = Required{Fields: names}
		return nil
	default:
		return fmt.Errorf("ir: required must be a boolean or a list of names")
	}
}
