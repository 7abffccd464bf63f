package storage

import "encoding/json"

// JSON serialization for compiled fields. Every shape carries a "kind" field
// for discrimination; validator functions serialize as their registry name.

// MarshalJSON implements json.Marshaler for Type.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

type fieldFacets struct {
	Required bool   `json:"required,omitempty"`
	Default  any    `json:"default,omitempty"`
	Enum     []any  `json:"enum,omitempty"`
	Validate string `json:"validate,omitempty"`
}

func (f *Field) facets() fieldFacets {
	out := fieldFacets{
		Required: f.Required,
		Default:  f.Default,
		Enum:     f.Enum,
	}
	if f.Validator != nil {
		out.Validate = f.Validator.Name
	}
	return out
}

// MarshalJSON implements json.Marshaler for Field.
func (f *Field) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FieldArray:
		return json.Marshal(&struct {
			Kind  string `json:"kind"`
			Items *Field `json:"items"`
			fieldFacets
		}{
			Kind:        "array",
			Items:       f.Elem,
			fieldFacets: f.facets(),
		})
	case FieldEmbedded:
		return json.Marshal(&struct {
			Kind       string       `json:"kind"`
			Properties *PropertyMap `json:"properties"`
			fieldFacets
		}{
			Kind:        "embedded",
			Properties:  f.Embedded,
			fieldFacets: f.facets(),
		})
	case FieldRef:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
			Type Type   `json:"type"`
			Ref  string `json:"ref,omitempty"`
			fieldFacets
		}{
			Kind:        "ref",
			Type:        f.Type,
			Ref:         f.Ref,
			fieldFacets: f.facets(),
		})
	default:
		return json.Marshal(&struct {
			Kind string `json:"kind"`
			Type Type   `json:"type"`
			fieldFacets
		}{
			Kind:        "scalar",
			Type:        f.Type,
			fieldFacets: f.facets(),
		})
	}
}
