// Package storage defines the compiler's output model: storage-ready field
// descriptors, the per-definition property map, and the schema-construction
// collaborator those are handed to. The compiler never looks behind the
// Builder boundary.
package storage

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Reserved identity and version field names owned by the storage engine.
// They are never present in compiled output, even when declared in the input.
const (
	FieldID      = "_id"
	FieldVersion = "__v"
)

// ReservedField reports whether name is owned by the storage engine.
func ReservedField(name string) bool {
	return name == FieldID || name == FieldVersion
}

// Type is a storage-layer scalar type.
type Type int

const (
	TypeInvalid Type = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeDate
	TypeObjectID
	TypeBuffer
)

// String returns the storage engine's name for the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	case TypeDate:
		return "Date"
	case TypeObjectID:
		return "ObjectId"
	case TypeBuffer:
		return "Buffer"
	default:
		return "Invalid"
	}
}

// ParseType resolves a storage type from its engine name, case-insensitively.
// Extension metadata uses this to override a property's storage type.
func ParseType(name string) (Type, bool) {
	switch strings.ToLower(name) {
	case "string":
		return TypeString, true
	case "number":
		return TypeNumber, true
	case "boolean":
		return TypeBoolean, true
	case "date":
		return TypeDate, true
	case "objectid":
		return TypeObjectID, true
	case "buffer":
		return TypeBuffer, true
	default:
		return TypeInvalid, false
	}
}

// FieldKind identifies the shape of a compiled field.
type FieldKind int

const (
	FieldScalar   FieldKind = iota // a storage scalar type
	FieldArray                     // an array of another field shape
	FieldEmbedded                  // an embedded sub-schema
	FieldRef                       // a foreign-key reference descriptor
)

// String returns the string representation of the field kind.
func (k FieldKind) String() string {
	switch k {
	case FieldScalar:
		return "Scalar"
	case FieldArray:
		return "Array"
	case FieldEmbedded:
		return "Embedded"
	case FieldRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// Field describes one compiled property: its storage shape plus the optional
// required, default, enum, and validator facets.
type Field struct {
	Kind FieldKind

	// Type is the scalar type (FieldScalar), or TypeObjectID for FieldRef.
	Type Type

	// Elem is the element shape for FieldArray.
	Elem *Field

	// Embedded is the sub-schema for FieldEmbedded.
	Embedded *PropertyMap

	// Ref is the target model name for FieldRef. Empty when the target name
	// was suppressed by an extension override.
	Ref string

	Required  bool
	Default   any
	Enum      []any
	Validator *Validator
}

// Scalar returns a scalar field of the given type.
func Scalar(t Type) *Field {
	return &Field{Kind: FieldScalar, Type: t}
}

// Array returns an array field wrapping elem.
func Array(elem *Field) *Field {
	return &Field{Kind: FieldArray, Elem: elem}
}

// Embedded returns an embedded sub-schema field.
func Embedded(props *PropertyMap) *Field {
	return &Field{Kind: FieldEmbedded, Embedded: props}
}

// Reference returns a foreign-key reference descriptor pointing at the named
// model. An empty target emits the descriptor without a model name.
func Reference(target string) *Field {
	return &Field{Kind: FieldRef, Type: TypeObjectID, Ref: target}
}

// Validator is a resolved named validator attached to a field.
type Validator struct {
	// Name is the validator's registry name.
	Name string

	// Fn checks a candidate value. Implementations come from the run's
	// validator registry.
	Fn func(value any) error
}

// PropertyMap is the compiled output of one definition: an insertion-ordered
// mapping from field name to field descriptor.
type PropertyMap struct {
	keys []string
	m    map[string]*Field
}

// NewPropertyMap returns an empty compiled property map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{m: make(map[string]*Field)}
}

// Len returns the number of compiled fields.
func (p *PropertyMap) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Get returns the field compiled under name.
func (p *PropertyMap) Get(name string) (*Field, bool) {
	if p == nil {
		return nil, false
	}
	f, ok := p.m[name]
	return f, ok
}

// Put installs a field, keeping first-insertion order on overwrite.
func (p *PropertyMap) Put(name string, f *Field) {
	if p.m == nil {
		p.m = make(map[string]*Field)
	}
	if _, ok := p.m[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.m[name] = f
}

// Keys returns the field names in insertion order.
func (p *PropertyMap) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Range calls fn for each field in insertion order until fn returns false.
func (p *PropertyMap) Range(fn func(name string, f *Field) bool) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		if !fn(k, p.m[k]) {
			return
		}
	}
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (p *PropertyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Options are schema-construction options passed through to the Builder.
type Options map[string]any

// Merge returns a new option set with over's keys winning on conflict.
// Either side may be nil.
func (o Options) Merge(over Options) Options {
	if len(o) == 0 && len(over) == 0 {
		return nil
	}
	out := make(Options, len(o)+len(over))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// IndexKey is one field of a compound index.
type IndexKey struct {
	Field string `json:"field"`
	Order int    `json:"order"`
}

// Index is a compound index directive for one definition.
type Index struct {
	Keys   []IndexKey `json:"keys"`
	Unique bool       `json:"unique,omitempty"`
}
