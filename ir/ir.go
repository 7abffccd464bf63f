// Package ir defines the in-memory representation of an interface-definition
// document: the named definitions, the properties inside them, and the
// extension-metadata blocks attached to either. These types are the input
// side of the compiler; the storage package holds the output side.
package ir

// Document is a decoded definition document.
type Document struct {
	// Swagger is the document's version indicator (e.g. "1.2", "2.0").
	// An empty value is treated as "2.0".
	Swagger string `json:"swagger,omitempty" yaml:"swagger,omitempty"`

	// Definitions maps definition names to their nodes, in declaration order.
	Definitions *Props `json:"definitions,omitempty" yaml:"definitions,omitempty"`

	// XMondoc and XMondocSchema capture the document-level extension block
	// under either recognized key. Which one is consulted depends on the
	// detected version; see Ext.
	XMondoc       Extension `json:"x-mondoc,omitempty" yaml:"x-mondoc,omitempty"`
	XMondocSchema Extension `json:"x-mondoc-schema,omitempty" yaml:"x-mondoc-schema,omitempty"`
}

// DetectVersion returns the document's dialect version. Unrecognized or
// missing indicators fall back to Version2. The version only selects which
// extension key name is recognized; compilation behavior is identical.
func (d *Document) DetectVersion() Version {
	switch d.Swagger {
	case "1.0", "1.1", "1.2":
		return Version1
	default:
		return Version2
	}
}

// Ext returns the document-level extension block for the given version.
func (d *Document) Ext(v Version) Extension {
	if v == Version1 {
		return d.XMondocSchema
	}
	return d.XMondoc
}

// Version identifies the definition-document dialect.
type Version int

const (
	Version1 Version = iota + 1 // swagger 1.x style documents
	Version2                    // swagger 2.0 style documents (default)
)

// String returns the string representation of the version.
func (v Version) String() string {
	switch v {
	case Version1:
		return "1.x"
	case Version2:
		return "2.0"
	default:
		return "unknown"
	}
}

// ExtKey returns the extension-metadata key recognized for this version.
func (v Version) ExtKey() string {
	if v == Version1 {
		return "x-mondoc-schema"
	}
	return "x-mondoc"
}

// Extension is a raw, undecoded extension-metadata block.
type Extension map[string]any

// Property is a node in the definition graph. A named definition and a field
// inside one share the same shape, so both are represented by this type.
type Property struct {
	// Type is the primitive type tag, "object", "array", or empty.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Format refines numeric types (integer, long, float, double).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Items is the element node for array-typed properties.
	Items *Property `json:"items,omitempty" yaml:"items,omitempty"`

	// Ref is a path-style pointer to another definition ("#/definitions/Name").
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Enum is an optional closed set of allowed scalar values.
	Enum []any `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Default is an optional default value.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Properties holds nested fields, in declaration order.
	Properties *Props `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Required is the required-field facet: a list of names or a blanket bool.
	Required Required `json:"required,omitzero" yaml:"required,omitempty"`

	// AllOf is an ordered sequence of composition fragments, each either a
	// reference or an inline fragment. See MergeComposed.
	AllOf []*Property `json:"allOf,omitempty" yaml:"allOf,omitempty"`

	// XMondoc and XMondocSchema capture the node's extension block under
	// either recognized key.
	XMondoc       Extension `json:"x-mondoc,omitempty" yaml:"x-mondoc,omitempty"`
	XMondocSchema Extension `json:"x-mondoc-schema,omitempty" yaml:"x-mondoc-schema,omitempty"`
}

// Definition is a named node in the definition graph. Definitions and
// properties are structurally identical.
type Definition = Property

// Ext returns the node's extension block for the given version.
func (p *Property) Ext(v Version) Extension {
	if v == Version1 {
		return p.XMondocSchema
	}
	return p.XMondoc
}

// SetExt replaces the node's extension block for the given version.
func (p *Property) SetExt(v Version, ext Extension) {
	if v == Version1 {
		p.XMondocSchema = ext
		return
	}
	p.XMondoc = ext
}

// Clone returns a deep copy of the node. Extension blocks are copied one
// level deep; values inside them are shared.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	out := *p
	out.Items = p.Items.Clone()
	if p.Enum != nil {
		out.Enum = append([]any(nil), p.Enum...)
	}
	if p.Required.Fields != nil {
		out.Required.Fields = append([]string(nil), p.Required.Fields...)
	}
	if p.Properties != nil {
		out.Properties = NewProps()
		for _, k := range p.Properties.Keys() {
			v, _ := p.Properties.Get(k)
			out.Properties.Put(k, v.Clone())
		}
	}
	if p.AllOf != nil {
		out.AllOf = make([]*Property, len(p.AllOf))
		for i, f := range p.AllOf {
			out.AllOf[i] = f.Clone()
		}
	}
	out.XMondoc = cloneExt(p.XMondoc)
	out.XMondocSchema = cloneExt(p.XMondocSchema)
	return &out
}

func cloneExt(ext Extension) Extension {
	if ext == nil {
		return nil
	}
	out := make(Extension, len(ext))
	for k, v := range ext {
		out[k] = v
	}
	return out
}
