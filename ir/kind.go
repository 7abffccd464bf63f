package ir

import "regexp"

// PropertyKind classifies a property for compilation dispatch. Classification
// happens once, before compiling a property; the compiler then switches
// exhaustively on the result instead of re-sniffing the node's shape.
type PropertyKind int

const (
	// KindExtensionOverride marks a property carrying its own extension
	// block; the block's facets take precedence over the declared ones.
	KindExtensionOverride PropertyKind = iota

	// KindArrayExtension marks an array whose item node carries an
	// extension block; the override applies to the element.
	KindArrayExtension

	// KindReference marks a property pointing at another definition,
	// directly or through its array items.
	KindReference

	// KindSelfReference marks a reference whose target is the owning
	// definition itself.
	KindSelfReference

	// KindComposed marks a property declaring an allOf composition.
	KindComposed

	// KindEmbedded marks a nested object (explicit "object" type or no
	// declared type at all).
	KindEmbedded

	// KindScalar marks a concrete scalar or array-of-scalar property.
	KindScalar
)

// String returns the string representation of the kind.
func (k PropertyKind) String() string {
	switch k {
	case KindExtensionOverride:
		return "ExtensionOverride"
	case KindArrayExtension:
		return "ArrayExtension"
	case KindReference:
		return "Reference"
	case KindSelfReference:
		return "SelfReference"
	case KindComposed:
		return "Composed"
	case KindEmbedded:
		return "Embedded"
	case KindScalar:
		return "Scalar"
	default:
		return "Unknown"
	}
}

var refPattern = regexp.MustCompile(`^#/definitions/([^/]+)$`)

// RefTarget extracts the target definition name from a path-style reference
// pointer. It returns false when the pointer does not match the expected
// "#/definitions/Name" shape.
func RefTarget(ref string) (string, bool) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Classify decides the compilation kind of a property owned by the named
// definition. The order of the checks mirrors the compiler's decision order:
// extension overrides beat references beat composition beat shape.
func Classify(p *Property, owner string, v Version) PropertyKind {
	switch {
	case len(p.Ext(v)) > 0:
		return KindExtensionOverride
	case p.Type == "array" && p.Items != nil && len(p.Items.Ext(v)) > 0:
		return KindArrayExtension
	case p.Ref != "":
		if target, ok := RefTarget(p.Ref); ok && target == owner {
			return KindSelfReference
		}
		return KindReference
	case p.Type == "array" && p.Items != nil && p.Items.Ref != "":
		if target, ok := RefTarget(p.Items.Ref); ok && target == owner {
			return KindSelfReference
		}
		return KindReference
	case len(p.AllOf) > 0:
		return KindComposed
	case p.Type == "" || p.Type == "object":
		return KindEmbedded
	default:
		return KindScalar
	}
}
