package mondoc

import (
	"github.com/arlev/mondoc/ir"
	"github.com/arlev/mondoc/storage"
)

// compileProperty compiles one field of a definition. The property is
// classified once and dispatched exhaustively; whatever the branch produced,
// the owning definition's required facet and the declared default are applied
// afterwards. A nil field without error means the field is omitted.
func (s *session) compileProperty(p *ir.Property, fname string, req ir.Required, owner string) (*storage.Field, error) {
	if storage.ReservedField(fname) {
		return nil, nil
	}

	var f *storage.Field
	var err error

	switch kind := ir.Classify(p, owner, s.version); kind {
	case ir.KindExtensionOverride:
		f, err = s.compileExtended(p, fname, owner)

	case ir.KindArrayExtension:
		var elem *storage.Field
		elem, err = s.compileExtended(p.Items, fname, owner)
		if err == nil {
			f = storage.Array(elem)
		}

	case ir.KindReference, ir.KindSelfReference:
		f, err = s.resolveRef(p, owner, fname)

	case ir.KindComposed:
		// the merged node is an embedded sub-document keyed by the field
		// name, same owner scoping as the plain embedded branch
		var merged *ir.Property
		merged, err = ir.MergeComposed(p, s.defs, s.version)
		if err == nil {
			f, err = s.compileSchema(merged, fname)
		}

	case ir.KindEmbedded:
		// nested fields form a sub-definition keyed by the field name
		f, err = s.compileSchema(p, fname)

	case ir.KindScalar:
		f, err = mapType(p)
		if err == nil && len(p.Enum) > 0 {
			f.Enum = p.Enum
		}

	default:
		err = Errorf(CodeUnrecognizedType, "unclassifiable property %q (kind %s)", fname, kind)
	}

	if err != nil {
		return nil, translateErr(err)
	}
	if f == nil {
		return nil, nil
	}

	if req.Has(fname) {
		f.Required = true
	}
	if p.Default != nil {
		f.Default = p.Default
	}
	return f, nil
}

// compileExtended compiles a property whose extension block overrides its
// declared facets. Three shapes, first match wins: a foreign-key reference
// override, a named validator attachment, or a plain facet merge re-mapped
// through the type mapper.
func (s *session) compileExtended(p *ir.Property, fname, owner string) (*storage.Field, error) {
	block, err := ir.ParseBlock(p.Ext(s.version))
	if err != nil {
		return nil, translateErr(err)
	}

	switch {
	case block.Ref != "":
		target := block.Ref
		if block.OmitRef {
			target = ""
		}
		return storage.Reference(target), nil

	case block.Validator != "":
		fn, err := s.validators.Resolve(block.Validator)
		if err != nil {
			return nil, translateErr(err)
		}
		clone := p.Clone()
		clone.SetExt(s.version, nil)
		f, err := s.compileProperty(clone, fname, ir.Required{}, owner)
		if err != nil {
			return nil, err
		}
		if f != nil {
			f.Validator = &storage.Validator{Name: block.Validator, Fn: fn}
		}
		return f, nil

	default:
		facet, err := block.FacetProperty()
		if err != nil {
			return nil, translateErr(err)
		}
		merged := overlayFacets(p, facet)
		if merged.Properties.Len() > 0 || merged.Type == "object" {
			return s.compileSchema(merged, fname)
		}
		f, err := mapType(merged)
		if err != nil {
			// extension metadata may name a storage type directly, but only
			// names outside the abstract kind set fall through to the lookup
			t, ok := storage.ParseType(merged.Type)
			if !ok || CodeOf(err) == CodeUnrecognizedFormat {
				return nil, err
			}
			f = storage.Scalar(t)
		}
		if len(merged.Enum) > 0 {
			f.Enum = merged.Enum
		}
		if merged.Default != nil {
			f.Default = merged.Default
		}
		return f, nil
	}
}

// overlayFacets returns base with over's declared facets shallow-merged on
// top. Only facets over actually sets participate.
func overlayFacets(base, over *ir.Property) *ir.Property {
	out := base.Clone()
	out.SetExt(ir.Version1, nil)
	out.SetExt(ir.Version2, nil)
	if over.Type != "" {
		out.Type = over.Type
	}
	if over.Format != "" {
		out.Format = over.Format
	}
	if over.Items != nil {
		out.Items = over.Items
	}
	if over.Ref != "" {
		out.Ref = over.Ref
	}
	if len(over.Enum) > 0 {
		out.Enum = over.Enum
	}
	if over.Default != nil {
		out.Default = over.Default
	}
	if over.Properties.Len() > 0 {
		out.Properties = over.Properties
	}
	if !over.Required.IsZero() {
		out.Required = over.Required
	}
	return out
}
