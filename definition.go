package mondoc

import (
	"encoding/json"
	"sort"

	"github.com/arlev/mondoc/ir"
	"github.com/arlev/mondoc/storage"
)

// compileDefinition compiles one named definition and emits it through the
// builder. An excluded definition returns (nil, nil, nil): no schema, no
// model, but its structure stays in the registry so other definitions can
// still reference and embed it.
func (s *session) compileDefinition(name string) (*storage.Schema, *storage.Model, error) {
	def, err := s.normalizedDef(name)
	if err != nil {
		return nil, nil, err
	}
	block, err := ir.ParseBlock(def.Ext(s.version))
	if err != nil {
		return nil, nil, translateErr(err).WithDetail("definition", name)
	}
	if block.Exclude || s.global.Exclude {
		s.log.Debug().Str("definition", name).Msg("skipping excluded definition")
		return nil, nil, nil
	}

	s.log.Debug().Str("definition", name).Msg("compiling definition")
	if s.detectCycles {
		s.resolving[name] = true
		defer delete(s.resolving, name)
	}

	root, err := s.compileSchema(def, name)
	if err != nil {
		return nil, nil, translateErr(err).WithDetail("definition", name)
	}

	if err := s.compileAdditional(root, def, block, name); err != nil {
		return nil, nil, translateErr(err).WithDetail("definition", name)
	}

	opts := storage.Options(s.global.Options).Merge(storage.Options(block.Options))
	schema, err := s.builder.BuildSchema(name, root, opts)
	if err != nil {
		return nil, nil, translateErr(err).WithDetail("definition", name)
	}

	idx, err := parseIndex(pickIndex(block.Index, s.global.Index))
	if err != nil {
		return nil, nil, translateErr(err).WithDetail("definition", name)
	}
	if idx != nil {
		if err := s.builder.EnsureIndex(schema, *idx); err != nil {
			return nil, nil, translateErr(err).WithDetail("definition", name)
		}
	}

	model, err := s.builder.RegisterModel(schema, name)
	if err != nil {
		return nil, nil, translateErr(err).WithDetail("definition", name)
	}
	return schema, model, nil
}

// compileSchema compiles a definition-shaped node into its root field: an
// embedded property map for object shapes, an array for array shapes, or a
// coerced scalar for bare scalar wrappers.
func (s *session) compileSchema(def *ir.Property, owner string) (*storage.Field, error) {
	if len(def.AllOf) > 0 {
		merged, err := ir.MergeComposed(def, s.defs, s.version)
		if err != nil {
			return nil, translateErr(err)
		}
		def = merged
	}

	if def.Properties.Len() > 0 {
		out := storage.NewPropertyMap()
		for _, fname := range def.Properties.Keys() {
			p, _ := def.Properties.Get(fname)
			f, err := s.compileProperty(p, fname, def.Required, owner)
			if err != nil {
				return nil, err
			}
			if f == nil {
				continue
			}
			out.Put(fname, f)
		}
		return storage.Embedded(out), nil
	}

	if def.Type == "array" && def.Items != nil {
		elem, err := s.compileProperty(def.Items, "", ir.Required{}, owner)
		if err != nil {
			return nil, err
		}
		return storage.Array(elem), nil
	}

	if def.Type != "" && def.Type != "object" {
		// bare scalar wrapper: the whole node coerces to its scalar type
		f, err := mapType(def)
		if err != nil {
			return nil, err
		}
		if len(def.Enum) > 0 {
			f.Enum = def.Enum
		}
		return f, nil
	}

	return storage.Embedded(storage.NewPropertyMap()), nil
}

// compileAdditional compiles synthetic extra fields declared purely through
// extension metadata and merges them into the root property map. Each is
// compiled as a normal property wearing its raw declaration as a forced
// extension block. Document-level declarations apply to every definition;
// the definition's own declarations win per field name.
func (s *session) compileAdditional(root *storage.Field, def *ir.Definition, block *ir.Block, name string) error {
	additional := make(map[string]any, len(s.global.Additional)+len(block.Additional))
	for k, v := range s.global.Additional {
		additional[k] = v
	}
	for k, v := range block.Additional {
		additional[k] = v
	}
	if len(additional) == 0 {
		return nil
	}
	if root.Kind != storage.FieldEmbedded {
		return nil
	}

	names := make([]string, 0, len(additional))
	for fname := range additional {
		names = append(names, fname)
	}
	sort.Strings(names)

	for _, fname := range names {
		raw, ok := additional[fname].(map[string]any)
		if !ok {
			return Errorf(CodeInvalidExtension, "additional property %q is not a map", fname)
		}
		p := &ir.Property{}
		p.SetExt(s.version, ir.Extension(raw))
		f, err := s.compileProperty(p, fname, def.Required, name)
		if err != nil {
			return err
		}
		if f != nil {
			root.Embedded.Put(fname, f)
		}
	}
	return nil
}

// pickIndex chooses the definition's own index directive over the
// document-level one.
func pickIndex(own, global map[string]any) map[string]any {
	if len(own) > 0 {
		return own
	}
	return global
}

// parseIndex converts a raw index directive into a storage index. The
// "unique" entry is consumed and stripped; remaining keys are index fields
// with their sort direction, ordered by field name for determinism.
func parseIndex(raw map[string]any) (*storage.Index, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	idx := &storage.Index{}
	names := make([]string, 0, len(raw))
	for field := range raw {
		if field == "unique" {
			u, ok := raw[field].(bool)
			if !ok {
				return nil, Errorf(CodeInvalidExtension, "index unique flag must be a boolean")
			}
			idx.Unique = u
			continue
		}
		names = append(names, field)
	}
	sort.Strings(names)
	for _, field := range names {
		order, err := toSortOrder(raw[field])
		if err != nil {
			return nil, Errorf(CodeInvalidExtension, "index field %q: %v", field, err)
		}
		idx.Keys = append(idx.Keys, storage.IndexKey{Field: field, Order: order})
	}
	if len(idx.Keys) == 0 {
		return nil, Errorf(CodeInvalidExtension, "index directive has no fields")
	}
	return idx, nil
}

func toSortOrder(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, Errorf(CodeInvalidExtension, "sort direction must be numeric, got %T", v)
	}
}
