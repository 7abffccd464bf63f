package ir

import (
	"errors"
	"fmt"
	"slices"
)

// ErrBadReference reports a composition fragment whose reference pointer does
// not match the "#/definitions/Name" shape.
var ErrBadReference = errors.New("ir: malformed reference")

// ErrUnknownDefinition reports a reference to a definition that is not in the
// registry.
var ErrUnknownDefinition = errors.New("ir: unknown definition")

// MergeComposed flattens a node's allOf composition into a single property
// map and required set. It is a pure function: the input node is left
// untouched and a new normalized node is returned. Callers normalize a node
// exactly once, before its properties are first read.
//
// Fragments fold in sequence order. A field declared by two fragments
// resolves to the later fragment's declaration; required sets accumulate as
// an ordered union. A fragment target carrying its own composition flattens
// first, so the fold never depends on the order definitions were declared
// in. Nodes without a composition are returned unchanged.
func MergeComposed(p *Property, defs *Props, v Version) (*Property, error) {
	return mergeComposed(p, defs, v, nil)
}

// resolving holds the reference chain of the current flatten, for cycle
// detection across nested compositions.
func mergeComposed(p *Property, defs *Props, v Version, resolving []string) (*Property, error) {
	if len(p.AllOf) == 0 {
		return p, nil
	}

	props := NewProps()
	var required []string
	requireAll := false

	for _, frag := range p.AllOf {
		f := frag
		var err error
		if frag.Ref != "" {
			name, ok := RefTarget(frag.Ref)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrBadReference, frag.Ref)
			}
			if slices.Contains(resolving, name) {
				return nil, fmt.Errorf("%w: circular composition through %q", ErrBadReference, name)
			}
			target, ok := defs.Get(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownDefinition, name)
			}
			f, err = mergeComposed(target, defs, v, append(resolving, name))
			if err != nil {
				return nil, err
			}
		} else if len(frag.AllOf) > 0 {
			f, err = mergeComposed(frag, defs, v, resolving)
			if err != nil {
				return nil, err
			}
		}
		if f.Properties != nil {
			for _, key := range f.Properties.Keys() {
				prop, _ := f.Properties.Get(key)
				props.Put(key, prop)
			}
		}
		if f.Required.All {
			requireAll = true
		}
		for _, name := range f.Required.Fields {
			if !slices.Contains(required, name) {
				required = append(required, name)
			}
		}
	}

	out := *p
	out.AllOf = nil
	if props.Len() > 0 {
		out.Properties = props
	}
	if requireAll || len(required) > 0 {
		out.Required = Required{All: requireAll, Fields: required}
	}
	return &out, nil
}
