package mondoc

import (
	"github.com/arlev/mondoc/ir"
	"github.com/arlev/mondoc/storage"
)

// resolveRef resolves a property pointing at another definition, directly or
// through its array items.
//
// An exact self-reference never recurses: it becomes a foreign-key reference
// descriptor, which is what makes cyclic definition graphs terminate. That is
// the only built-in guarantee; an indirect cycle (A -> B -> A) recurses until
// a self-reference is reached or the stack runs out, unless cycle detection
// was enabled on the compiler.
func (s *session) resolveRef(p *ir.Property, owner, fname string) (*storage.Field, error) {
	ref := p.Ref
	isArray := false
	if ref == "" && p.Type == "array" && p.Items != nil {
		ref = p.Items.Ref
		isArray = true
	}

	target, ok := ir.RefTarget(ref)
	if !ok {
		return nil, Errorf(CodeMalformedReference, "malformed reference %q", ref)
	}

	if target == owner {
		f := storage.Reference(target)
		if isArray {
			return storage.Array(f), nil
		}
		return f, nil
	}
	if s.detectCycles && s.resolving[target] {
		f := storage.Reference(target)
		if isArray {
			return storage.Array(f), nil
		}
		return f, nil
	}

	def, err := s.normalizedDef(target)
	if err != nil {
		return nil, err
	}
	if s.detectCycles {
		s.resolving[target] = true
		defer delete(s.resolving, target)
	}

	if def.Type == "array" || def.Type == "object" || def.Properties.Len() > 0 {
		// structural target: compile its whole schema and embed it
		sub, err := s.compileSchema(def, target)
		if err != nil {
			return nil, err
		}
		if isArray && sub.Kind != storage.FieldArray {
			sub = storage.Array(sub)
		}
		return sub, nil
	}

	// scalar wrapper target: clone minus its extension block and compile the
	// clone as a single inline property
	clone := def.Clone()
	clone.SetExt(s.version, nil)
	sub, err := s.compileProperty(clone, fname, ir.Required{}, target)
	if err != nil {
		return nil, err
	}
	if isArray {
		sub = storage.Array(sub)
	}
	return sub, nil
}
