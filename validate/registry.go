// Package validate resolves named validators referenced from extension
// metadata. Names are bound either to plain Go functions or to validation
// rule expressions evaluated by go-playground/validator.
package validate

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnknown reports a validator name with no registration.
var ErrUnknown = errors.New("validate: unknown validator")

// Func checks a candidate field value.
type Func func(value any) error

// Registry maps validator names to functions for one compilation run.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	v     *validator.Validate
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		v:     validator.New(),
		funcs: make(map[string]Func),
	}
}

// Clone returns a copy sharing the underlying rule engine but with an
// independent name table. Compilation runs clone the compiler's registry so
// manifest loads do not leak between runs.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		v:     r.v,
		funcs: make(map[string]Func, len(r.funcs)),
	}
	for k, v := range r.funcs {
		out.funcs[k] = v
	}
	return out
}

// Register binds a name to a Go function, replacing any prior binding.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// RegisterRule binds a name to a validation rule expression such as
// "required,email" or "gte=0,lte=130".
func (r *Registry) RegisterRule(name, rule string) {
	engine := r.v
	r.funcs[name] = func(value any) error {
		if err := engine.Var(value, rule); err != nil {
			return fmt.Errorf("validate: %s: %w", name, err)
		}
		return nil
	}
}

// Resolve returns the function bound to name.
func (r *Registry) Resolve(name string) (Func, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn, nil
}

// Names returns every bound name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadManifest reads a manifest file mapping validator names to rule
// expressions and registers every entry. JSON and YAML manifests are both
// accepted.
func (r *Registry) LoadManifest(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("validate: reading manifest: %w", err)
	}
	rules := make(map[string]string)
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return fmt.Errorf("validate: decoding manifest %s: %w", path, err)
	}
	for name, rule := range rules {
		r.RegisterRule(name, rule)
	}
	return nil
}
