package storage

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Builder constructs runtime schema objects from compiled output. It is the
// boundary to the target object-document mapping layer: the compiler hands
// over a compiled root field plus resolved options and treats the returned
// handle as opaque.
type Builder interface {
	// BuildSchema constructs a schema handle for the named definition.
	BuildSchema(name string, root *Field, opts Options) (*Schema, error)

	// EnsureIndex registers a compound index on a previously built schema.
	EnsureIndex(schema *Schema, idx Index) error

	// RegisterModel registers a model for a previously built schema.
	RegisterModel(schema *Schema, name string) (*Model, error)
}

// Schema is an opaque schema handle. The ID distinguishes handles across
// builds; consumers beyond the builder should not rely on anything else.
type Schema struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Root    *Field    `json:"root"`
	Options Options   `json:"options,omitempty"`
	Indexes []Index   `json:"indexes,omitempty"`
}

// Properties returns the schema's compiled property map, or nil when the
// definition coerced to a bare scalar shape.
func (s *Schema) Properties() *PropertyMap {
	if s.Root == nil {
		return nil
	}
	return s.Root.Embedded
}

// Model is a registered model handle.
type Model struct {
	Name   string  `json:"name"`
	Schema *Schema `json:"-"`
}

// MemoryBuilder is an in-process Builder. It makes the compiler usable
// without an external mapping layer and backs the test suite. Safe for
// concurrent use.
type MemoryBuilder struct {
	mu      sync.Mutex
	schemas []*Schema
	models  []*Model
}

// NewMemoryBuilder returns an empty in-process builder.
func NewMemoryBuilder() *MemoryBuilder {
	return &MemoryBuilder{}
}

// BuildSchema implements Builder.
func (b *MemoryBuilder) BuildSchema(name string, root *Field, opts Options) (*Schema, error) {
	if root == nil {
		return nil, fmt.Errorf("storage: schema %q has no compiled root", name)
	}
	s := &Schema{
		ID:      uuid.New(),
		Name:    name,
		Root:    root,
		Options: opts,
	}
	b.mu.Lock()
	b.schemas = append(b.schemas, s)
	b.mu.Unlock()
	return s, nil
}

// EnsureIndex implements Builder.
func (b *MemoryBuilder) EnsureIndex(schema *Schema, idx Index) error {
	if schema == nil {
		return fmt.Errorf("storage: index on nil schema")
	}
	if len(idx.Keys) == 0 {
		return fmt.Errorf("storage: index on %q has no keys", schema.Name)
	}
	b.mu.Lock()
	schema.Indexes = append(schema.Indexes, idx)
	b.mu.Unlock()
	return nil
}

// RegisterModel implements Builder.
func (b *MemoryBuilder) RegisterModel(schema *Schema, name string) (*Model, error) {
	if schema == nil {
		return nil, fmt.Errorf("storage: model %q on nil schema", name)
	}
	m := &Model{Name: name, Schema: schema}
	b.mu.Lock()
	b.models = append(b.models, m)
	b.mu.Unlock()
	return m, nil
}

// Schemas returns every schema built so far.
func (b *MemoryBuilder) Schemas() []*Schema {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Schema(nil), b.schemas...)
}

// Models returns every model registered so far.
func (b *MemoryBuilder) Models() []*Model {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Model(nil), b.models...)
}
