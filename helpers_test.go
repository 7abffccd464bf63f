package mondoc

import (
	"encoding/json"
	"testing"

	"github.com/arlev/mondoc/storage"
)

// compileJSON compiles a raw JSON document with a fresh compiler.
func compileJSON(t *testing.T, doc string, opts ...Option) *Result {
	t.Helper()
	res, err := New(opts...).Compile([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return res
}

// field fetches a compiled field from a result's schema.
func field(t *testing.T, res *Result, schema, name string) *storage.Field {
	t.Helper()
	s, ok := res.Schemas[schema]
	if !ok {
		t.Fatalf("schema %q missing from result", schema)
	}
	if s.Properties() == nil {
		t.Fatalf("schema %q has no property map", schema)
	}
	f, ok := s.Properties().Get(name)
	if !ok {
		t.Fatalf("field %q missing from schema %q (have %v)", name, schema, s.Properties().Keys())
	}
	return f
}

// rootJSON renders a schema's compiled root for structural comparison.
func rootJSON(t *testing.T, res *Result, schema string) string {
	t.Helper()
	s, ok := res.Schemas[schema]
	if !ok {
		t.Fatalf("schema %q missing from result", schema)
	}
	raw, err := json.Marshal(s.Root)
	if err != nil {
		t.Fatalf("marshaling root: %v", err)
	}
	return string(raw)
}
