package mondoc

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"

	"github.com/arlev/mondoc/ir"
	"github.com/arlev/mondoc/storage"
	"github.com/arlev/mondoc/validate"
)

// Extensions is extra extension metadata merged into the document before
// compilation, keyed by definition name. The reserved "default" entry is
// broadcast onto every definition's extension block before removal; every
// other entry replaces the named definition's block verbatim.
type Extensions map[string]ir.Extension

// Result is a compilation's output: schema and model handles keyed by
// definition name. Excluded definitions appear in neither map.
type Result struct {
	Schemas map[string]*storage.Schema
	Models  map[string]*storage.Model
}

// Compiler compiles definition documents into storage schemas. A Compiler is
// immutable after construction and safe for concurrent use; all per-run state
// lives in a session created by Compile.
type Compiler struct {
	builder      storage.Builder
	log          zerolog.Logger
	validators   *validate.Registry
	detectCycles bool
}

// New returns a Compiler with the given options applied over the defaults:
// an in-process builder, a discarded logger, and an empty validator registry.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		builder:    storage.NewMemoryBuilder(),
		log:        zerolog.Nop(),
		validators: validate.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles a definition document with a default Compiler.
func Compile(document any, extras Extensions) (*Result, error) {
	return New().Compile(document, extras)
}

// CompileAsync compiles a definition document with a default Compiler and
// reports through fn.
func CompileAsync(document any, extras Extensions, fn func(*Result, error)) {
	New().CompileAsync(document, extras, fn)
}

// Compile compiles a definition document. The document may be a decoded
// *ir.Document, raw JSON or YAML ([]byte, string, or io.Reader), or any
// JSON-shaped value. A nil or undecodable document fails with
// CodeInvalidInput; any failure aborts the whole run.
func (c *Compiler) Compile(document any, extras Extensions) (*Result, error) {
	doc, err := decodeDocument(document)
	if err != nil {
		return nil, err
	}

	s := &session{
		builder:      c.builder,
		log:          c.log,
		validators:   c.validators.Clone(),
		detectCycles: c.detectCycles,
		version:      doc.DetectVersion(),
		defs:         doc.Definitions,
		resolving:    make(map[string]bool),
		normalized:   make(map[string]bool),
	}
	s.log.Debug().Stringer("version", s.version).Int("definitions", s.defs.Len()).Msg("starting compilation")

	s.applyExtras(extras)

	global, err := ir.ParseBlock(doc.Ext(s.version))
	if err != nil {
		return nil, translateErr(err)
	}
	s.global = global
	if global.Validators != "" {
		if err := s.validators.LoadManifest(global.Validators); err != nil {
			return nil, translateErr(err)
		}
	}

	res := &Result{
		Schemas: make(map[string]*storage.Schema),
		Models:  make(map[string]*storage.Model),
	}
	for _, name := range s.defs.Keys() {
		schema, model, err := s.compileDefinition(name)
		if err != nil {
			return nil, err
		}
		if schema == nil {
			continue
		}
		res.Schemas[name] = schema
		res.Models[name] = model
	}
	return res, nil
}

// CompileAsync is a calling-convention adapter over Compile: instead of
// returning, it invokes fn with either the result or the error. The failure
// set is identical.
func (c *Compiler) CompileAsync(document any, extras Extensions, fn func(*Result, error)) {
	res, err := c.Compile(document, extras)
	if err != nil {
		fn(nil, err)
		return
	}
	fn(res, nil)
}

// session owns one compilation run's mutable state. Sessions are rebuilt
// fresh per Compile call; nothing here outlives the run.
type session struct {
	builder      storage.Builder
	log          zerolog.Logger
	validators   *validate.Registry
	detectCycles bool

	version ir.Version
	defs    *ir.Props
	global  *ir.Block

	// normalized records definitions whose composition has been merged, so
	// the rewrite happens before first read and exactly once.
	normalized map[string]bool

	// resolving tracks in-flight definitions for the opt-in cycle guard.
	resolving map[string]bool
}

// applyExtras merges extra extension metadata into the definition registry.
// Entries naming unknown definitions are ignored.
func (s *session) applyExtras(extras Extensions) {
	if len(extras) == 0 {
		return
	}
	if def, ok := extras["default"]; ok {
		for _, name := range s.defs.Keys() {
			d, _ := s.defs.Get(name)
			merged := make(ir.Extension, len(def))
			for k, v := range d.Ext(s.version) {
				merged[k] = v
			}
			for k, v := range def {
				merged[k] = v
			}
			d.SetExt(s.version, merged)
		}
	}
	for name, ext := range extras {
		if name == "default" {
			continue
		}
		if d, ok := s.defs.Get(name); ok {
			d.SetExt(s.version, ext)
		}
	}
}

// normalizedDef returns the named definition with its composition merged.
// The merged node replaces the registry entry so later reads, including
// reads through references from other definitions, see the same flattening.
func (s *session) normalizedDef(name string) (*ir.Definition, error) {
	def, ok := s.defs.Get(name)
	if !ok {
		return nil, Errorf(CodeUnknownDefinition, "unknown definition %q", name)
	}
	if !s.normalized[name] && len(def.AllOf) > 0 {
		merged, err := ir.MergeComposed(def, s.defs, s.version)
		if err != nil {
			return nil, translateErr(err)
		}
		s.defs.Put(name, merged)
		def = merged
	}
	s.normalized[name] = true
	return def, nil
}

// decodeDocument normalizes the many accepted document forms into a decoded
// *ir.Document. Decoded documents passed by the caller are deep-copied so a
// run's in-place normalization never leaks back.
func decodeDocument(document any) (*ir.Document, error) {
	switch v := document.(type) {
	case nil:
		return nil, NewError(CodeInvalidInput, "missing document")
	case *ir.Document:
		if v == nil {
			return nil, NewError(CodeInvalidInput, "missing document")
		}
		return cloneDocument(v), nil
	case ir.Document:
		return cloneDocument(&v), nil
	case []byte:
		return decodeRaw(v)
	case json.RawMessage:
		return decodeRaw(v)
	case string:
		return decodeRaw([]byte(v))
	case io.Reader:
		doc, err := ir.DecodeReader(v)
		if err != nil {
			return nil, Errorf(CodeInvalidInput, "undecodable document: %v", err)
		}
		return doc, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, Errorf(CodeInvalidInput, "unsupported document value: %v", err)
		}
		return decodeRaw(raw)
	}
}

func decodeRaw(raw []byte) (*ir.Document, error) {
	doc, err := ir.Decode(raw)
	if err != nil {
		return nil, Errorf(CodeInvalidInput, "undecodable document: %v", err)
	}
	return doc, nil
}

func cloneDocument(d *ir.Document) *ir.Document {
	out := &ir.Document{Swagger: d.Swagger}
	out.XMondoc = cloneExtension(d.XMondoc)
	out.XMondocSchema = cloneExtension(d.XMondocSchema)
	out.Definitions = ir.NewProps()
	if d.Definitions != nil {
		for _, name := range d.Definitions.Keys() {
			def, _ := d.Definitions.Get(name)
			out.Definitions.Put(name, def.Clone())
		}
	}
	return out
}

func cloneExtension(ext ir.Extension) ir.Extension {
	if ext == nil {
		return nil
	}
	out := make(ir.Extension, len(ext))
	for k, v := range ext {
		out[k] = v
	}
	return out
}
