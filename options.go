package mondoc

import (
	"github.com/rs/zerolog"

	"github.com/arlev/mondoc/storage"
	"github.com/arlev/mondoc/validate"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithBuilder sets the schema-construction collaborator. The default is an
// in-process storage.MemoryBuilder.
func WithBuilder(b storage.Builder) Option {
	return func(c *Compiler) {
		c.builder = b
	}
}

// WithLogger sets the compiler's logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// WithValidators sets the validator registry resolved against by property
// extension metadata. Each compilation run works on a clone, so manifest
// loads during a run never leak back into the registry passed here.
func WithValidators(r *validate.Registry) Option {
	return func(c *Compiler) {
		c.validators = r
	}
}

// WithCycleDetection enables a visited-set guard that resolves any re-entry
// into an in-flight definition as a foreign-key reference. Off by default:
// the built-in guarantee covers exact self-references only, and an indirect
// cycle (A -> B -> A) recurses until the stack runs out. Turning this on
// terminates such cycles at the cost of embedding less deeply.
func WithCycleDetection(enabled bool) Option {
	return func(c *Compiler) {
		c.detectCycles = enabled
	}
}
