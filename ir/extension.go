package ir

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalidExtension reports an extension block that does not decode into
// the recognized facet set.
var ErrInvalidExtension = errors.New("ir: invalid extension block")

// Block is the decoded form of an extension-metadata map. A block can be
// attached at the document level, the definition level, or the property
// level; which facets are meaningful depends on where it appears.
type Block struct {
	// Options are schema-construction options ("schema-options"). Document
	// level supplies defaults, definition level overrides per key.
	Options map[string]any `mapstructure:"schema-options"`

	// Exclude suppresses schema and model emission ("exclude-schema"). At
	// the document level it excludes every definition.
	Exclude bool `mapstructure:"exclude-schema"`

	// Additional declares synthetic extra fields ("additional-properties"):
	// name to raw property map, compiled as if each were a declared property
	// with a forced extension wrapper.
	Additional map[string]any `mapstructure:"additional-properties"`

	// Index is a compound index directive ("index"): field name to sort
	// direction, plus a "unique" entry consumed before emission.
	Index map[string]any `mapstructure:"index"`

	// Validators is the path to a validator manifest ("validators").
	// Document level only; loaded once per compilation run.
	Validators string `mapstructure:"validators"`

	// Ref overrides a property to a foreign-key reference ("ref").
	Ref string `mapstructure:"ref"`

	// OmitRef suppresses the target name on a ref override ("omit-ref").
	OmitRef bool `mapstructure:"omit-ref"`

	// Validator names a validator to attach to the property ("validator"),
	// resolved against the run's validator registry.
	Validator string `mapstructure:"validator"`

	// Rest collects every unrecognized key. For property-level blocks these
	// are plain property facets (type, format, items, ...) that shallow-merge
	// over the property's own.
	Rest map[string]any `mapstructure:",remain"`
}

// ParseBlock decodes a raw extension block into its recognized facets.
// A nil or empty input yields an empty block.
func ParseBlock(ext Extension) (*Block, error) {
	var b Block
	if len(ext) == 0 {
		return &b, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &b})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(map[string]any(ext)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}
	return &b, nil
}

// FacetProperty converts the block's unrecognized keys into a Property so
// they can be merged over a declared property's own facets.
func (b *Block) FacetProperty() (*Property, error) {
	if len(b.Rest) == 0 {
		return &Property{}, nil
	}
	raw, err := json.Marshal(b.Rest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}
	var p Property
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}
	return &p, nil
}
