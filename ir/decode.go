package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode decodes a raw definition document. JSON and YAML serializations are
// both accepted; the format is sniffed from the first non-space byte.
func Decode(raw []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("ir: empty document")
	}

	var doc Document
	if trimmed[0] == '{' {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("ir: decoding JSON document: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("ir: decoding YAML document: %w", err)
		}
	}
	if doc.Definitions == nil {
		doc.Definitions = NewProps()
	}
	return &doc, nil
}

// DecodeReader reads r to completion and decodes the result.
func DecodeReader(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ir: reading document: %w", err)
	}
	return Decode(raw)
}
