package ir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Props is an insertion-ordered mapping from name to Property. It preserves
// the declaration order of the source document so compilation output is
// deterministic across runs.
type Props struct {
	keys []string
	m    map[string]*Property
}

// NewProps returns an empty ordered property map.
func NewProps() *Props {
	return &Props{m: make(map[string]*Property)}
}

// Len returns the number of entries.
func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Get returns the entry for name.
func (p *Props) Get(name string) (*Property, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.m[name]
	return v, ok
}

// Put installs an entry, appending the key on first insertion and
// overwriting in place otherwise.
func (p *Props) Put(name string, prop *Property) {
	if p.m == nil {
		p.m = make(map[string]*Property)
	}
	if _, ok := p.m[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.m[name] = prop
}

// Delete removes an entry if present.
func (p *Props) Delete(name string) {
	if p == nil {
		return
	}
	if _, ok := p.m[name]; !ok {
		return
	}
	delete(p.m, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the entry names in insertion order.
func (p *Props) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (p *Props) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ir: expected object, got %v", tok)
	}
	p.keys = nil
	p.m = make(map[string]*Property)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ir: expected object key, got %v", keyTok)
		}
		var prop Property
		if err := dec.Decode(&prop); err != nil {
			return fmt.Errorf("ir: decoding %q: %w", key, err)
		}
		p.Put(key, &prop)
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (p *Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (p *Props) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("ir: expected mapping, got yaml kind %d", node.Kind)
	}
	p.keys = nil
	p.m = make(map[string]*Property)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		var prop Property
		if err := node.Content[i+1].Decode(&prop); err != nil {
			return fmt.Errorf("ir: decoding %q: %w", key, err)
		}
		p.Put(key, &prop)
	}
	return nil
}
