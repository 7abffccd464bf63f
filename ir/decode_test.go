package ir

import (
	"strings"
	"testing"
)

const jsonDoc = `{
  "swagger": "2.0",
  "definitions": {
    "House": {
      "properties": {
        "lng": {"type": "number", "format": "double"},
        "lat": {"type": "number", "format": "double"}
      },
      "required": ["lng", "lat"]
    }
  },
  "x-mondoc": {"schema-options": {"timestamps": true}}
}`

const yamlDoc = `swagger: "2.0"
definitions:
  House:
    properties:
      lng:
        type: number
        format: double
      lat:
        type: number
        format: double
    required: [lng, lat]
x-mondoc:
  schema-options:
    timestamps: true
`

func TestDecode_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := Decode([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("Decode(json) error = %v", err)
	}
	fromYAML, err := Decode([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("Decode(yaml) error = %v", err)
	}

	for _, doc := range []*Document{fromJSON, fromYAML} {
		house, ok := doc.Definitions.Get("House")
		if !ok {
			t.Fatal("House definition missing")
		}
		if got := house.Properties.Keys(); len(got) != 2 || got[0] != "lng" {
			t.Errorf("property keys = %v", got)
		}
		if !house.Required.Has("lat") {
			t.Error("lat not required")
		}
		opts, ok := doc.Ext(doc.DetectVersion())["schema-options"].(map[string]any)
		if !ok || opts["timestamps"] != true {
			t.Errorf("document extension block = %v", doc.Ext(doc.DetectVersion()))
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode(nil) expected error")
	}
	if _, err := Decode([]byte("   \n")); err == nil {
		t.Error("Decode(blank) expected error")
	}
	if _, err := Decode([]byte(`{"definitions": [`)); err == nil {
		t.Error("Decode(truncated json) expected error")
	}
}

func TestDecode_MissingDefinitions(t *testing.T) {
	doc, err := Decode([]byte(`{"swagger": "2.0"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Definitions == nil || doc.Definitions.Len() != 0 {
		t.Errorf("Definitions = %v, want empty map", doc.Definitions)
	}
}

func TestDecodeReader(t *testing.T) {
	doc, err := DecodeReader(strings.NewReader(jsonDoc))
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}
	if doc.Definitions.Len() != 1 {
		t.Errorf("Definitions.Len() = %d, want 1", doc.Definitions.Len())
	}
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		swagger string
		want    Version
	}{
		{"1.0", Version1},
		{"1.1", Version1},
		{"1.2", Version1},
		{"2.0", Version2},
		{"", Version2},
		{"3.1", Version2},
	}
	for _, tt := range tests {
		t.Run("v"+tt.swagger, func(t *testing.T) {
			d := &Document{Swagger: tt.swagger}
			if got := d.DetectVersion(); got != tt.want {
				t.Errorf("DetectVersion() = %v, want %v", got, tt.want)
			}
		})
	}

	if Version1.ExtKey() != "x-mondoc-schema" || Version2.ExtKey() != "x-mondoc" {
		t.Error("ExtKey mismatch")
	}
}
