package mondoc

import (
	"testing"

	"github.com/arlev/mondoc/storage"
)

func TestCompileDefinition_Exclusion(t *testing.T) {
	doc := `{
	  "definitions": {
	    "Address": {
	      "x-mondoc": {"exclude-schema": true},
	      "properties": {"street": {"type": "string"}}
	    },
	    "Person": {
	      "properties": {
	        "home": {"$ref": "#/definitions/Address"}
	      }
	    }
	  }
	}`
	res := compileJSON(t, doc)

	if _, ok := res.Schemas["Address"]; ok {
		t.Error("excluded definition emitted a schema")
	}
	if _, ok := res.Models["Address"]; ok {
		t.Error("excluded definition emitted a model")
	}
	// exclusion removes the output, not the definition itself
	home := field(t, res, "Person", "home")
	if home.Kind != storage.FieldEmbedded {
		t.Fatalf("home.Kind = %v, want Embedded", home.Kind)
	}
	if _, ok := home.Embedded.Get("street"); !ok {
		t.Error("street missing from embedded excluded definition")
	}
}

func TestCompileDefinition_GlobalExclusion(t *testing.T) {
	doc := `{
	  "x-mondoc": {"exclude-schema": true},
	  "definitions": {
	    "A": {"properties": {"x": {"type": "string"}}},
	    "B": {"properties": {"y": {"type": "boolean"}}}
	  }
	}`
	res := compileJSON(t, doc)

	if len(res.Schemas) != 0 || len(res.Models) != 0 {
		t.Errorf("got %d schemas, %d models, want none", len(res.Schemas), len(res.Models))
	}
}

func TestCompileDefinition_OptionsMerge(t *testing.T) {
	doc := `{
	  "x-mondoc": {"schema-options": {"timestamps": true, "collection": "misc"}},
	  "definitions": {
	    "Person": {
	      "x-mondoc": {"schema-options": {"collection": "people"}},
	      "properties": {"name": {"type": "string"}}
	    },
	    "Pet": {
	      "properties": {"name": {"type": "string"}}
	    }
	  }
	}`
	res := compileJSON(t, doc)

	person := res.Schemas["Person"]
	if person.Options["timestamps"] != true {
		t.Error("document-level option missing")
	}
	if person.Options["collection"] != "people" {
		t.Errorf("collection = %v, definition option should win", person.Options["collection"])
	}
	if pet := res.Schemas["Pet"]; pet.Options["collection"] != "misc" {
		t.Errorf("Pet collection = %v, want document-level value", pet.Options["collection"])
	}
}

func TestCompileDefinition_AdditionalProperties(t *testing.T) {
	doc := `{
	  "x-mondoc": {
	    "additional-properties": {
	      "tenant": {"type": "objectId"},
	      "revision": {"type": "number", "format": "integer"}
	    }
	  },
	  "definitions": {
	    "Person": {
	      "x-mondoc": {
	        "additional-properties": {
	          "revision": {"type": "string"}
	        }
	      },
	      "properties": {"name": {"type": "string"}}
	    }
	  }
	}`
	res := compileJSON(t, doc)

	if f := field(t, res, "Person", "tenant"); f.Type != storage.TypeObjectID {
		t.Errorf("tenant = %+v, want ObjectId", f)
	}
	// the definition's own declaration wins per field name
	if f := field(t, res, "Person", "revision"); f.Type != storage.TypeString {
		t.Errorf("revision = %+v, want String", f)
	}
	if f := field(t, res, "Person", "name"); f.Type != storage.TypeString {
		t.Errorf("name = %+v", f)
	}
}

func TestCompileDefinition_Index(t *testing.T) {
	doc := `{
	  "definitions": {
	    "Person": {
	      "x-mondoc": {"index": {"name": 1, "age": -1, "unique": true}},
	      "properties": {
	        "name": {"type": "string"},
	        "age": {"type": "number", "format": "integer"}
	      }
	    }
	  }
	}`
	res := compileJSON(t, doc)

	idxs := res.Schemas["Person"].Indexes
	if len(idxs) != 1 {
		t.Fatalf("Indexes = %v, want one", idxs)
	}
	idx := idxs[0]
	if !idx.Unique {
		t.Error("unique flag not consumed")
	}
	want := []storage.IndexKey{{Field: "age", Order: -1}, {Field: "name", Order: 1}}
	if len(idx.Keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", idx.Keys, want)
	}
	for i := range want {
		if idx.Keys[i] != want[i] {
			t.Errorf("Keys[%d] = %v, want %v", i, idx.Keys[i], want[i])
		}
	}
}

func TestCompileDefinition_IndexOverridesGlobal(t *testing.T) {
	doc := `{
	  "x-mondoc": {"index": {"createdAt": -1}},
	  "definitions": {
	    "Person": {
	      "x-mondoc": {"index": {"name": 1}},
	      "properties": {"name": {"type": "string"}}
	    },
	    "Pet": {
	      "properties": {"name": {"type": "string"}}
	    }
	  }
	}`
	res := compileJSON(t, doc)

	if keys := res.Schemas["Person"].Indexes[0].Keys; keys[0].Field != "name" {
		t.Errorf("Person index = %v, want own directive", keys)
	}
	if keys := res.Schemas["Pet"].Indexes[0].Keys; keys[0].Field != "createdAt" {
		t.Errorf("Pet index = %v, want document-level directive", keys)
	}
}

func TestCompileDefinition_IndexErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"non-boolean unique",
			`{"definitions": {"P": {"x-mondoc": {"index": {"name": 1, "unique": "yes"}}, "properties": {"name": {"type": "string"}}}}}`,
		},
		{
			"non-numeric direction",
			`{"definitions": {"P": {"x-mondoc": {"index": {"name": "asc"}}, "properties": {"name": {"type": "string"}}}}}`,
		},
		{
			"unique only, no fields",
			`{"definitions": {"P": {"x-mondoc": {"index": {"unique": true}}, "properties": {"name": {"type": "string"}}}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.doc), nil)
			if CodeOf(err) != CodeInvalidExtension {
				t.Errorf("Compile() error = %v, want code %s", err, CodeInvalidExtension)
			}
		})
	}
}

func TestCompileDefinition_ScalarRoot(t *testing.T) {
	doc := `{
	  "definitions": {
	    "Status": {"type": "string", "enum": ["open", "closed"]}
	  }
	}`
	res := compileJSON(t, doc)

	root := res.Schemas["Status"].Root
	if root.Kind != storage.FieldScalar || root.Type != storage.TypeString {
		t.Fatalf("root = %+v, want scalar String", root)
	}
	if len(root.Enum) != 2 {
		t.Errorf("root.Enum = %v", root.Enum)
	}
	if res.Schemas["Status"].Properties() != nil {
		t.Error("scalar root should have no property map")
	}
}

func TestCompileDefinition_ArrayRoot(t *testing.T) {
	doc := `{
	  "definitions": {
	    "Tags": {"type": "array", "items": {"type": "string"}}
	  }
	}`
	res := compileJSON(t, doc)

	root := res.Schemas["Tags"].Root
	if root.Kind != storage.FieldArray || root.Elem.Type != storage.TypeString {
		t.Errorf("root = %+v, want array of String", root)
	}
}

func TestCompileDefinition_ComposedRoot(t *testing.T) {
	doc := `{
	  "definitions": {
	    "Base": {
	      "properties": {"id": {"type": "string"}},
	      "required": ["id"]
	    },
	    "Derived": {
	      "allOf": [
	        {"$ref": "#/definitions/Base"},
	        {"properties": {"extra": {"type": "boolean"}}, "required": ["extra"]}
	      ]
	    }
	  }
	}`
	res := compileJSON(t, doc)

	for _, fname := range []string{"id", "extra"} {
		if f := field(t, res, "Derived", fname); !f.Required {
			t.Errorf("%s.Required = false, want true from merged fragments", fname)
		}
	}
	// the base still compiles on its own
	if f := field(t, res, "Base", "id"); !f.Required {
		t.Error("Base.id lost its required facet")
	}
}

func TestCompileDefinition_ComposedBaseDeclaredLater(t *testing.T) {
	doc := `{
	  "definitions": {
	    "Derived": {
	      "allOf": [{"$ref": "#/definitions/Base"}]
	    },
	    "Base": {
	      "allOf": [{"properties": {"id": {"type": "string"}}, "required": ["id"]}]
	    }
	  }
	}`
	res := compileJSON(t, doc)

	// Derived compiles before Base has been normalized; the fields behind
	// Base's own composition must still fold in
	f := field(t, res, "Derived", "id")
	if f.Type != storage.TypeString || !f.Required {
		t.Errorf("Derived.id = %+v, want required String", f)
	}
	if g := field(t, res, "Base", "id"); !g.Required {
		t.Error("Base.id lost its required facet")
	}
}

func TestCompileDefinition_EmptyObject(t *testing.T) {
	doc := `{"definitions": {"Blank": {}}}`
	res := compileJSON(t, doc)

	root := res.Schemas["Blank"].Root
	if root.Kind != storage.FieldEmbedded || root.Embedded.Len() != 0 {
		t.Errorf("root = %+v, want empty embedded map", root)
	}
}
