package ir

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRequired_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Required
	}{
		{"list", `["a","b"]`, Required{Fields: []string{"a", "b"}}},
		{"true", `true`, Required{All: true}},
		{"false", `false`, Required{}},
		{"empty list", `[]`, Required{Fields: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Required
			if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.raw, err)
			}
			if !reflect.DeepEqual(r, tt.want) {
				t.Errorf("got %+v, want %+v", r, tt.want)
			}
		})
	}

	var r Required
	if err := json.Unmarshal([]byte(`{"x":1}`), &r); err == nil {
		t.Error("Unmarshal(object) expected error")
	}
}

func TestRequired_UnmarshalYAML(t *testing.T) {
	var r Required
	if err := yaml.Unmarshal([]byte("- lng\n- lat\n"), &r); err != nil {
		t.Fatalf("Unmarshal(list) error = %v", err)
	}
	if !reflect.DeepEqual(r.Fields, []string{"lng", "lat"}) {
		t.Errorf("Fields = %v", r.Fields)
	}

	if err := yaml.Unmarshal([]byte("true"), &r); err != nil {
		t.Fatalf("Unmarshal(bool) error = %v", err)
	}
	if !r.All {
		t.Error("All = false, want true")
	}
}

func TestRequired_Has(t *testing.T) {
	tests := []struct {
		name string
		r    Required
		ask  string
		want bool
	}{
		{"listed", Required{Fields: []string{"lng", "lat"}}, "lng", true},
		{"not listed", Required{Fields: []string{"lng"}}, "description", false},
		{"blanket", Required{All: true}, "anything", true},
		{"zero", Required{}, "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Has(tt.ask); got != tt.want {
				t.Errorf("Has(%q) = %v, want %v", tt.ask, got, tt.want)
			}
		})
	}
}

func TestRequired_IsZero(t *testing.T) {
	if !(Required{}).IsZero() {
		t.Error("zero value should be zero")
	}
	if (Required{All: true}).IsZero() {
		t.Error("All should not be zero")
	}
	if (Required{Fields: []string{"a"}}).IsZero() {
		t.Error("Fields should not be zero")
	}
}
