package ontology

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()

	cases := []struct {
		predicate string
		want      Characteristic
	}{
		{LinkedToWikidata, Characteristic{Functional: true}},
		{HasVerificationStatus, Characteristic{Functional: true}},
		{Contradicts, Characteristic{Symmetric: true, Irreflexive: true}},
		{ReplyTo, Characteristic{Functional: true, Asymmetric: true, Irreflexive: true}},
		{TextContent, Characteristic{}}, // undeclared predicates are unconstrained
	}
	for _, c := range cases {
		if got := s.Characteristic(c.predicate); got != c.want {
			t.Errorf("%s: got %+v, want %+v", c.predicate, got, c.want)
		}
	}
}

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func TestLoadSchema_MergesOverDefaults(t *testing.T) {
	path := writeSchema(t, `
properties:
  - predicate: persuasion:contradicts
    symmetric: false
    asymmetric: true
  - predicate: http://example.org/persuasion#endorses
    symmetric: true
`)
	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Override replaces the default wholesale
	if got := s.Characteristic(Contradicts); got != (Characteristic{Asymmetric: true}) {
		t.Errorf("contradicts: got %+v", got)
	}
	// New declarations with full IRIs are accepted
	if got := s.Characteristic(NSPersuasion + "endorses"); !got.Symmetric {
		t.Errorf("endorses: got %+v", got)
	}
	// Untouched defaults survive
	if got := s.Characteristic(ReplyTo); !got.Functional || !got.Asymmetric {
		t.Errorf("replyTo default lost: %+v", got)
	}
}

func TestLoadSchema_Errors(t *testing.T) {
	if _, err := LoadSchema(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeSchema(t, "properties: [{symmetric: true}]")
	if _, err := LoadSchema(path); err == nil {
		t.Error("expected error for declaration without predicate")
	}

	path = writeSchema(t, "properties: {not: a list}")
	if _, err := LoadSchema(path); err == nil {
		t.Error("expected error for malformed YAML shape")
	}
}

func TestExpandPrefixed(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"persuasion:contradicts", NSPersuasion + "contradicts"},
		{"post:replyTo", NSPost + "replyTo"},
		{"http://example.org/x#y", "http://example.org/x#y"},
		{"unknownprefix:name", "unknownprefix:name"},
		{"bare", "bare"},
	}
	for _, c := range cases {
		if got := expandPrefixed(c.in); got != c.want {
			t.Errorf("expandPrefixed(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
