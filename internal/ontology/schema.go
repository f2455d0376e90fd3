package ontology

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Characteristic describes the declared constraints of a property
type Characteristic struct {
	Functional  bool `yaml:"functional"`  // at most one object per subject
	Symmetric   bool `yaml:"symmetric"`   // (A,p,B) implies (B,p,A)
	Asymmetric  bool `yaml:"asymmetric"`  // (A,p,B) forbids (B,p,A)
	Irreflexive bool `yaml:"irreflexive"` // (A,p,A) is never valid
}

// Schema holds the property characteristics of the persuasion ontology
type Schema struct {
	props map[string]Characteristic
}

// DefaultSchema returns the compiled-in property characteristics
func DefaultSchema() *Schema {
	return &Schema{
		props: map[string]Characteristic{
			LinkedToWikidata:      {Functional: true},
			HasVerificationStatus: {Functional: true},
			Contradicts:           {Symmetric: true, Irreflexive: true},
			ReplyTo:               {Functional: true, Asymmetric: true, Irreflexive: true},
		},
	}
}

// Characteristic returns the declared constraints for a predicate.
// Predicates with no declaration are unconstrained.
func (s *Schema) Characteristic(predicate string) Characteristic {
	return s.props[predicate]
}

// schemaFile is the on-disk YAML representation of property declarations
type schemaFile struct {
	Properties []struct {
		Predicate      string `yaml:"predicate"`
		Characteristic `yaml:",inline"`
	} `yaml:"properties"`
}

// LoadSchema reads property declarations from a YAML file and merges them
// over the defaults. Declarations in the file replace the default for the
// same predicate.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	schema := DefaultSchema()
	for _, p := range file.Properties {
		if p.Predicate == "" {
			return nil, fmt.Errorf("parse schema: property declaration without predicate")
		}
		schema.props[expandPrefixed(p.Predicate)] = p.Characteristic
	}

	return schema, nil
}

// expandPrefixed expands a "prefix:local" name against the known prefixes.
// Full IRIs pass through unchanged.
func expandPrefixed(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			if ns, ok := Prefixes[name[:i]]; ok {
				return ns + name[i+1:]
			}
			return name
		}
	}
	return name
}
