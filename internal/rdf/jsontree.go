package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/musekg/musegraph/internal/ontology"
)

// The JSON tree format groups statements by subject, then by predicate,
// preserving first-appearance order through arrays rather than maps so the
// output is deterministic and parses back to the same statement multiset.

type jsonDoc struct {
	Context  map[string]string `json:"@context"`
	Subjects []jsonSubject     `json:"subjects"`
}

type jsonSubject struct {
	ID         string         `json:"id"`
	Properties []jsonProperty `json:"properties"`
}

type jsonProperty struct {
	Predicate string       `json:"predicate"`
	Objects   []jsonObject `json:"objects"`
}

type jsonObject struct {
	Type     string `json:"type"` // "iri" or "literal"
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
}

// WriteJSONTree serializes the graph as a JSON tree
func WriteJSONTree(g *Graph, w io.Writer) error {
	doc := jsonDoc{Context: ontology.Prefixes, Subjects: []jsonSubject{}}

	subjectIdx := make(map[string]int)
	propertyIdx := make(map[string]int) // subject|predicate -> index within subject

	for _, st := range g.Statements() {
		// encoding/json would silently replace invalid bytes with U+FFFD,
		// breaking the round-trip; treat them as unencodable instead.
		if !utf8.ValidString(st.Subject) || !utf8.ValidString(st.Predicate) ||
			!utf8.ValidString(st.Object.Value) || !utf8.ValidString(st.Object.Datatype) {
			return fmt.Errorf("encode statement: value is not valid UTF-8")
		}

		si, ok := subjectIdx[st.Subject]
		if !ok {
			si = len(doc.Subjects)
			subjectIdx[st.Subject] = si
			doc.Subjects = append(doc.Subjects, jsonSubject{ID: st.Subject})
		}

		spKey := st.Subject + "|" + st.Predicate
		pi, ok := propertyIdx[spKey]
		if !ok {
			pi = len(doc.Subjects[si].Properties)
			propertyIdx[spKey] = pi
			doc.Subjects[si].Properties = append(doc.Subjects[si].Properties, jsonProperty{Predicate: st.Predicate})
		}

		obj := jsonObject{Type: "literal", Value: st.Object.Value, Datatype: st.Object.Datatype}
		if st.Object.IsIRI() {
			obj.Type = "iri"
		}
		doc.Subjects[si].Properties[pi].Objects = append(doc.Subjects[si].Properties[pi].Objects, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode JSON tree: %w", err)
	}
	return nil
}

// ParseJSONTree reads statements back from the JSON tree format
func ParseJSONTree(r io.Reader) ([]Statement, error) {
	var doc jsonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode JSON tree: %w", err)
	}

	var stmts []Statement
	for _, subj := range doc.Subjects {
		if subj.ID == "" {
			return nil, fmt.Errorf("subject without id")
		}
		for _, prop := range subj.Properties {
			if prop.Predicate == "" {
				return nil, fmt.Errorf("property without predicate for subject %s", subj.ID)
			}
			for _, obj := range prop.Objects {
				var term Term
				switch obj.Type {
				case "iri":
					term = IRI(obj.Value)
				case "literal":
					term = TypedLiteral(obj.Value, obj.Datatype)
				default:
					return nil, fmt.Errorf("unknown object type %q", obj.Type)
				}
				stmts = append(stmts, Statement{Subject: subj.ID, Predicate: prop.Predicate, Object: term})
			}
		}
	}
	return stmts, nil
}
