package rdf

import (
	"github.com/musekg/musegraph/internal/ontology"
)

// Rule names the property characteristic a candidate statement violated
type Rule string

const (
	RuleFunctional  Rule = "functional"
	RuleAsymmetric  Rule = "asymmetric"
	RuleIrreflexive Rule = "irreflexive"
)

// Violation records a rejected candidate statement and the rule it broke
type Violation struct {
	Statement Statement
	Rule      Rule
	Existing  *Statement // The first-accepted statement kept in its place, if any
}

// Decision is the validator's verdict on one candidate statement
type Decision struct {
	Accept    bool
	Mirror    *Statement // Reverse statement to co-insert for symmetric properties
	Violation *Violation
}

// Validator checks candidate statements against the declared property
// characteristics. It is a pure filter: all state lives in the graph it
// is asked to check against.
type Validator struct {
	schema *ontology.Schema
}

// NewValidator creates a validator over the given schema
func NewValidator(schema *ontology.Schema) *Validator {
	return &Validator{schema: schema}
}

// Check inspects one candidate statement against the current graph state.
// Rule order matters: irreflexive rejections fire before functional ones so
// a self-pair is always reported as the self-pair it is.
func (v *Validator) Check(g *Graph, st Statement) Decision {
	ch := v.schema.Characteristic(st.Predicate)

	if ch.Irreflexive && st.Object.IsIRI() && st.Object.Value == st.Subject {
		return Decision{Violation: &Violation{Statement: st, Rule: RuleIrreflexive}}
	}

	if ch.Asymmetric && st.Object.IsIRI() {
		reverse := Statement{Subject: st.Object.Value, Predicate: st.Predicate, Object: IRI(st.Subject)}
		if g.Has(reverse) {
			return Decision{Violation: &Violation{Statement: st, Rule: RuleAsymmetric, Existing: &reverse}}
		}
	}

	if ch.Functional {
		if existing := g.Objects(st.Subject, st.Predicate); len(existing) > 0 {
			if existing[0].key() != st.Object.key() {
				kept := Statement{Subject: st.Subject, Predicate: st.Predicate, Object: existing[0]}
				return Decision{Violation: &Violation{Statement: st, Rule: RuleFunctional, Existing: &kept}}
			}
		}
	}

	d := Decision{Accept: true}
	if ch.Symmetric && st.Object.IsIRI() && st.Object.Value != st.Subject {
		mirror := Statement{Subject: st.Object.Value, Predicate: st.Predicate, Object: IRI(st.Subject)}
		if !g.Has(mirror) {
			d.Mirror = &mirror
		}
	}
	return d
}
