// Package rdf implements the in-memory statement graph, the property
// characteristic validator, and the two serialization formats.
package rdf

import (
	"go.uber.org/zap"

	"github.com/musekg/musegraph/internal/ontology"
)

// Graph accumulates validated statements. Statements are kept in insertion
// order and never removed; duplicates are rejected at insert time so the
// statement count only grows.
//
// Graph is not safe for concurrent use. Merging concurrent per-post work
// into one graph must be serialized by the caller.
type Graph struct {
	stmts     []Statement
	index     map[string]struct{}
	spIndex   map[string][]Term
	validator *Validator
	log       *zap.Logger
	rejected  int
}

// NewGraph creates an empty graph validated against the given schema
func NewGraph(schema *ontology.Schema, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		index:     make(map[string]struct{}),
		spIndex:   make(map[string][]Term),
		validator: NewValidator(schema),
		log:       logger,
	}
}

// Insert routes one candidate statement through the validator and adds it
// if accepted. Returns true when the statement (newly) entered the graph.
// Re-inserting an existing statement is a no-op, which makes merges
// idempotent. Rejected statements are logged and dropped; the run
// continues.
func (g *Graph) Insert(st Statement) bool {
	if _, ok := g.index[st.Key()]; ok {
		return false
	}

	d := g.validator.Check(g, st)
	if !d.Accept {
		g.rejected++
		v := d.Violation
		fields := []zap.Field{
			zap.String("rule", string(v.Rule)),
			zap.String("subject", st.Subject),
			zap.String("predicate", st.Predicate),
			zap.String("object", st.Object.Value),
		}
		if v.Existing != nil {
			fields = append(fields, zap.String("kept_object", v.Existing.Object.Value))
		}
		g.log.Warn("statement rejected", fields...)
		return false
	}

	g.add(st)
	if d.Mirror != nil {
		g.add(*d.Mirror)
	}
	return true
}

func (g *Graph) add(st Statement) {
	g.stmts = append(g.stmts, st)
	g.index[st.Key()] = struct{}{}
	sp := st.Subject + "|" + st.Predicate
	g.spIndex[sp] = append(g.spIndex[sp], st.Object)
}

// Has reports whether the exact statement is present
func (g *Graph) Has(st Statement) bool {
	_, ok := g.index[st.Key()]
	return ok
}

// Objects returns the objects recorded for a subject-predicate pair,
// in insertion order
func (g *Graph) Objects(subject, predicate string) []Term {
	return g.spIndex[subject+"|"+predicate]
}

// Len returns the number of statements in the graph
func (g *Graph) Len() int {
	return len(g.stmts)
}

// Rejected returns the number of candidate statements dropped by the
// validator over the graph's lifetime
func (g *Graph) Rejected() int {
	return g.rejected
}

// Statements returns the statements in insertion order. The returned slice
// is shared with the graph and must not be modified.
func (g *Graph) Statements() []Statement {
	return g.stmts
}
