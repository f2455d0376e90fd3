// Package kg builds the persuasion knowledge graph from annotated posts.
package kg

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/ontology"
)

// Identifier minting. Re-running the pipeline on the same input must produce
// identical IRIs, so every IRI is derived from input data alone; randomness
// only appears in the collision-avoidance fallback for degenerate names.

// PostIRI returns the IRI for a post
func PostIRI(postID string) string {
	return ontology.NSPost + sanitizeLocal(postID)
}

// ClaimIRI returns the IRI for a claim
func ClaimIRI(claimID string) string {
	return ontology.NSClaim + sanitizeLocal(claimID)
}

// ClaimID derives a claim identifier from its parent post and sequence
func ClaimID(postID string, seq int) string {
	return fmt.Sprintf("%s_claim_%d", postID, seq)
}

// AnnotationIRI returns the IRI for the annotation node of a claim
func AnnotationIRI(claimID string, seq int) string {
	return fmt.Sprintf("%s%s_ann_%d", ontology.NSAnnotation, sanitizeLocal(claimID), seq)
}

// EvidenceIRI returns the IRI for an evidence node of a claim
func EvidenceIRI(claimID string, seq int) string {
	return fmt.Sprintf("%s%s_ev_%d", ontology.NSEvidence, sanitizeLocal(claimID), seq)
}

// EntityIRI returns the IRI for a named entity, keyed by normalized surface
// name: repeated mentions of the same surface form share one node, while
// different surface forms of the same real-world entity stay distinct until
// a shared Wikidata identifier links them.
func EntityIRI(surfaceName string) string {
	norm := NormalizeName(surfaceName)
	if norm == "" {
		// Degenerate name: a random suffix avoids colliding every such
		// entity onto one node.
		return ontology.NSEntity + "entity_" + uuid.NewString()[:8]
	}
	return ontology.NSEntity + norm
}

// TechniqueIRI returns the IRI for a persuasion technique class
func TechniqueIRI(t model.Technique) string {
	return ontology.NSPersuasion + string(t)
}

// StatusIRI returns the IRI for a verification status
func StatusIRI(s model.VerificationStatus) string {
	return ontology.NSPersuasion + string(s)
}

// WikidataIRI returns the IRI for an external knowledge-base identifier
func WikidataIRI(qid string) string {
	return ontology.NSWikidata + qid
}

// AgentIRI returns the IRI for a provenance agent
func AgentIRI(name string) string {
	return ontology.NSAgent + sanitizeLocal(name)
}

// NormalizeName lowercases a surface name, collapses whitespace runs to a
// single underscore, and strips punctuation and non-printable runes.
// Returns "" when nothing survives.
func NormalizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsSpace(r):
			pendingSep = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		default:
			// punctuation and non-printables dropped
		}
	}
	return b.String()
}

// sanitizeLocal makes an external identifier safe as an IRI local part
func sanitizeLocal(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
