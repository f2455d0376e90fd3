package kg

import (
	"sort"
	"strings"

	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/ontology"
	"github.com/musekg/musegraph/internal/rdf"
)

// ComputeStats derives summary counts from a completed master graph.
// Pure read: the graph is never touched. All orderings are descending by
// count with lexicographic tie-break, so output is deterministic.
func ComputeStats(g *rdf.Graph, topN int) model.Stats {
	if topN <= 0 {
		topN = 10
	}

	kindTotals := make(map[string]int)
	techniqueCounts := make(map[string]int)
	statusCounts := make(map[string]int)
	entityTargets := make(map[string]int) // entity IRI -> targeting-claim count

	for _, st := range g.Statements() {
		switch st.Predicate {
		case ontology.RDFType:
			kindTotals[st.Object.Value]++
		case ontology.UsesTechnique:
			techniqueCounts[localName(st.Object.Value, ontology.NSPersuasion)]++
		case ontology.HasVerificationStatus:
			statusCounts[localName(st.Object.Value, ontology.NSPersuasion)]++
		case ontology.TargetsEntity:
			entityTargets[st.Object.Value]++
		}
	}

	top := sortedEntries(entityTargets)
	if len(top) > topN {
		top = top[:topN]
	}
	for i := range top {
		top[i].Name = localName(top[i].Name, ontology.NSEntity)
	}

	return model.Stats{
		TotalPosts:       kindTotals[ontology.ClassPost],
		TotalClaims:      kindTotals[ontology.ClassClaim],
		TotalAnnotations: kindTotals[ontology.ClassAnnotation],
		TotalEntities:    kindTotals[ontology.ClassEntity],
		TotalEvidence:    kindTotals[ontology.ClassEvidence],
		TotalStatements:  g.Len(),
		TechniqueCounts:  sortedEntries(techniqueCounts),
		StatusCounts:     sortedEntries(statusCounts),
		TopEntities:      top,
	}
}

// sortedEntries flattens a frequency map into entries sorted descending by
// count, ties broken lexicographically by name
func sortedEntries(m map[string]int) []model.CountEntry {
	entries := make([]model.CountEntry, 0, len(m))
	for name, count := range m {
		entries = append(entries, model.CountEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func localName(iri, ns string) string {
	return strings.TrimPrefix(iri, ns)
}
