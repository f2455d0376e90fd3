package kg

import (
	"testing"

	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/ontology"
	"github.com/musekg/musegraph/internal/rdf"
)

func newTestBuilder() *Builder {
	return NewBuilder(ontology.DefaultSchema(), nil)
}

func annotatedPost() *model.Post {
	return &model.Post{
		ID:       "p1",
		Text:     "The EU is forcing unlimited migrants on us!",
		Platform: "Twitter",
		Claims: []model.Claim{
			{
				ID:   "p1_claim_1",
				Text: "The EU is forcing unlimited migrants",
				Annotations: []model.PersuasionAnnotation{
					{Technique: model.TechniqueFearAppeal, Confidence: 0.92, Explanation: "threat framing"},
					{Technique: model.TechniqueLoadedLanguage, Confidence: 0.85, Explanation: "charged wording"},
				},
				Entities: []model.Entity{
					{Name: "European Union", Type: model.EntityOrganization, WikidataID: "Q458"},
				},
				Status: model.StatusFalse,
				Evidence: []model.Evidence{
					{Text: "EU migration figures", SourceURL: "https://ec.europa.eu/info/strategy", Relation: model.EvidenceRefutes},
				},
			},
		},
	}
}

func countByPredicate(g *rdf.Graph, predicate string) int {
	n := 0
	for _, st := range g.Statements() {
		if st.Predicate == predicate {
			n++
		}
	}
	return n
}

func countType(g *rdf.Graph, class string) int {
	n := 0
	for _, st := range g.Statements() {
		if st.Predicate == ontology.RDFType && st.Object.Value == class {
			n++
		}
	}
	return n
}

func TestBuilder_FullPost(t *testing.T) {
	b := newTestBuilder()
	added := b.MergePost(annotatedPost())
	if added == 0 {
		t.Fatal("expected statements to be added")
	}
	g := b.Graph()

	if n := countType(g, ontology.ClassPost); n != 1 {
		t.Errorf("expected 1 post node, got %d", n)
	}
	if n := countType(g, ontology.ClassClaim); n != 1 {
		t.Errorf("expected 1 claim node, got %d", n)
	}
	if n := countType(g, ontology.ClassAnnotation); n != 2 {
		t.Errorf("expected 2 annotation nodes, got %d", n)
	}
	if n := countType(g, ontology.ClassEntity); n != 1 {
		t.Errorf("expected 1 entity node, got %d", n)
	}
	if n := countType(g, ontology.ClassEvidence); n != 1 {
		t.Errorf("expected 1 evidence node, got %d", n)
	}

	claimIRI := ClaimIRI("p1_claim_1")

	// Both annotations hang off the claim
	if anns := g.Objects(claimIRI, ontology.HasAnnotation); len(anns) != 2 {
		t.Errorf("expected 2 annotations on claim, got %d", len(anns))
	}

	// Entity links: claim -> entity -> Wikidata
	entIRI := EntityIRI("European Union")
	if !g.Has(rdf.Statement{Subject: claimIRI, Predicate: ontology.TargetsEntity, Object: rdf.IRI(entIRI)}) {
		t.Error("expected claim to target the entity")
	}
	wd := g.Objects(entIRI, ontology.LinkedToWikidata)
	if len(wd) != 1 || wd[0].Value != ontology.NSWikidata+"Q458" {
		t.Errorf("expected single Wikidata link to Q458, got %v", wd)
	}

	// Evidence via the refutation relation
	if refs := g.Objects(claimIRI, ontology.RefutedBy); len(refs) != 1 {
		t.Errorf("expected 1 refuting evidence, got %d", len(refs))
	}

	// Verification status is present and unique
	status := g.Objects(claimIRI, ontology.HasVerificationStatus)
	if len(status) != 1 || status[0].Value != StatusIRI(model.StatusFalse) {
		t.Errorf("expected unique False status, got %v", status)
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	b := newTestBuilder()
	post := annotatedPost()

	first := b.MergePost(post)
	count := b.Graph().Len()

	second := b.MergePost(post)
	if second != 0 {
		t.Errorf("expected rerun to add 0 statements, added %d", second)
	}
	if b.Graph().Len() != count {
		t.Errorf("expected count unchanged (%d), got %d", count, b.Graph().Len())
	}
	if first == 0 {
		t.Error("expected first merge to add statements")
	}
}

func TestBuilder_UnknownTechniqueDropped(t *testing.T) {
	b := newTestBuilder()
	post := annotatedPost()
	post.Claims[0].Annotations = append(post.Claims[0].Annotations,
		model.PersuasionAnnotation{Technique: "StrawMan", Confidence: 0.9})

	b.MergePost(post)
	g := b.Graph()

	if n := countType(g, ontology.ClassAnnotation); n != 2 {
		t.Errorf("expected 2 annotation nodes after dropping StrawMan, got %d", n)
	}
	// The parent claim and its valid annotations are intact
	if n := countType(g, ontology.ClassClaim); n != 1 {
		t.Errorf("expected claim to survive, got %d claim nodes", n)
	}
	for _, st := range g.Statements() {
		if st.Predicate == ontology.UsesTechnique && st.Object.Value == ontology.NSPersuasion+"StrawMan" {
			t.Error("StrawMan technique leaked into the graph")
		}
	}
}

func TestBuilder_ContradictsSymmetricAcrossPosts(t *testing.T) {
	b := newTestBuilder()

	p1 := &model.Post{ID: "p1", Text: "a", Claims: []model.Claim{{ID: "c1", Text: "claim one"}}}
	b.MergePost(p1)

	// Only the c2 -> c1 direction is supplied
	p2 := &model.Post{ID: "p2", Text: "b", Claims: []model.Claim{
		{ID: "c2", Text: "claim two", Contradicts: []string{"c1"}},
	}}
	b.MergePost(p2)

	g := b.Graph()
	forward := rdf.Statement{Subject: ClaimIRI("c2"), Predicate: ontology.Contradicts, Object: rdf.IRI(ClaimIRI("c1"))}
	reverse := rdf.Statement{Subject: ClaimIRI("c1"), Predicate: ontology.Contradicts, Object: rdf.IRI(ClaimIRI("c2"))}
	if !g.Has(forward) {
		t.Error("expected supplied contradicts direction")
	}
	if !g.Has(reverse) {
		t.Error("expected mirrored contradicts direction")
	}
}

func TestBuilder_ContradictsWithinPost(t *testing.T) {
	b := newTestBuilder()
	post := &model.Post{ID: "p1", Text: "x", Claims: []model.Claim{
		{ID: "c1", Text: "one", Contradicts: []string{"c2"}},
		{ID: "c2", Text: "two"},
	}}
	b.MergePost(post)

	g := b.Graph()
	if !g.Has(rdf.Statement{Subject: ClaimIRI("c2"), Predicate: ontology.Contradicts, Object: rdf.IRI(ClaimIRI("c1"))}) {
		t.Error("expected mirror for intra-post contradicts")
	}
}

func TestBuilder_DanglingContradictsDropped(t *testing.T) {
	b := newTestBuilder()
	post := &model.Post{ID: "p1", Text: "x", Claims: []model.Claim{
		{ID: "c1", Text: "one", Contradicts: []string{"ghost"}},
	}}
	b.MergePost(post)

	if countByPredicate(b.Graph(), ontology.Contradicts) != 0 {
		t.Error("expected contradicts edge to a missing claim to be dropped")
	}
}

func TestBuilder_ReplyToConstraints(t *testing.T) {
	b := newTestBuilder()
	b.MergePost(&model.Post{ID: "p1", Text: "a", ReplyTo: "p2"})
	b.MergePost(&model.Post{ID: "p2", Text: "b", ReplyTo: "p1"}) // reverse, must be rejected

	g := b.Graph()
	if !g.Has(rdf.Statement{Subject: PostIRI("p1"), Predicate: ontology.ReplyTo, Object: rdf.IRI(PostIRI("p2"))}) {
		t.Error("expected p1 replyTo p2")
	}
	if g.Has(rdf.Statement{Subject: PostIRI("p2"), Predicate: ontology.ReplyTo, Object: rdf.IRI(PostIRI("p1"))}) {
		t.Error("expected reverse replyTo to be rejected")
	}
}

func TestBuilder_ClaimIDsDerivedWhenMissing(t *testing.T) {
	b := newTestBuilder()
	post := &model.Post{ID: "p9", Text: "x", Claims: []model.Claim{{Text: "no id"}}}
	b.MergePost(post)

	if post.Claims[0].ID != "p9_claim_1" {
		t.Errorf("expected derived claim ID, got %q", post.Claims[0].ID)
	}
	if !b.Graph().Has(rdf.Statement{
		Subject:   PostIRI("p9"),
		Predicate: ontology.ContainsClaim,
		Object:    rdf.IRI(ClaimIRI("p9_claim_1")),
	}) {
		t.Error("expected containsClaim edge for derived claim ID")
	}
}

func TestBuilder_ProvenanceAgent(t *testing.T) {
	b := newTestBuilder()
	b.SetAgent("musegraph_pipeline", "gpt-4o-mini")
	b.MergePost(&model.Post{ID: "p1", Text: "a"})

	g := b.Graph()
	agent := AgentIRI("musegraph_pipeline")
	if !g.Has(rdf.Statement{Subject: agent, Predicate: ontology.RDFType, Object: rdf.IRI(ontology.ClassLLMAgent)}) {
		t.Error("expected agent node")
	}
	if !g.Has(rdf.Statement{Subject: PostIRI("p1"), Predicate: ontology.WasGeneratedBy, Object: rdf.IRI(agent)}) {
		t.Error("expected provenance edge on merged post")
	}
}

func TestBuilder_ConfidenceClamped(t *testing.T) {
	b := newTestBuilder()
	post := &model.Post{ID: "p1", Text: "x", Claims: []model.Claim{{
		ID:   "c1",
		Text: "one",
		Annotations: []model.PersuasionAnnotation{
			{Technique: model.TechniqueExaggeration, Confidence: 1.7},
		},
	}}}
	b.MergePost(post)

	conf := b.Graph().Objects(AnnotationIRI("c1", 1), ontology.ConfidenceScore)
	if len(conf) != 1 || conf[0].Value != "1" {
		t.Errorf("expected confidence clamped to 1, got %v", conf)
	}
}
