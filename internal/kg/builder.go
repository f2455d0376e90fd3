package kg

import (
	"encoding/json"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/ontology"
	"github.com/musekg/musegraph/internal/rdf"
)

// Builder folds annotated posts into the master graph, one post at a time.
// Per-post work upstream of the merge may run with arbitrary parallelism;
// MergePost is the single serialization point and holds a mutex across one
// whole post so validator decisions always see a consistent graph.
type Builder struct {
	mu       sync.Mutex
	graph    *rdf.Graph
	log      *zap.Logger
	agentIRI string
}

// NewBuilder creates a builder over a fresh master graph
func NewBuilder(schema *ontology.Schema, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		graph: rdf.NewGraph(schema, logger),
		log:   logger,
	}
}

// Graph returns the master graph. Callers must not mutate it while merges
// are in flight.
func (b *Builder) Graph() *rdf.Graph {
	return b.graph
}

// SetAgent records the provenance agent stamped onto every merged post
func (b *Builder) SetAgent(name, modelName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.agentIRI = AgentIRI(name)
	b.insert(b.agentIRI, ontology.RDFType, rdf.IRI(ontology.ClassLLMAgent))
	if modelName != "" {
		b.insert(b.agentIRI, ontology.ModelName, rdf.Literal(modelName))
	}
}

// MergePost emits the complete statement set for one post and merges it
// into the master graph. Returns the number of statements added. Offending
// statements and malformed annotations are dropped with a warning; the
// merge itself never fails part-way into exclusion, because every dropped
// piece is local to itself.
func (b *Builder) MergePost(post *model.Post) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	before := b.graph.Len()
	postIRI := PostIRI(post.ID)

	b.insert(postIRI, ontology.RDFType, rdf.IRI(ontology.ClassPost))
	b.insert(postIRI, ontology.PostID, rdf.Literal(post.ID))
	b.insert(postIRI, ontology.TextContent, rdf.Literal(post.Text))
	if post.Platform != "" {
		b.insert(postIRI, ontology.Platform, rdf.Literal(post.Platform))
	}
	if post.Author != "" {
		b.insert(postIRI, ontology.Author, rdf.Literal(post.Author))
	}
	if post.Timestamp != "" {
		b.insert(postIRI, ontology.Timestamp, rdf.TypedLiteral(post.Timestamp, ontology.XSDDateTime))
	}
	if len(post.Engagement) > 0 {
		// json.Marshal sorts map keys, so the literal is deterministic
		if data, err := json.Marshal(post.Engagement); err == nil {
			b.insert(postIRI, ontology.Engagement, rdf.Literal(string(data)))
		}
	}
	if post.ReplyTo != "" {
		b.insert(postIRI, ontology.ReplyTo, rdf.IRI(PostIRI(post.ReplyTo)))
	}

	// Claim IRIs of this post, for resolving intra-post contradicts targets
	local := make(map[string]struct{}, len(post.Claims))
	for i := range post.Claims {
		if post.Claims[i].ID == "" {
			post.Claims[i].ID = ClaimID(post.ID, i+1)
		}
		local[post.Claims[i].ID] = struct{}{}
	}

	for i := range post.Claims {
		b.mergeClaim(postIRI, &post.Claims[i], local)
	}

	if b.agentIRI != "" {
		b.insert(postIRI, ontology.WasGeneratedBy, rdf.IRI(b.agentIRI))
	}

	return b.graph.Len() - before
}

func (b *Builder) mergeClaim(postIRI string, claim *model.Claim, local map[string]struct{}) {
	claimIRI := ClaimIRI(claim.ID)

	b.insert(claimIRI, ontology.RDFType, rdf.IRI(ontology.ClassClaim))
	b.insert(claimIRI, ontology.ClaimText, rdf.Literal(claim.Text))
	b.insert(postIRI, ontology.ContainsClaim, rdf.IRI(claimIRI))
	if claim.SpanEnd > 0 {
		b.insert(claimIRI, ontology.FragmentStart, rdf.TypedLiteral(strconv.Itoa(claim.SpanStart), ontology.XSDInteger))
		b.insert(claimIRI, ontology.FragmentEnd, rdf.TypedLiteral(strconv.Itoa(claim.SpanEnd), ontology.XSDInteger))
	}

	annSeq := 0
	for _, ann := range claim.Annotations {
		if !ann.Technique.Valid() {
			b.log.Warn("unknown technique tag dropped",
				zap.String("claim", claim.ID),
				zap.String("technique", string(ann.Technique)))
			continue
		}
		annSeq++
		annIRI := AnnotationIRI(claim.ID, annSeq)
		conf := clamp01(ann.Confidence)

		b.insert(annIRI, ontology.RDFType, rdf.IRI(ontology.ClassAnnotation))
		b.insert(claimIRI, ontology.HasAnnotation, rdf.IRI(annIRI))
		b.insert(annIRI, ontology.UsesTechnique, rdf.IRI(TechniqueIRI(ann.Technique)))
		b.insert(annIRI, ontology.ConfidenceScore,
			rdf.TypedLiteral(strconv.FormatFloat(conf, 'g', -1, 64), ontology.XSDFloat))
		if ann.Explanation != "" {
			b.insert(annIRI, ontology.Explanation, rdf.Literal(ann.Explanation))
		}
	}

	for _, ent := range claim.Entities {
		entIRI := EntityIRI(ent.Name)
		b.insert(entIRI, ontology.RDFType, rdf.IRI(ontology.ClassEntity))
		b.insert(entIRI, ontology.EntityName, rdf.Literal(ent.Name))
		if ent.Type != "" {
			b.insert(entIRI, ontology.EntityType, rdf.Literal(string(ent.Type)))
		}
		if ent.WikidataID != "" {
			b.insert(entIRI, ontology.LinkedToWikidata, rdf.IRI(WikidataIRI(ent.WikidataID)))
		}
		b.insert(claimIRI, ontology.TargetsEntity, rdf.IRI(entIRI))
	}

	if claim.Status != "" {
		if claim.Status.Valid() {
			b.insert(claimIRI, ontology.HasVerificationStatus, rdf.IRI(StatusIRI(claim.Status)))
		} else {
			b.log.Warn("unknown verification status dropped",
				zap.String("claim", claim.ID),
				zap.String("status", string(claim.Status)))
		}
	}

	evSeq := 0
	for _, ev := range claim.Evidence {
		pred := ontology.RefutedBy
		switch ev.Relation {
		case model.EvidenceRefutes, "":
			// refutation is the default relation for fact-check sources
		case model.EvidenceSupports:
			pred = ontology.SupportedBy
		default:
			b.log.Warn("unknown evidence relation dropped",
				zap.String("claim", claim.ID),
				zap.String("relation", string(ev.Relation)))
			continue
		}
		evSeq++
		evIRI := EvidenceIRI(claim.ID, evSeq)
		b.insert(evIRI, ontology.RDFType, rdf.IRI(ontology.ClassEvidence))
		if ev.Text != "" {
			b.insert(evIRI, ontology.EvidenceText, rdf.Literal(ev.Text))
		}
		if ev.SourceURL != "" {
			b.insert(evIRI, ontology.EvidenceSource, rdf.IRI(ev.SourceURL))
		}
		b.insert(claimIRI, pred, rdf.IRI(evIRI))
	}

	for _, target := range claim.Contradicts {
		targetIRI := ClaimIRI(target)
		_, inBatch := local[target]
		inGraph := b.graph.Has(rdf.Statement{
			Subject:   targetIRI,
			Predicate: ontology.RDFType,
			Object:    rdf.IRI(ontology.ClassClaim),
		})
		if !inBatch && !inGraph {
			b.log.Warn("contradicts target not in graph, dropped",
				zap.String("claim", claim.ID),
				zap.String("target", target))
			continue
		}
		b.insert(claimIRI, ontology.Contradicts, rdf.IRI(targetIRI))
	}
}

func (b *Builder) insert(subject, predicate string, object rdf.Term) {
	b.graph.Insert(rdf.Statement{Subject: subject, Predicate: predicate, Object: object})
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
