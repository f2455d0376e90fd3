package ontology

// Namespace IRIs used by the persuasion knowledge graph
const (
	NSPersuasion = "http://example.org/persuasion#"
	NSPost       = "http://example.org/post#"
	NSClaim      = "http://example.org/claim#"
	NSAnnotation = "http://example.org/annotation#"
	NSEntity     = "http://example.org/entity#"
	NSEvidence   = "http://example.org/evidence#"
	NSAgent      = "http://example.org/agent#"
	NSWikidata   = "http://www.wikidata.org/entity/"
	NSProv       = "http://www.w3.org/ns/prov#"
	NSRDF        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSXSD        = "http://www.w3.org/2001/XMLSchema#"
)

// Prefixes maps the short prefix used in serialized output to its namespace
var Prefixes = map[string]string{
	"persuasion": NSPersuasion,
	"post":       NSPost,
	"claim":      NSClaim,
	"annotation": NSAnnotation,
	"entity":     NSEntity,
	"evidence":   NSEvidence,
	"agent":      NSAgent,
	"wd":         NSWikidata,
	"prov":       NSProv,
	"rdf":        NSRDF,
	"xsd":        NSXSD,
}

// Class IRIs
const (
	ClassPost       = NSPersuasion + "Post"
	ClassClaim      = NSPersuasion + "Claim"
	ClassAnnotation = NSPersuasion + "PersuasionAnnotation"
	ClassEntity     = NSPersuasion + "Entity"
	ClassEvidence   = NSPersuasion + "Evidence"
	ClassLLMAgent   = NSPersuasion + "LLMAgent"
)

// Predicate IRIs
const (
	RDFType = NSRDF + "type"

	// Post properties
	PostID      = NSPersuasion + "postId"
	TextContent = NSPersuasion + "textContent"
	Platform    = NSPersuasion + "platform"
	Author      = NSPersuasion + "author"
	Timestamp   = NSPersuasion + "timestamp"
	Engagement  = NSPersuasion + "engagement"
	ReplyTo     = NSPersuasion + "replyTo"

	// Claim properties
	ContainsClaim = NSPersuasion + "containsClaim"
	ClaimText     = NSPersuasion + "claimText"
	FragmentStart = NSPersuasion + "fragmentStart"
	FragmentEnd   = NSPersuasion + "fragmentEnd"
	Contradicts   = NSPersuasion + "contradicts"

	// Annotation reification: the claim-to-technique link carries a
	// per-technique confidence and explanation, so it is modeled as a node
	HasAnnotation   = NSPersuasion + "hasAnnotation"
	UsesTechnique   = NSPersuasion + "usesTechnique"
	ConfidenceScore = NSPersuasion + "confidenceScore"
	Explanation     = NSPersuasion + "explanation"

	// Entity properties
	TargetsEntity    = NSPersuasion + "targetsEntity"
	EntityName       = NSPersuasion + "entityName"
	EntityType       = NSPersuasion + "entityType"
	LinkedToWikidata = NSPersuasion + "linkedToWikidata"

	// Verification
	HasVerificationStatus = NSPersuasion + "hasVerificationStatus"
	RefutedBy             = NSPersuasion + "refutedBy"
	SupportedBy           = NSPersuasion + "supportedBy"
	EvidenceText          = NSPersuasion + "evidenceText"
	EvidenceSource        = NSPersuasion + "evidenceSource"

	// Provenance
	WasGeneratedBy = NSProv + "wasGeneratedBy"
	ModelName      = NSPersuasion + "modelName"
)

// XSD datatype IRIs for typed literals
const (
	XSDString   = NSXSD + "string"
	XSDInteger  = NSXSD + "integer"
	XSDFloat    = NSXSD + "float"
	XSDDateTime = NSXSD + "dateTime"
)
