package model

// Post represents one social media message from the input dataset
type Post struct {
	ID         string                 `json:"post_id"`              // External post identifier
	Text       string                 `json:"text"`                 // Raw post text
	Author     string                 `json:"author,omitempty"`     // Author handle
	Platform   string                 `json:"platform,omitempty"`   // Platform tag (e.g., "Twitter")
	Timestamp  string                 `json:"timestamp,omitempty"`  // ISO-8601 timestamp
	Engagement map[string]interface{} `json:"engagement,omitempty"` // Likes, shares, etc.
	ReplyTo    string                 `json:"reply_to,omitempty"`   // ID of the post this one replies to

	// KnownTechniques carries ground-truth labels from pre-annotated
	// datasets (e.g., FALCON). When present, the annotation stage converts
	// them directly instead of calling the LLM.
	KnownTechniques []string `json:"known_techniques,omitempty"`

	// Claims may be supplied inline by pre-annotated datasets; otherwise
	// the LLM claim-extraction stage fills them in.
	Claims []Claim `json:"claims,omitempty"`
}

// Claim represents a verifiable factual assertion extracted from a post
type Claim struct {
	ID          string                 `json:"claim_id"`              // Derived: <post_id>_<seq>
	Text        string                 `json:"text"`                  // The claim text itself
	SpanStart   int                    `json:"span_start,omitempty"`  // Character offset into post text
	SpanEnd     int                    `json:"span_end,omitempty"`    // End offset (0 = unknown)
	Annotations []PersuasionAnnotation `json:"annotations,omitempty"` // Detected techniques
	Entities    []Entity               `json:"entities,omitempty"`    // Mentioned named things
	Status      VerificationStatus     `json:"status,omitempty"`      // Fact-check outcome
	Evidence    []Evidence             `json:"evidence,omitempty"`    // Fact-checking sources
	Contradicts []string               `json:"contradicts,omitempty"` // IDs of contradicted claims
}

// PersuasionAnnotation bundles one detected technique with its evidence
type PersuasionAnnotation struct {
	Technique   Technique `json:"technique"`             // One of the fixed 5-element set
	Confidence  float64   `json:"confidence"`            // In [0,1]
	Explanation string    `json:"explanation,omitempty"` // Why the technique applies
}

// Technique classifies a persuasion technique
type Technique string

const (
	TechniqueFearAppeal        Technique = "FearAppeal"
	TechniqueLoadedLanguage    Technique = "LoadedLanguage"
	TechniqueAppealToAuthority Technique = "AppealToAuthority"
	TechniqueScapegoating      Technique = "Scapegoating"
	TechniqueExaggeration      Technique = "Exaggeration"
)

// Techniques is the closed taxonomy in declaration order
var Techniques = []Technique{
	TechniqueFearAppeal,
	TechniqueLoadedLanguage,
	TechniqueAppealToAuthority,
	TechniqueScapegoating,
	TechniqueExaggeration,
}

// Valid reports whether the technique belongs to the closed taxonomy
func (t Technique) Valid() bool {
	switch t {
	case TechniqueFearAppeal, TechniqueLoadedLanguage, TechniqueAppealToAuthority,
		TechniqueScapegoating, TechniqueExaggeration:
		return true
	default:
		return false
	}
}

// TechniqueDescriptions documents the taxonomy for LLM prompting
var TechniqueDescriptions = map[Technique]string{
	TechniqueFearAppeal:        "Using fear or threats to influence behavior or beliefs",
	TechniqueLoadedLanguage:    "Using emotionally charged words to influence without evidence",
	TechniqueAppealToAuthority: "Citing authority figures without proper evidence",
	TechniqueScapegoating:      "Unfairly blaming a person or group for problems",
	TechniqueExaggeration:      "Overstating or understating facts for effect",
}

// Entity represents a named thing mentioned in a claim
type Entity struct {
	Name       string     `json:"name"`                  // Surface name as mentioned
	Type       EntityType `json:"type"`                  // Coarse type tag
	WikidataID string     `json:"wikidata_id,omitempty"` // Present only if resolution succeeded
}

// EntityType is the coarse classification of a named entity
type EntityType string

const (
	EntityPerson       EntityType = "Person"
	EntityOrganization EntityType = "Organization"
	EntityLocation     EntityType = "Location"
	EntityEvent        EntityType = "Event"
)

// Evidence represents a fact-checking source attached to a claim
type Evidence struct {
	Text      string           `json:"text"`       // Evidence text
	SourceURL string           `json:"source_url"` // Source reference
	Relation  EvidenceRelation `json:"relation"`   // refutes or supports
}

// EvidenceRelation classifies how evidence relates to its claim
type EvidenceRelation string

const (
	EvidenceRefutes  EvidenceRelation = "refutes"
	EvidenceSupports EvidenceRelation = "supports"
)

// VerificationStatus is the fact-check outcome of a claim
type VerificationStatus string

const (
	StatusTrue        VerificationStatus = "True"
	StatusFalse       VerificationStatus = "False"
	StatusMostlyTrue  VerificationStatus = "MostlyTrue"
	StatusMostlyFalse VerificationStatus = "MostlyFalse"
	StatusMisleading  VerificationStatus = "Misleading"
	StatusUnverified  VerificationStatus = "Unverified"
)

// Valid reports whether the status belongs to the fixed 6-tag enum
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusTrue, StatusFalse, StatusMostlyTrue, StatusMostlyFalse,
		StatusMisleading, StatusUnverified:
		return true
	default:
		return false
	}
}
