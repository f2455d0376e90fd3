package model

import "time"

// PostState tracks a post through the per-post pipeline stages
type PostState string

const (
	StateIngested             PostState = "ingested"
	StateClaimsAttached       PostState = "claims_attached"
	StateAnnotationsAttached  PostState = "annotations_attached"
	StateEntitiesAttached     PostState = "entities_attached"
	StateVerificationAttached PostState = "verification_attached"
	StateMergedIntoGraph      PostState = "merged"
	StateFailed               PostState = "failed" // terminal, excluded from merge
)

// PostResult records the outcome of processing one post
type PostResult struct {
	PostID     string    `json:"post_id"`
	State      PostState `json:"state"`
	FailReason string    `json:"fail_reason,omitempty"`
	Claims     int       `json:"claims"`
	Statements int       `json:"statements"` // Statements contributed to the master graph
}

// Failed reports whether the post was excluded from the merge
func (r *PostResult) Failed() bool {
	return r.State == StateFailed
}

// CountEntry is one name-to-count pair in an ordered frequency mapping.
// Orderings are descending by count with lexicographic tie-break, so the
// serialized output is deterministic.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes a completed master graph
type Stats struct {
	TotalPosts       int          `json:"total_posts"`
	TotalClaims      int          `json:"total_claims"`
	TotalAnnotations int          `json:"total_annotations"`
	TotalEntities    int          `json:"total_entities"`
	TotalEvidence    int          `json:"total_evidence"`
	TotalStatements  int          `json:"total_statements"`
	TechniqueCounts  []CountEntry `json:"technique_counts"`
	StatusCounts     []CountEntry `json:"status_counts"`
	TopEntities      []CountEntry `json:"top_entities"` // Ranked by targeting-claim count
}

// RunReport is the user-visible summary of one batch run
type RunReport struct {
	StartedAt       time.Time    `json:"started_at"`
	FinishedAt      time.Time    `json:"finished_at"`
	TotalPosts      int          `json:"total_posts"`
	MergedPosts     int          `json:"merged_posts"`
	FailedPosts     []PostResult `json:"failed_posts,omitempty"`
	TotalStatements int          `json:"total_statements"`
	Stats           Stats        `json:"stats"`
}
