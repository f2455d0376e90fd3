package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/musekg/musegraph/internal/kg"
	"github.com/musekg/musegraph/internal/model"
)

const (
	claimsSystem = "You are an expert fact-checker. Always respond with valid JSON only."

	claimsPrompt = `Analyze the following social media post and extract all factual claims that can be verified.

Post: %s

Return ONLY valid JSON in this exact format (no markdown, no extra text):
{
  "claims": [
    {"claim_id": "1", "text": "extracted claim"}
  ]
}`

	techniquesSystem = "You are an expert in rhetoric and propaganda analysis. Always respond with valid JSON only."

	techniquesPrompt = `Analyze this claim for persuasion techniques.

Claim: %s
Full Post Context: %s

Available techniques:
%s

Return ONLY valid JSON:
{
  "techniques": [
    {"type": "TechniqueName", "confidence": 0.85, "explanation": "Why this technique applies"}
  ]
}`
)

// Annotator runs the claim-extraction and persuasion-detection stages of
// one post against the configured provider
type Annotator struct {
	provider  Provider
	threshold float64
	log       *zap.Logger
}

// NewAnnotator creates an annotator. Detections below the confidence
// threshold are dropped at parse time.
func NewAnnotator(provider Provider, threshold float64, logger *zap.Logger) *Annotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{provider: provider, threshold: threshold, log: logger}
}

// Annotate fills in the post's claims and their annotations. Claims
// already supplied by the dataset are kept; posts carrying ground-truth
// technique labels skip the detection call. Any provider or parse failure
// is an upstream failure for this post.
func (a *Annotator) Annotate(ctx context.Context, post *model.Post) error {
	if len(post.Claims) == 0 {
		if err := a.extractClaims(ctx, post); err != nil {
			return fmt.Errorf("claim extraction: %w", err)
		}
	}

	for i := range post.Claims {
		claim := &post.Claims[i]
		if len(claim.Annotations) > 0 {
			continue
		}
		if len(post.KnownTechniques) > 0 {
			claim.Annotations = GroundTruthAnnotations(post.KnownTechniques)
			continue
		}
		if err := a.detectTechniques(ctx, post, claim); err != nil {
			return fmt.Errorf("persuasion detection: %w", err)
		}
	}

	return nil
}

func (a *Annotator) extractClaims(ctx context.Context, post *model.Post) error {
	raw, err := a.provider.Complete(ctx, claimsSystem, fmt.Sprintf(claimsPrompt, post.Text))
	if err != nil {
		return err
	}

	texts, err := ParseClaims(raw)
	if err != nil {
		return err
	}

	a.log.Debug("claims extracted",
		zap.String("post", post.ID),
		zap.Int("count", len(texts)))

	for i, text := range texts {
		post.Claims = append(post.Claims, model.Claim{
			ID:   kg.ClaimID(post.ID, i+1),
			Text: text,
		})
	}
	return nil
}

func (a *Annotator) detectTechniques(ctx context.Context, post *model.Post, claim *model.Claim) error {
	prompt := fmt.Sprintf(techniquesPrompt, claim.Text, post.Text, taxonomyList())
	raw, err := a.provider.Complete(ctx, techniquesSystem, prompt)
	if err != nil {
		return err
	}

	anns, err := ParseAnnotations(raw, a.threshold)
	if err != nil {
		return err
	}

	a.log.Debug("techniques detected",
		zap.String("claim", claim.ID),
		zap.Int("count", len(anns)))

	claim.Annotations = anns
	return nil
}

// GroundTruthAnnotations converts pre-labeled techniques from the dataset
// into full-confidence annotations. Labeled posts carry their annotations
// whether or not the LLM stage is enabled.
func GroundTruthAnnotations(techniques []string) []model.PersuasionAnnotation {
	anns := make([]model.PersuasionAnnotation, 0, len(techniques))
	for _, t := range techniques {
		anns = append(anns, model.PersuasionAnnotation{
			Technique:   model.Technique(t),
			Confidence:  1.0,
			Explanation: "Labeled in source dataset",
		})
	}
	return anns
}

func taxonomyList() string {
	var b strings.Builder
	for _, t := range model.Techniques {
		fmt.Fprintf(&b, "- %s: %s\n", t, model.TechniqueDescriptions[t])
	}
	return b.String()
}
