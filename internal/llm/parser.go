package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/musekg/musegraph/internal/model"
)

// Response parsing for the two annotation calls. LLMs wrap JSON in code
// fences often enough that stripping them first is table stakes.

type claimsPayload struct {
	Claims []struct {
		ClaimID string `json:"claim_id"`
		Text    string `json:"text"`
	} `json:"claims"`
}

// ParseClaims decodes a claim-extraction response into claim texts.
// An unparseable response is an error: the caller excludes the post.
func ParseClaims(raw string) ([]string, error) {
	raw = stripCodeFence(raw)
	var payload claimsPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse claims response: %w", err)
	}

	texts := make([]string, 0, len(payload.Claims))
	for _, c := range payload.Claims {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

type techniquesPayload struct {
	Techniques []struct {
		Type        string  `json:"type"`
		Confidence  float64 `json:"confidence"`
		Explanation string  `json:"explanation"`
	} `json:"techniques"`
}

// ParseAnnotations decodes a persuasion-detection response, dropping
// detections below the confidence threshold. Tags outside the taxonomy are
// passed through; the graph builder drops and logs them so the warning
// carries the claim context.
func ParseAnnotations(raw string, threshold float64) ([]model.PersuasionAnnotation, error) {
	raw = stripCodeFence(raw)
	var payload techniquesPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse techniques response: %w", err)
	}

	anns := make([]model.PersuasionAnnotation, 0, len(payload.Techniques))
	for _, t := range payload.Techniques {
		if t.Confidence < threshold {
			continue
		}
		anns = append(anns, model.PersuasionAnnotation{
			Technique:   model.Technique(strings.TrimSpace(t.Type)),
			Confidence:  t.Confidence,
			Explanation: t.Explanation,
		})
	}
	return anns, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
