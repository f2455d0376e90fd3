package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	nethtml "golang.org/x/net/html"

	"github.com/musekg/musegraph/internal/model"
)

// postRecord is the on-disk dataset shape. Pre-processed datasets carry a
// cleaned text variant and ground-truth technique labels under their own
// keys; both fold into the post record.
type postRecord struct {
	model.Post
	TextClean  string   `json:"text_clean"`
	Techniques []string `json:"techniques"`
}

// LoadPosts reads a JSON dataset of post records. Records without an
// identifier and duplicate identifiers are dropped with a warning;
// maxPosts 0 means no limit.
func LoadPosts(path string, maxPosts int, logger *zap.Logger) ([]model.Post, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var records []postRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	posts := make([]model.Post, 0, len(records))
	for _, rec := range records {
		if maxPosts > 0 && len(posts) >= maxPosts {
			break
		}
		post := rec.Post
		if post.ID == "" {
			logger.Warn("post record without identifier dropped")
			continue
		}
		if _, dup := seen[post.ID]; dup {
			logger.Warn("duplicate post identifier dropped", zap.String("post", post.ID))
			continue
		}
		seen[post.ID] = struct{}{}

		if rec.TextClean != "" {
			post.Text = rec.TextClean
		}
		post.Text = stripMarkup(post.Text)
		if len(post.KnownTechniques) == 0 {
			post.KnownTechniques = rec.Techniques
		}
		if post.Platform == "" {
			post.Platform = "Twitter"
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// stripMarkup flattens scraped markup and HTML entities down to plain
// text. Datasets hydrated from web sources routinely carry both.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(nethtml.UnescapeString(s))
	}

	doc, err := nethtml.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(nethtml.UnescapeString(s))
	}

	var b strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}
