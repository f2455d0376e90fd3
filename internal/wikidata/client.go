// Package wikidata resolves entity surface names to Wikidata identifiers
// through the public SPARQL endpoint. The endpoint is treated as an
// external entity-resolution service returning an optional identifier;
// lookups are rate-limited and cached, negative results included.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/musekg/musegraph/internal/cache"
	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/worker"
)

const userAgent = "musegraph/0.1 (https://github.com/musekg/musegraph)"

// Wikidata class filters per coarse entity type
var typeFilters = map[model.EntityType]string{
	model.EntityPerson:       "?item wdt:P31 wd:Q5 .",
	model.EntityOrganization: "?item wdt:P31/wdt:P279* wd:Q43229 .",
	model.EntityLocation:     "?item wdt:P31/wdt:P279* wd:Q618123 .",
	model.EntityEvent:        "?item wdt:P31/wdt:P279* wd:Q1656682 .",
}

// Client queries the Wikidata SPARQL endpoint
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *worker.Limiter
	store    cache.Store
	log      *zap.Logger
}

// NewClient creates a client. A nil store disables caching.
func NewClient(cfg model.WikidataConfig, store cache.Store, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://query.wikidata.org/sparql"
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		store:    store,
		log:      logger,
	}, nil
}

type resolution struct {
	QID string `json:"qid"` // "" records a negative result
}

// Resolve looks up a surface name, optionally filtered by entity type.
// Returns "" with a nil error when no match exists; a non-nil error means
// the lookup itself failed and the caller should treat the post's linking
// stage as failed.
func (c *Client) Resolve(ctx context.Context, name string, typ model.EntityType) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}

	key := cache.Key("wikidata", name, string(typ))
	if c.store != nil {
		if data, found := c.store.Get(key); found {
			var r resolution
			if err := json.Unmarshal(data, &r); err == nil {
				return r.QID, nil
			}
		}
	}

	qid, err := c.query(ctx, name, typ)
	if err != nil {
		return "", err
	}

	if c.store != nil {
		if data, err := json.Marshal(resolution{QID: qid}); err == nil {
			c.store.Set(key, data, 0)
		}
	}
	return qid, nil
}

// LinkEntities resolves every unlinked entity across the post's claims
func (c *Client) LinkEntities(ctx context.Context, post *model.Post) error {
	for i := range post.Claims {
		for j := range post.Claims[i].Entities {
			ent := &post.Claims[i].Entities[j]
			if ent.WikidataID != "" {
				continue
			}
			qid, err := c.Resolve(ctx, ent.Name, ent.Type)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", ent.Name, err)
			}
			if qid != "" {
				ent.WikidataID = qid
				c.log.Debug("entity linked",
					zap.String("name", ent.Name),
					zap.String("qid", qid))
			}
		}
	}
	return nil
}

func (c *Client) query(ctx context.Context, name string, typ model.EntityType) (string, error) {
	host := c.endpoint
	if u, err := url.Parse(c.endpoint); err == nil {
		host = u.Host
	}
	if err := c.limiter.Wait(ctx, host); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	sparql := fmt.Sprintf(`SELECT ?item WHERE {
  ?item rdfs:label "%s"@en .
  %s
} LIMIT 1`, escapeSPARQL(name), typeFilters[typ])

	reqURL := c.endpoint + "?query=" + url.QueryEscape(sparql) + "&format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("query endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Results struct {
			Bindings []struct {
				Item struct {
					Value string `json:"value"`
				} `json:"item"`
			} `json:"bindings"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(result.Results.Bindings) == 0 {
		return "", nil
	}

	// The binding is a full entity IRI; the identifier is its last segment
	value := result.Results.Bindings[0].Item.Value
	if idx := strings.LastIndex(value, "/"); idx >= 0 {
		value = value[idx+1:]
	}
	return value, nil
}

func escapeSPARQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
