// Package pipeline orchestrates the batch run: per-post annotation and
// linking with arbitrary parallelism, then serialized merges into the
// master graph.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/musekg/musegraph/internal/cache"
	"github.com/musekg/musegraph/internal/kg"
	"github.com/musekg/musegraph/internal/llm"
	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/ontology"
	"github.com/musekg/musegraph/internal/wikidata"
	"github.com/musekg/musegraph/internal/worker"
)

const agentName = "musegraph_pipeline"

// Pipeline wires the stages together. The master graph is owned here and
// mutated only through the builder's merge.
type Pipeline struct {
	cfg       *model.Config
	annotator *llm.Annotator   // nil when LLM annotation is disabled
	linker    *wikidata.Client // nil when entity linking is disabled
	builder   *kg.Builder
	log       *zap.Logger
}

// New creates a pipeline from configuration
func New(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	schema := ontology.DefaultSchema()
	if cfg.Schema.File != "" {
		loaded, err := ontology.LoadSchema(cfg.Schema.File)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		schema = loaded
	}

	p := &Pipeline{
		cfg:     cfg,
		builder: kg.NewBuilder(schema, logger),
		log:     logger,
	}

	agentModel := ""
	if cfg.LLM.Enabled {
		provider, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("init LLM provider: %w", err)
		}
		p.annotator = llm.NewAnnotator(provider, cfg.LLM.ConfidenceThreshold, logger)
		agentModel = cfg.LLM.Model
	}
	p.builder.SetAgent(agentName, agentModel)

	if cfg.Wikidata.Enabled {
		var store cache.Store
		if cfg.Cache.Enabled {
			store = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		}
		linker, err := wikidata.NewClient(cfg.Wikidata, store, logger)
		if err != nil {
			return nil, fmt.Errorf("init wikidata client: %w", err)
		}
		p.linker = linker
	}

	return p, nil
}

// Builder exposes the graph builder, mainly for rendering after a run
func (p *Pipeline) Builder() *kg.Builder {
	return p.builder
}

// SetAnnotator swaps the annotation stage, replacing whatever the
// configuration wired in. Passing nil disables LLM annotation.
func (p *Pipeline) SetAnnotator(a *llm.Annotator) {
	p.annotator = a
}

// Outcome is the result of one post's upstream processing
type Outcome struct {
	Post   *model.Post
	Result model.PostResult
	err    error
}

// Err returns the upstream failure, if any
func (o *Outcome) Err() error {
	return o.err
}

// postJob adapts one post to the worker pool
type postJob struct {
	p    *Pipeline
	post *model.Post
}

func (j *postJob) Execute(ctx context.Context) worker.Result {
	return j.p.ProcessPost(ctx, j.post)
}

// ProcessPost runs the per-post stages up to, but not including, the
// merge. A failure at any stage marks the post Failed with the stage's
// reason; nothing it produced reaches the master graph.
func (p *Pipeline) ProcessPost(ctx context.Context, post *model.Post) *Outcome {
	out := &Outcome{Post: post, Result: model.PostResult{PostID: post.ID, State: model.StateIngested}}
	fail := func(err error) *Outcome {
		out.err = err
		out.Result.State = model.StateFailed
		out.Result.FailReason = err.Error()
		p.log.Error("post excluded",
			zap.String("post", post.ID),
			zap.Error(err))
		return out
	}

	// Claims and annotations: from the LLM when enabled, otherwise from
	// the records already present in the dataset. A labeled post without
	// inline claims gets a single whole-text claim carrying its labels.
	if p.annotator != nil {
		if err := p.annotator.Annotate(ctx, post); err != nil {
			return fail(err)
		}
	} else if len(post.KnownTechniques) > 0 {
		if len(post.Claims) == 0 {
			post.Claims = []model.Claim{{Text: post.Text}}
		}
		for i := range post.Claims {
			if len(post.Claims[i].Annotations) == 0 {
				post.Claims[i].Annotations = llm.GroundTruthAnnotations(post.KnownTechniques)
			}
		}
	}
	for i := range post.Claims {
		if post.Claims[i].ID == "" {
			post.Claims[i].ID = kg.ClaimID(post.ID, i+1)
		}
	}
	out.Result.State = model.StateClaimsAttached
	out.Result.Claims = len(post.Claims)
	out.Result.State = model.StateAnnotationsAttached

	if p.linker != nil {
		if err := p.linker.LinkEntities(ctx, post); err != nil {
			return fail(err)
		}
	}
	out.Result.State = model.StateEntitiesAttached

	// Verification stage: claims leave this stage with a status
	for i := range post.Claims {
		if post.Claims[i].Status == "" {
			post.Claims[i].Status = model.StatusUnverified
		}
	}
	out.Result.State = model.StateVerificationAttached

	return out
}

// Run processes a batch of posts and returns the run report. Upstream
// work fans out across the worker pool; merges happen afterwards in input
// order, so reruns over the same input produce the same graph.
func (p *Pipeline) Run(ctx context.Context, posts []model.Post) (*model.RunReport, error) {
	report := &model.RunReport{
		StartedAt:  time.Now().UTC(),
		TotalPosts: len(posts),
	}

	pool := worker.NewPool(p.cfg.Concurrency.Workers)
	pool.Start(ctx)
	for i := range posts {
		pool.Submit(ctx, &postJob{p: p, post: &posts[i]})
	}
	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	outcomes := make(map[string]*Outcome, len(results))
	for _, r := range results {
		o := r.(*Outcome)
		outcomes[o.Result.PostID] = o
	}

	for i := range posts {
		o, ok := outcomes[posts[i].ID]
		if !ok {
			continue
		}
		if o.Result.Failed() {
			report.FailedPosts = append(report.FailedPosts, o.Result)
			continue
		}
		o.Result.Statements = p.builder.MergePost(o.Post)
		o.Result.State = model.StateMergedIntoGraph
		report.MergedPosts++
	}

	graph := p.builder.Graph()
	report.TotalStatements = graph.Len()
	report.Stats = kg.ComputeStats(graph, p.cfg.Output.TopN)
	report.FinishedAt = time.Now().UTC()

	return report, nil
}

// RunFile loads a dataset and runs the batch
func (p *Pipeline) RunFile(ctx context.Context, path string) (*model.RunReport, error) {
	posts, err := LoadPosts(path, p.cfg.Input.MaxPosts, p.log)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("dataset %s contains no posts", path)
	}
	p.log.Info("dataset loaded",
		zap.String("file", path),
		zap.Int("posts", len(posts)))
	return p.Run(ctx, posts)
}

// ensureDir creates the output directory if needed
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
