package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/pipeline"
)

var (
	inputFile   string
	outDir      string
	maxPosts    int
	topN        int
	workers     int
	timeout     time.Duration
	schemaFile  string
	noCache     bool
	cacheDir    string
	llmEnabled  bool
	llmProvider string
	llmModel    string
	llmBaseURL  string
	confidence  float64
	linkEnabled bool
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate a post dataset and build the knowledge graph",
	Long: `Annotate processes a JSON dataset of social media posts:
- Extract verifiable claims (LLM, or supplied inline by the dataset)
- Detect persuasion techniques per claim
- Link mentioned entities to Wikidata
- Fold everything into an RDF graph validated against the ontology
- Serialize the graph in Turtle and JSON tree formats, plus statistics

Example:
  musegraph annotate --input data/input/falcon_processed.json
  musegraph annotate --input posts.json --llm --llm-model gpt-4o-mini --link-entities
  musegraph annotate --input posts.json --out-dir out --concurrency 8`,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&inputFile, "input", "", "input dataset (JSON array of post records)")
	annotateCmd.Flags().StringVar(&outDir, "out-dir", "data/output", "output directory")
	annotateCmd.Flags().IntVar(&maxPosts, "max-posts", 0, "limit the number of posts processed (0 = all)")
	annotateCmd.Flags().IntVar(&topN, "top-n", 10, "top-entity ranking size in statistics")
	annotateCmd.Flags().IntVar(&workers, "concurrency", 4, "per-post worker count")
	annotateCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall run timeout")
	annotateCmd.Flags().StringVar(&schemaFile, "schema", "", "property-characteristics override file (YAML)")
	annotateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the entity-resolution cache")
	annotateCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "disk cache directory (default: $HOME/.musegraph/cache)")

	annotateCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM claim extraction and technique detection")
	annotateCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, openrouter, anthropic)")
	annotateCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	annotateCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "custom API base URL (e.g., OpenRouter)")
	annotateCmd.Flags().Float64Var(&confidence, "confidence", 0.6, "minimum technique confidence kept")
	annotateCmd.Flags().BoolVar(&linkEnabled, "link-entities", false, "enable Wikidata entity linking")

	_ = annotateCmd.MarkFlagRequired("input")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := model.DefaultConfig()
	cfg.Input.File = inputFile
	cfg.Input.MaxPosts = maxPosts
	cfg.Output.Dir = outDir
	cfg.Output.TopN = topN
	cfg.Output.Verbose = verbose
	cfg.Concurrency.Workers = workers
	cfg.Schema.File = schemaFile
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Wikidata.Enabled = linkEnabled

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = home + "/.musegraph/cache"
		}
	}

	if llmEnabled {
		cfg.LLM.Enabled = true
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.BaseURL = llmBaseURL
		cfg.LLM.ConfidenceThreshold = confidence

		switch llmProvider {
		case "openrouter":
			cfg.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
			if cfg.LLM.BaseURL == "" {
				cfg.LLM.BaseURL = "https://openrouter.ai/api/v1"
			}
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		default:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	report, err := p.RunFile(ctx, cfg.Input.File)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Dir, logger)
	if err := renderer.WriteGraph(p.Builder().Graph()); err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}
	if err := renderer.WriteStats(report.Stats); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	if err := renderer.WriteReport(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	pipeline.PrintSummary(os.Stdout, report)
	return nil
}
