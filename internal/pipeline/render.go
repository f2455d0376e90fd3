package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/musekg/musegraph/internal/model"
	"github.com/musekg/musegraph/internal/rdf"
)

// Output file names inside the output directory
const (
	TurtleFile = "annotated_posts.ttl"
	JSONFile   = "annotated_posts.json"
	StatsFile  = "pipeline_stats.json"
	ReportFile = "run_report.json"
)

// Renderer writes the run's outputs. Formats fail independently: a graph
// that cannot be rendered in one format still gets written in the other.
type Renderer struct {
	outDir string
	log    *zap.Logger
}

// NewRenderer creates a renderer targeting the output directory
func NewRenderer(outDir string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{outDir: outDir, log: logger}
}

// WriteGraph serializes the graph in both formats. Returns an error only
// when every format failed.
func (r *Renderer) WriteGraph(g *rdf.Graph) error {
	if err := ensureDir(r.outDir); err != nil {
		return err
	}

	var failures int
	var lastErr error

	if err := r.writeFile(TurtleFile, func(w io.Writer) error { return rdf.WriteTurtle(g, w) }); err != nil {
		r.log.Error("turtle serialization failed", zap.Error(err))
		failures++
		lastErr = err
	}
	if err := r.writeFile(JSONFile, func(w io.Writer) error { return rdf.WriteJSONTree(g, w) }); err != nil {
		r.log.Error("JSON serialization failed", zap.Error(err))
		failures++
		lastErr = err
	}

	if failures == 2 {
		return fmt.Errorf("all graph serializations failed: %w", lastErr)
	}
	return nil
}

// WriteStats writes the statistics summary
func (r *Renderer) WriteStats(stats model.Stats) error {
	if err := ensureDir(r.outDir); err != nil {
		return err
	}
	return r.writeJSON(StatsFile, stats)
}

// WriteReport writes the run report
func (r *Renderer) WriteReport(report *model.RunReport) error {
	if err := ensureDir(r.outDir); err != nil {
		return err
	}
	return r.writeJSON(ReportFile, report)
}

func (r *Renderer) writeFile(name string, render func(io.Writer) error) error {
	path := filepath.Join(r.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path) // don't leave a half-written file behind
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	r.log.Info("output written", zap.String("file", path))
	return nil
}

func (r *Renderer) writeJSON(name string, v interface{}) error {
	return r.writeFile(name, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		return nil
	})
}

// PrintSummary writes the user-facing run summary
func PrintSummary(w io.Writer, report *model.RunReport) {
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "PIPELINE RUN SUMMARY")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Posts processed:   %d\n", report.TotalPosts)
	fmt.Fprintf(w, "Posts merged:      %d\n", report.MergedPosts)
	fmt.Fprintf(w, "Posts failed:      %d\n", len(report.FailedPosts))
	for _, f := range report.FailedPosts {
		fmt.Fprintf(w, "  - %s: %s\n", f.PostID, f.FailReason)
	}
	fmt.Fprintf(w, "Claims:            %d\n", report.Stats.TotalClaims)
	fmt.Fprintf(w, "Annotations:       %d\n", report.Stats.TotalAnnotations)
	fmt.Fprintf(w, "Entities:          %d\n", report.Stats.TotalEntities)
	fmt.Fprintf(w, "Statements:        %d\n", report.TotalStatements)
	if len(report.Stats.TechniqueCounts) > 0 {
		fmt.Fprintln(w, "Technique breakdown:")
		for _, e := range report.Stats.TechniqueCounts {
			fmt.Fprintf(w, "  %s: %d\n", e.Name, e.Count)
		}
	}
	fmt.Fprintln(w, "============================================================")
}
