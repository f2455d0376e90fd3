package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/musekg/musegraph/internal/kg"
	"github.com/musekg/musegraph/internal/ontology"
	"github.com/musekg/musegraph/internal/rdf"
)

var statsTopN int

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <graph file>",
	Short: "Recompute statistics from a serialized graph",
	Long: `Stats parses a previously serialized graph (either the Turtle or the
JSON tree format, chosen by file extension) and prints its statistics
summary as JSON.

Example:
  musegraph stats data/output/annotated_posts.ttl
  musegraph stats data/output/annotated_posts.json --top-n 5`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsTopN, "top-n", 10, "top-entity ranking size")
}

func runStats(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open graph: %w", err)
	}
	defer func() { _ = f.Close() }()

	var stmts []rdf.Statement
	switch filepath.Ext(path) {
	case ".json":
		stmts, err = rdf.ParseJSONTree(f)
	default:
		stmts, err = rdf.ParseTurtle(f)
	}
	if err != nil {
		return fmt.Errorf("parse graph: %w", err)
	}

	// Statements were validated when the graph was built; re-inserting
	// through the validator is harmless and rebuilds the indexes.
	graph := rdf.NewGraph(ontology.DefaultSchema(), nil)
	for _, st := range stmts {
		graph.Insert(st)
	}

	stats := kg.ComputeStats(graph, statsTopN)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
