package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/musekg/musegraph/internal/cli"
)

func main() {
	// API keys commonly live in a local .env during research runs
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
