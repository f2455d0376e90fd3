package model

import "time"

// Config holds the complete pipeline configuration
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	LLM         LLMConfig         `yaml:"llm"`
	Wikidata    WikidataConfig    `yaml:"wikidata"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Schema      SchemaConfig      `yaml:"schema"`
}

// InputConfig controls dataset loading
type InputConfig struct {
	File     string `yaml:"file"`      // JSON dataset path
	MaxPosts int    `yaml:"max_posts"` // 0 = no limit
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Dir     string `yaml:"dir"`     // Output directory
	TopN    int    `yaml:"top_n"`   // Top-entity ranking size
	Verbose bool   `yaml:"verbose"` // Debug-level logging
}

// LLMConfig configures the external annotation service
type LLMConfig struct {
	Enabled             bool          `yaml:"enabled"`
	Provider            string        `yaml:"provider"` // "openai" (also covers OpenRouter via base_url)
	Model               string        `yaml:"model"`
	APIKey              string        `yaml:"-"` // From environment only, never persisted
	BaseURL             string        `yaml:"base_url"`
	Timeout             time.Duration `yaml:"timeout"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"` // Annotations below are dropped
}

// WikidataConfig configures the external entity-resolution service
type WikidataConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// CacheConfig configures entity-resolution caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"` // Disk layer location ("" = memory only)
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig controls per-post parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// SchemaConfig points at an optional property-characteristics override file
type SchemaConfig struct {
	File string `yaml:"file"` // YAML schema path ("" = compiled-in defaults)
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxPosts: 0,
		},
		Output: OutputConfig{
			Dir:  "data/output",
			TopN: 10,
		},
		LLM: LLMConfig{
			Provider:            "openai",
			Model:               "gpt-4o-mini",
			Timeout:             30 * time.Second,
			ConfidenceThreshold: 0.6,
		},
		Wikidata: WikidataConfig{
			Endpoint:          "https://query.wikidata.org/sparql",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
