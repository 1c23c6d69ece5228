package engine

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/notegraph/pkg/store"
)

// DefaultConfigFile is the config filename the CLI looks for in the
// working directory.
const DefaultConfigFile = "notegraph.yaml"

// Config controls where the engine reads sources, where it writes graphs,
// and how documents are chunked.
type Config struct {
	// DataDir is the root directory for engine data.
	DataDir string `yaml:"data_dir"`

	// SourcesDir holds the source documents to ingest.
	SourcesDir string `yaml:"sources_dir"`

	// GraphsDir receives exported graph and ontology files.
	GraphsDir string `yaml:"graphs_dir"`

	// EmbeddingsDir holds cached embedding sidecar files. Sidecars are
	// attached to documents when present; the engine never computes them.
	EmbeddingsDir string `yaml:"embeddings_dir"`

	// Patterns are the glob patterns used to discover source files.
	// Empty means the loader defaults (markdown and plain text).
	Patterns []string `yaml:"patterns,omitempty"`

	// ChunkSize is the approximate token budget per chunk.
	ChunkSize int `yaml:"chunk_size"`

	// SourcesNamespace is the base URI for document and chunk nodes.
	SourcesNamespace string `yaml:"sources_namespace"`

	// OntologyNamespace is the base URI for classes, properties, concepts,
	// tags, and topic nodes.
	OntologyNamespace string `yaml:"ontology_namespace"`

	// GraphEnabled toggles knowledge graph construction. When false every
	// graph operation degrades to a no-op with a warning.
	GraphEnabled bool `yaml:"graph_enabled"`

	// AtomicExport writes exports to a temp file in the target directory
	// and renames it into place.
	AtomicExport bool `yaml:"atomic_export,omitempty"`

	// LogLevel sets logger verbosity: debug, info, warn, or error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultConfig returns the standard data layout rooted at ./data.
func DefaultConfig() Config {
	return Config{
		DataDir:           "data",
		SourcesDir:        "data/sources",
		GraphsDir:         "data/graphs",
		EmbeddingsDir:     "data/embeddings",
		ChunkSize:         500,
		SourcesNamespace:  string(store.DefaultSourcesNamespace),
		OntologyNamespace: string(store.DefaultOntologyNamespace),
		GraphEnabled:      true,
		LogLevel:          "info",
	}
}

// LoadConfig reads a YAML config file. Keys omitted from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.SourcesDir == "" {
		return fmt.Errorf("config: sources_dir is required")
	}
	if c.GraphsDir == "" {
		return fmt.Errorf("config: graphs_dir is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	for _, ns := range []struct{ key, value string }{
		{"sources_namespace", c.SourcesNamespace},
		{"ontology_namespace", c.OntologyNamespace},
	} {
		if ns.value == "" {
			return fmt.Errorf("config: %s is required", ns.key)
		}
		if !strings.HasSuffix(ns.value, "/") && !strings.HasSuffix(ns.value, "#") {
			return fmt.Errorf("config: %s must end with '/' or '#', got %q", ns.key, ns.value)
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Vocabulary builds the RDF vocabulary for the configured namespaces.
func (c Config) Vocabulary() store.Vocabulary {
	return store.NewVocabulary(
		store.Namespace(c.SourcesNamespace),
		store.Namespace(c.OntologyNamespace),
	)
}
