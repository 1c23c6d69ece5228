package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/notegraph/pkg/corpus"
	"github.com/coolbeans/notegraph/pkg/engine"
	"github.com/coolbeans/notegraph/pkg/log"
	"github.com/coolbeans/notegraph/pkg/query"
	"github.com/coolbeans/notegraph/pkg/store"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "notegraph",
		Short: "Knowledge graph builder for note collections",
		Long: `Notegraph turns a directory of markdown and plain-text notes into a
typed, queryable knowledge graph.

It chunks documents, extracts domain concepts and wikilink relationships,
optionally clusters concepts into topics, and produces:
  - A Turtle export of the instance graph with a statistics header
  - A separate ontology export describing the schema
  - SPARQL SELECT queries over the in-memory triple store
  - Graph statistics and JSON/DOT visualization exports`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a notegraph.yaml config file")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(ontologyCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the engine configuration: an explicit --config file,
// a notegraph.yaml in the working directory, or the defaults.
func loadConfig(cmd *cobra.Command) (engine.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat(engine.DefaultConfigFile); err == nil {
			path = engine.DefaultConfigFile
		}
	}

	cfg := engine.DefaultConfig()
	if path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// buildGraph loads the corpus and constructs the knowledge graph,
// printing progress the way a batch run reads best.
func buildGraph(cfg engine.Config, opts engine.BuildOptions, mergePath string) (*engine.Engine, []*corpus.Document, error) {
	eng := engine.New(cfg)

	if mergePath != "" {
		fmt.Printf("  - Merging existing graph from %s... ", mergePath)
		if err := eng.LoadGraph(mergePath); err != nil {
			return nil, nil, err
		}
		fmt.Printf("done (%d triples)\n", eng.Store().Count())
	}

	fmt.Printf("  - Loading documents from %s... ", cfg.SourcesDir)
	loader := corpus.NewLoader(cfg.SourcesDir,
		corpus.WithEmbeddingsDir(cfg.EmbeddingsDir),
		corpus.WithPatterns(patternsOrDefault(cfg)...))
	docs, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load documents: %w", err)
	}
	fmt.Printf("done (%d documents)\n", len(docs))

	fmt.Print("  - Building knowledge graph... ")
	stats, err := eng.Build(docs, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build graph: %w", err)
	}
	if opts.Topics {
		fmt.Printf("done (%d triples, %d topics)\n", stats.Triples, stats.Topics)
	} else {
		fmt.Printf("done (%d triples)\n", stats.Triples)
	}

	return eng, docs, nil
}

func patternsOrDefault(cfg engine.Config) []string {
	if len(cfg.Patterns) > 0 {
		return cfg.Patterns
	}
	return corpus.DefaultPatterns
}

func buildOptionsFromFlags(cmd *cobra.Command) engine.BuildOptions {
	noChunking, _ := cmd.Flags().GetBool("no-chunking")
	topics, _ := cmd.Flags().GetBool("topics")
	return engine.BuildOptions{Chunking: !noChunking, Topics: topics}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a notegraph data layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			cfg := engine.DefaultConfig()
			cfg.DataDir = filepath.Join(root, "data")
			cfg.SourcesDir = filepath.Join(root, "data", "sources")
			cfg.GraphsDir = filepath.Join(root, "data", "graphs")
			cfg.EmbeddingsDir = filepath.Join(root, "data", "embeddings")

			for _, dir := range []string{cfg.SourcesDir, cfg.GraphsDir, cfg.EmbeddingsDir} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			configPath := filepath.Join(root, engine.DefaultConfigFile)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to render config: %w", err)
				}
				if err := os.WriteFile(configPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Printf("Wrote %s\n", configPath)
			}

			fmt.Printf("Initialized notegraph project in %s\n", root)
			fmt.Println("Created directories:")
			for _, dir := range []string{cfg.SourcesDir, cfg.GraphsDir, cfg.EmbeddingsDir} {
				fmt.Printf("  - %s/\n", dir)
			}
			fmt.Printf("\nNext steps:\n")
			fmt.Printf("  1. Add markdown notes to %s/\n", cfg.SourcesDir)
			fmt.Printf("  2. Run: notegraph build --topics\n")
			fmt.Printf("  3. Run: notegraph query \"SELECT ?doc WHERE { ?doc a onto:Document }\"\n")
			return nil
		},
	}
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the knowledge graph from the sources directory",
		Long: `Build the knowledge graph: load every source document, split it into
chunks, extract domain concepts and wikilink relationships, and optionally
cluster concepts into topic nodes.

Example:
  notegraph build --topics
  notegraph build --merge data/graphs/knowledge_graph.ttl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			mergePath, _ := cmd.Flags().GetString("merge")
			showStats, _ := cmd.Flags().GetBool("stats")
			export, _ := cmd.Flags().GetBool("export")

			fmt.Println("Building knowledge graph:")
			startTime := time.Now()

			eng, docs, err := buildGraph(cfg, buildOptionsFromFlags(cmd), mergePath)
			if err != nil {
				return err
			}

			if export {
				fmt.Print("  - Exporting graph... ")
				path, err := eng.ExportGraph("")
				if err != nil {
					return err
				}
				fmt.Printf("done (%s)\n", path)
			}

			fmt.Printf("\nBuild complete in %v\n", time.Since(startTime))

			if showStats {
				printStats(eng.GraphStats(), corpus.Stats(docs))
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-chunking", false, "skip chunking and per-chunk concept extraction")
	cmd.Flags().Bool("topics", false, "cluster domain concepts into topic nodes")
	cmd.Flags().String("merge", "", "merge an existing Turtle export before building")
	cmd.Flags().Bool("stats", false, "print graph statistics after the build")
	cmd.Flags().Bool("export", false, "export the graph to Turtle after the build")
	return cmd
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [sparql]",
		Short: "Run a SPARQL SELECT query against the knowledge graph",
		Long: `Run a SPARQL SELECT query. The graph is built from the sources
directory, or loaded from a previous Turtle export with --graph.

Example:
  notegraph query "SELECT ?c WHERE { ?c a onto:DomainConcept }"
  notegraph query --graph data/graphs/knowledge_graph.ttl --format csv \
    "SELECT ?doc ?target WHERE { ?doc onto:linksTo ?target }"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			graphPath, _ := cmd.Flags().GetString("graph")
			format, _ := cmd.Flags().GetString("format")
			topics, _ := cmd.Flags().GetBool("topics")

			var eng *engine.Engine
			if graphPath != "" {
				eng = engine.New(cfg)
				if err := eng.LoadGraph(graphPath); err != nil {
					return err
				}
			} else {
				opts := engine.DefaultBuildOptions()
				opts.Topics = topics
				eng, _, err = buildGraph(cfg, opts, "")
				if err != nil {
					return err
				}
				fmt.Println()
			}

			result, err := query.NewExecutor(eng.Store()).ExecuteString(args[0])
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			rendered, err := result.Format(query.OutputFormat(format))
			if err != nil {
				return err
			}
			fmt.Print(rendered)
			return nil
		},
	}

	cmd.Flags().String("graph", "", "load a Turtle export instead of building from sources")
	cmd.Flags().String("format", "table", "output format: table, json, or csv")
	cmd.Flags().Bool("topics", false, "cluster topics before querying")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Build the graph and export it",
		Long: `Build the knowledge graph and export it. Turtle exports carry a
human-readable statistics header; JSON and DOT exports flatten the graph
into nodes and edges for visualization.

A bare name is placed under the graphs directory; absolute paths and paths
under the data root are used as given.

Example:
  notegraph export
  notegraph export --topics --format dot graph.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			atomic, _ := cmd.Flags().GetBool("atomic")
			if atomic {
				cfg.AtomicExport = true
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			fmt.Println("Building knowledge graph:")
			eng, _, err := buildGraph(cfg, buildOptionsFromFlags(cmd), "")
			if err != nil {
				return err
			}

			var path string
			switch format {
			case "ttl":
				path, err = eng.ExportGraph(name)
				if err != nil {
					return err
				}
			case "json", "dot":
				path, err = exportVisualization(eng, cfg, name, format)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s (want ttl, json, or dot)", format)
			}

			fmt.Printf("\nExported graph to %s\n", path)
			return nil
		},
	}

	cmd.Flags().String("format", "ttl", "export format: ttl, json, or dot")
	cmd.Flags().Bool("no-chunking", false, "skip chunking and per-chunk concept extraction")
	cmd.Flags().Bool("topics", false, "cluster domain concepts into topic nodes")
	cmd.Flags().Bool("atomic", false, "write to a temp file and rename into place")
	return cmd
}

// exportVisualization writes the flattened node/edge form of the graph.
func exportVisualization(eng *engine.Engine, cfg engine.Config, name, format string) (string, error) {
	if name == "" {
		name = "knowledge_graph." + format
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.GraphsDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	export := store.ExportGraph(eng.Store(), eng.Vocabulary())

	var data []byte
	switch format {
	case "json":
		var err error
		data, err = export.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to render JSON export: %w", err)
		}
	case "dot":
		data = []byte(export.ToDOT())
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func ontologyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ontology [name]",
		Short: "Export the ontology (schema) to a Turtle file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			path, err := engine.New(cfg).ExportOntology(name)
			if err != nil {
				return err
			}
			fmt.Printf("Exported ontology to %s\n", path)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Build the graph and report statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			topics, _ := cmd.Flags().GetBool("topics")

			opts := engine.DefaultBuildOptions()
			opts.Topics = topics

			fmt.Println("Building knowledge graph:")
			eng, docs, err := buildGraph(cfg, opts, "")
			if err != nil {
				return err
			}

			graphStats := eng.GraphStats()
			corpusStats := corpus.Stats(docs)

			if asJSON {
				combined := struct {
					Graph  engine.GraphStats  `json:"graph"`
					Corpus corpus.CorpusStats `json:"corpus"`
				}{graphStats, corpusStats}
				data, err := json.MarshalIndent(combined, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			printStats(graphStats, corpusStats)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print statistics as JSON")
	cmd.Flags().Bool("topics", false, "cluster topics before counting")
	return cmd
}

func printStats(graph engine.GraphStats, docs corpus.CorpusStats) {
	fmt.Println("\nGraph Statistics:")
	fmt.Printf("  Total triples:       %d\n", graph.TotalTriples)
	fmt.Printf("  Documents:           %d\n", graph.Documents)
	fmt.Printf("  Chunks:              %d\n", graph.Chunks)
	fmt.Printf("  Domain concepts:     %d\n", graph.DomainConcepts)
	fmt.Printf("  Topic nodes:         %d\n", graph.TopicNodes)
	fmt.Printf("  Tags:                %d\n", graph.Tags)
	fmt.Printf("  Legacy concepts:     %d\n", graph.Concepts)
	fmt.Println("\nRelationships:")
	fmt.Printf("  Document links:      %d\n", graph.Links)
	fmt.Printf("  Chunk mentions:      %d\n", graph.ChunkMentions)
	fmt.Printf("  Topic → concept:     %d\n", graph.TopicCoversConcepts)
	fmt.Printf("  Topic → chunk:       %d\n", graph.TopicCoversChunks)
	fmt.Println("\nDocument Graph:")
	fmt.Printf("  Nodes:               %d\n", graph.Nodes)
	fmt.Printf("  Edges:               %d\n", graph.Edges)
	fmt.Printf("  Avg out-degree:      %.2f\n", graph.AvgDegree)
	fmt.Println("\nCorpus:")
	fmt.Printf("  Documents:           %d\n", docs.NumDocuments)
	fmt.Printf("  Total characters:    %d\n", docs.TotalCharacters)
	fmt.Printf("  Total sections:      %d\n", docs.TotalSections)
	fmt.Printf("  Avg document length: %d\n", docs.AvgDocLength)
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the sources directory and rebuild on changes",
		Long: `Watch the sources directory and rebuild the knowledge graph after
each settled batch of changes, exporting the result to the graphs
directory. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			debounce, _ := cmd.Flags().GetDuration("debounce")
			opts := buildOptionsFromFlags(cmd)

			rebuild := func() error {
				fmt.Println("Rebuilding knowledge graph:")
				eng, _, err := buildGraph(cfg, opts, "")
				if err != nil {
					return err
				}
				path, err := eng.ExportGraph("")
				if err != nil {
					return err
				}
				fmt.Printf("Exported graph to %s\n\n", path)
				return nil
			}

			if err := rebuild(); err != nil {
				return err
			}

			watcher := engine.NewWatcher(cfg.SourcesDir, rebuild, engine.WithDebounce(debounce))
			if err := watcher.Start(); err != nil {
				return err
			}

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.SourcesDir)
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			fmt.Println("\nStopping watcher")
			return watcher.Stop()
		},
	}

	cmd.Flags().Duration("debounce", engine.DefaultDebounce, "quiet period before a rebuild")
	cmd.Flags().Bool("no-chunking", false, "skip chunking and per-chunk concept extraction")
	cmd.Flags().Bool("topics", false, "cluster domain concepts into topic nodes")
	return cmd
}
