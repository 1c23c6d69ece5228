package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coolbeans/notegraph/pkg/store"
)

// Default export filenames.
const (
	DefaultGraphFile    = "knowledge_graph.ttl"
	DefaultOntologyFile = "notegraph_ontology.ttl"
)

// ExportGraph serializes the knowledge graph to a Turtle file with a
// human-readable statistics header and returns the path written. An empty
// filename uses DefaultGraphFile. With graph support disabled it warns and
// returns "" without writing.
func (e *Engine) ExportGraph(filename string) (string, error) {
	if !e.graph.Enabled {
		e.logger.Warnf("graph support not enabled, skipping export")
		return "", nil
	}

	if filename == "" {
		filename = DefaultGraphFile
	}
	outputPath := e.resolveExportPath(filename)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	serializer := store.NewTurtleSerializer(store.WithVocabulary(e.vocab))
	content := exportHeader(e.GraphStats()) + serializer.Serialize(e.store)

	if err := e.writeFile(outputPath, []byte(content)); err != nil {
		return "", fmt.Errorf("failed to write graph export: %w", err)
	}

	e.logger.Infof("exported graph to %s", outputPath)
	return outputPath, nil
}

// ExportOntology writes the schema graph to a Turtle file under the graphs
// directory and returns the path written. An empty filename uses
// DefaultOntologyFile. With graph support disabled it warns and returns ""
// without writing.
func (e *Engine) ExportOntology(filename string) (string, error) {
	if !e.graph.Enabled {
		e.logger.Warnf("graph support not enabled, skipping ontology export")
		return "", nil
	}

	if filename == "" {
		filename = DefaultOntologyFile
	}
	outputPath := filepath.Join(e.cfg.GraphsDir, filename)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	ontology := store.BuildOntology(e.vocab)
	serializer := store.NewTurtleSerializer(store.WithVocabulary(e.vocab))

	if err := e.writeFile(outputPath, []byte(serializer.Serialize(ontology))); err != nil {
		return "", fmt.Errorf("failed to write ontology: %w", err)
	}

	e.logger.Infof("exported ontology to %s", outputPath)
	return outputPath, nil
}

// resolveExportPath places bare filenames under the graphs directory.
// Absolute paths and paths textually prefixed by the data root are kept
// as given.
func (e *Engine) resolveExportPath(filename string) string {
	if filepath.IsAbs(filename) || strings.HasPrefix(filename, e.cfg.DataDir) {
		return filename
	}
	return filepath.Join(e.cfg.GraphsDir, filename)
}

// writeFile writes an export. With AtomicExport set, content lands in a
// temp file in the target directory and is renamed into place so readers
// never observe a partial file.
func (e *Engine) writeFile(path string, data []byte) error {
	if !e.cfg.AtomicExport {
		return os.WriteFile(path, data, 0o644)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// exportHeader renders the comment block prepended to graph exports.
func exportHeader(stats GraphStats) string {
	return fmt.Sprintf(`# Knowledge Graph Export
# Generated: %s
#
# Graph Statistics:
#   - Documents: %d
#   - Chunks: %d
#   - Domain Concepts: %d
#   - Topic Nodes: %d
#   - Total Triples: %d
#
# Structure Guide:
#   1. Topic Nodes (onto:TopicNode) - Navigation layer organizing concepts
#   2. Documents (onto:Document) - Source files with metadata
#   3. Chunks (onto:Chunk) - Text segments from documents
#   4. Domain Concepts (onto:DomainConcept) - Knowledge entities
#   5. Tags (onto:Tag) - Document categorization
#
# Relationships:
#   - onto:hasChunk: Document → Chunk (1-to-many)
#   - onto:mentionsConcept: Chunk → DomainConcept (many-to-many)
#   - onto:coversConcept: TopicNode → DomainConcept (many-to-many)
#   - onto:coversChunk: TopicNode → Chunk (many-to-many)
#
# For more information, see: README.md
#

`,
		time.Now().Format("2006-01-02 15:04:05"),
		stats.Documents,
		stats.Chunks,
		stats.DomainConcepts,
		stats.TopicNodes,
		stats.TotalTriples,
	)
}
