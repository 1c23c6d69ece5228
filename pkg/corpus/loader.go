package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/coolbeans/notegraph/pkg/log"
)

// DefaultPatterns matches the note formats the engine parses itself.
// Formats that need text extraction (PDF, HTML) are handled by external
// collaborators before the files reach the sources directory.
var DefaultPatterns = []string{"**/*.md", "**/*.txt"}

// Loader discovers and reads documents under a sources directory.
type Loader struct {
	sourcesDir    string
	embeddingsDir string
	patterns      []string
	logger        *zap.SugaredLogger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPatterns replaces the default discovery globs.
func WithPatterns(patterns ...string) LoaderOption {
	return func(l *Loader) {
		l.patterns = patterns
	}
}

// WithEmbeddingsDir enables embedding sidecar lookup in the given cache
// directory.
func WithEmbeddingsDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.embeddingsDir = dir
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *zap.SugaredLogger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader over the given sources directory.
func NewLoader(sourcesDir string, options ...LoaderOption) *Loader {
	loader := &Loader{
		sourcesDir: sourcesDir,
		patterns:   DefaultPatterns,
		logger:     log.Default,
	}

	for _, option := range options {
		option(loader)
	}

	return loader
}

// Load reads every matching file into a Document. A missing sources
// directory is created and yields an empty corpus; unreadable individual
// files are skipped with a warning. Paths are sources-relative with forward
// slashes, and results are sorted by path.
func (l *Loader) Load() ([]*Document, error) {
	if _, err := os.Stat(l.sourcesDir); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking sources directory: %w", err)
		}
		l.logger.Warnf("sources directory does not exist, creating: %s", l.sourcesDir)
		if err := os.MkdirAll(l.sourcesDir, 0755); err != nil {
			return nil, fmt.Errorf("creating sources directory: %w", err)
		}
		return nil, nil
	}

	paths, err := l.discover()
	if err != nil {
		return nil, err
	}

	l.logger.Debugf("found %d files under %s", len(paths), l.sourcesDir)

	var docs []*Document
	for _, rel := range paths {
		content, err := os.ReadFile(filepath.Join(l.sourcesDir, filepath.FromSlash(rel)))
		if err != nil {
			l.logger.Warnf("skipping %s: %v", rel, err)
			continue
		}

		doc := NewDocument(rel, string(content))
		l.attachCachedEmbedding(doc, content)
		docs = append(docs, doc)
		l.logger.Debugf("loaded %s", doc.Title)
	}

	return docs, nil
}

// discover unions the glob patterns into a sorted, deduplicated path list.
func (l *Loader) discover() ([]string, error) {
	fsys := os.DirFS(l.sourcesDir)

	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range l.patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// attachCachedEmbedding looks for a sidecar named by the content hash and
// attaches it when present. Cache misses are silent; other read failures
// log at debug.
func (l *Loader) attachCachedEmbedding(doc *Document, content []byte) {
	if l.embeddingsDir == "" {
		return
	}

	hash := sha256.Sum256(content)
	sidecar := filepath.Join(l.embeddingsDir, hex.EncodeToString(hash[:])+".vec")

	data, err := os.ReadFile(sidecar)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Debugf("could not read embedding cache for %s: %v", doc.Path, err)
		}
		return
	}

	doc.AttachEmbedding(data)
}
