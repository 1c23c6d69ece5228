// Package engine assembles the knowledge graph. It turns a corpus of
// documents into typed triples (documents, chunks, domain concepts, tags,
// topics), maintains the secondary document adjacency graph, and exposes
// querying, statistics, Turtle export, and graph reloading on top of the
// triple store.
package engine

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/coolbeans/notegraph/pkg/corpus"
	"github.com/coolbeans/notegraph/pkg/extract"
	"github.com/coolbeans/notegraph/pkg/log"
	"github.com/coolbeans/notegraph/pkg/query"
	"github.com/coolbeans/notegraph/pkg/store"
)

// GraphSupport is the capability object for graph construction. It is
// decided once at startup; a disabled engine degrades every graph
// operation to a warning plus a zero value instead of an error.
type GraphSupport struct {
	Enabled bool
}

// Concept is a registry entry for a domain concept: its node URI and the
// label it was first seen under. Registry order is first-insertion order,
// which fixes topic batch membership across identical rebuilds.
type Concept struct {
	URI   string
	Label string
}

// Engine builds and owns the knowledge graph for one corpus.
type Engine struct {
	cfg       Config
	graph     GraphSupport
	vocab     store.Vocabulary
	store     *store.TripleStore
	adjacency *DocumentGraph
	extractor extract.ConceptExtractor
	clusterer TopicClusterer
	logger    *zap.SugaredLogger

	concepts []Concept
}

// Option overrides one engine dependency.
type Option func(*Engine)

// WithLogger replaces the default logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConceptExtractor replaces the heuristic concept extractor.
func WithConceptExtractor(extractor extract.ConceptExtractor) Option {
	return func(e *Engine) {
		e.extractor = extractor
	}
}

// WithTopicClusterer replaces the batch topic clusterer.
func WithTopicClusterer(clusterer TopicClusterer) Option {
	return func(e *Engine) {
		e.clusterer = clusterer
	}
}

// WithGraphSupport overrides the capability object derived from the config.
func WithGraphSupport(graph GraphSupport) Option {
	return func(e *Engine) {
		e.graph = graph
	}
}

// New creates an engine for the given configuration.
func New(cfg Config, options ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		graph:     GraphSupport{Enabled: cfg.GraphEnabled},
		vocab:     cfg.Vocabulary(),
		store:     store.NewTripleStore(),
		adjacency: NewDocumentGraph(),
		extractor: extract.NewHeuristicConceptExtractor(),
		clusterer: NewBatchTopicClusterer(),
		logger:    log.Default,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Store returns the underlying triple store.
func (e *Engine) Store() *store.TripleStore {
	return e.store
}

// Vocabulary returns the engine's RDF vocabulary.
func (e *Engine) Vocabulary() store.Vocabulary {
	return e.vocab
}

// Adjacency returns the document adjacency graph.
func (e *Engine) Adjacency() *DocumentGraph {
	return e.adjacency
}

// Concepts returns the registered domain concepts in first-insertion order.
func (e *Engine) Concepts() []Concept {
	out := make([]Concept, len(e.concepts))
	copy(out, e.concepts)
	return out
}

// BuildOptions selects which build stages run.
type BuildOptions struct {
	// Chunking splits documents into chunks with per-chunk concept
	// extraction. Disabled, documents get only the legacy flat model.
	Chunking bool

	// Topics clusters domain concepts into topic nodes after the
	// relationship pass.
	Topics bool
}

// DefaultBuildOptions enables chunking and leaves topics off.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Chunking: true}
}

// BuildStats summarizes one build pass.
type BuildStats struct {
	Documents int `json:"documents"`
	Triples   int `json:"triples"`
	Topics    int `json:"topics"`
}

// Build constructs the graph from the given documents. Documents are
// processed one at a time in two strict passes: first every document's
// nodes, metadata, chunks, and concepts; then every document's wikilink
// relationships. Topic clustering, when enabled, runs after both passes.
func (e *Engine) Build(docs []*corpus.Document, opts BuildOptions) (*BuildStats, error) {
	if !e.graph.Enabled {
		e.logger.Warnf("graph support not enabled, skipping build")
		return &BuildStats{}, nil
	}

	e.logger.Infof("building knowledge graph from %d documents", len(docs))

	for _, doc := range docs {
		if opts.Chunking {
			e.addDocumentWithChunks(doc)
		} else {
			e.addDocumentLegacy(doc)
		}
	}

	titles := make(map[string]bool, len(docs))
	for _, doc := range docs {
		titles[doc.Title] = true
	}
	for _, doc := range docs {
		e.extractRelationships(doc, titles)
	}

	stats := &BuildStats{Documents: len(docs)}
	if opts.Topics {
		stats.Topics = e.clusterer.Cluster(e.store, e.vocab, e.concepts)
	}
	stats.Triples = e.store.Count()

	e.logger.Infof("graph built: %d triples", stats.Triples)
	return stats, nil
}

// add inserts one triple, logging instead of failing: a malformed triple
// skips that statement, not the document.
func (e *Engine) add(subject, predicate, object string) {
	if err := e.store.Add(subject, predicate, object); err != nil {
		e.logger.Warnf("skipping triple: %v", err)
	}
}

// addDocumentWithChunks adds a document with the full semantic model:
// metadata, tags, chunks, per-chunk domain concepts, and the legacy
// heading-derived concepts.
func (e *Engine) addDocumentWithChunks(doc *corpus.Document) {
	docURI := e.vocab.DocumentURI(doc.Title)

	e.add(docURI, store.RDFType, e.vocab.ClassDocument)
	e.add(docURI, store.RDFSLabel, doc.Title)
	e.add(docURI, e.vocab.PropPath, doc.Path)
	e.add(docURI, e.vocab.PropSourceFormat, corpus.DetectFormat(doc.Path))

	frontmatter := corpus.ParseFrontmatter(doc.Content)
	if title := frontmatter.Title(); title != "" {
		e.add(docURI, store.DCTTitle, title)
	}
	if author := frontmatter.Author(); author != "" {
		e.add(docURI, store.DCTCreator, author)
	}
	if created := frontmatter.Created(); created != "" {
		e.add(docURI, store.DCTCreated, created)
	}
	e.addTags(docURI, frontmatter)

	chunks := extract.SplitChunks(doc.Content, e.cfg.ChunkSize)
	for i, chunkText := range chunks {
		chunkURI := e.vocab.ChunkURI(doc.Title, i)

		e.add(chunkURI, store.RDFType, e.vocab.ClassChunk)
		e.add(chunkURI, e.vocab.PropChunkIndex, strconv.Itoa(i))
		e.add(chunkURI, e.vocab.PropChunkText, chunkText)
		e.add(docURI, e.vocab.PropHasChunk, chunkURI)

		for _, label := range e.extractor.Extract(chunkText) {
			conceptURI := e.registerConcept(label)
			e.add(chunkURI, e.vocab.PropMentionsConcept, conceptURI)
		}
	}

	// Section headings become domain concepts too, linked through the
	// legacy mentions edge so heading-based queries keep working.
	for _, section := range doc.Sections {
		heading := section.Heading
		if heading == "" || heading == "Introduction" {
			continue
		}
		conceptURI := e.registerConcept(heading)
		e.add(docURI, e.vocab.PropMentions, conceptURI)
	}

	e.adjacency.AddNode(doc.Title)
}

// addDocumentLegacy adds a document with the flat model: no chunks, and
// headings become plain legacy concept nodes.
func (e *Engine) addDocumentLegacy(doc *corpus.Document) {
	docURI := e.vocab.DocumentURI(doc.Title)

	e.add(docURI, store.RDFType, e.vocab.ClassDocument)
	e.add(docURI, store.RDFSLabel, doc.Title)
	e.add(docURI, e.vocab.PropPath, doc.Path)

	e.addTags(docURI, corpus.ParseFrontmatter(doc.Content))

	for _, section := range doc.Sections {
		heading := section.Heading
		if heading == "" || heading == "Introduction" {
			continue
		}
		conceptURI := e.vocab.ConceptURI(heading)
		e.add(docURI, e.vocab.PropMentions, conceptURI)
		e.add(conceptURI, store.RDFType, e.vocab.ClassConcept)
		e.add(conceptURI, store.RDFSLabel, heading)
	}

	e.adjacency.AddNode(doc.Title)
}

// addTags adds the frontmatter tag nodes and edges for a document.
func (e *Engine) addTags(docURI string, frontmatter corpus.Frontmatter) {
	for _, tag := range frontmatter.Tags() {
		tagURI := e.vocab.TagURI(tag)
		e.add(docURI, e.vocab.PropHasTag, tagURI)
		e.add(tagURI, store.RDFType, e.vocab.ClassTag)
		e.add(tagURI, store.RDFSLabel, tag)
	}
}

// registerConcept returns the node URI for a concept label, creating the
// node on first sight. The first label to reach a URI wins skos:prefLabel;
// later spellings that sanitize to the same URI reuse the node unchanged.
func (e *Engine) registerConcept(label string) string {
	conceptURI := e.vocab.ConceptURI(label)
	if !e.store.Exists(conceptURI, store.RDFType, e.vocab.ClassDomainConcept) {
		e.add(conceptURI, store.RDFType, e.vocab.ClassDomainConcept)
		e.add(conceptURI, store.SKOSPrefLabel, label)
		e.concepts = append(e.concepts, Concept{URI: conceptURI, Label: label})
	}
	return conceptURI
}

// extractRelationships records the document's wikilinks. Every link gets a
// linksTo triple whether or not the target document exists; the adjacency
// graph only gains an edge when the link target exactly matches a loaded
// document title.
func (e *Engine) extractRelationships(doc *corpus.Document, titles map[string]bool) {
	docURI := e.vocab.DocumentURI(doc.Title)

	for _, link := range extract.ExtractWikilinks(doc.Content) {
		targetURI := e.vocab.DocumentURI(link.Target)
		e.add(docURI, e.vocab.PropLinksTo, targetURI)

		if titles[link.Target] {
			e.adjacency.AddEdge(doc.Title, link.Target)
		}
	}
}

// Query runs a SPARQL query and returns its rows as variable-to-value
// maps. Query failures are not fatal to a session: parse and execution
// errors are logged and return an empty result.
func (e *Engine) Query(queryStr string) []map[string]string {
	if !e.graph.Enabled {
		e.logger.Warnf("graph support not enabled, returning no results")
		return []map[string]string{}
	}

	result, err := query.NewExecutor(e.store).ExecuteString(queryStr)
	if err != nil {
		e.logger.Warnf("query failed: %v", err)
		return []map[string]string{}
	}
	return result.Bindings
}

// LoadGraph reads a previously exported Turtle file and merges its triples
// into the store. Domain concepts found in the file are registered in file
// order, and the document adjacency graph is extended with the loaded
// documents and their resolved links.
func (e *Engine) LoadGraph(path string) error {
	if !e.graph.Enabled {
		e.logger.Warnf("graph support not enabled, skipping load")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read graph file: %w", err)
	}
	triples, err := store.ParseTurtle(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse graph file: %w", err)
	}

	labels := make(map[string]string)
	prefLabels := make(map[string]string)
	for _, t := range triples {
		switch t.Predicate {
		case store.RDFSLabel:
			if _, ok := labels[t.Subject]; !ok {
				labels[t.Subject] = t.Object
			}
		case store.SKOSPrefLabel:
			if _, ok := prefLabels[t.Subject]; !ok {
				prefLabels[t.Subject] = t.Object
			}
		}
	}

	seenConcepts := make(map[string]bool)
	docTitles := make(map[string]string)
	for _, t := range triples {
		if t.Predicate != store.RDFType {
			continue
		}
		switch t.Object {
		case e.vocab.ClassDomainConcept:
			if !e.store.Exists(t.Subject, store.RDFType, e.vocab.ClassDomainConcept) && !seenConcepts[t.Subject] {
				e.concepts = append(e.concepts, Concept{URI: t.Subject, Label: prefLabels[t.Subject]})
				seenConcepts[t.Subject] = true
			}
		case e.vocab.ClassDocument:
			if title, ok := labels[t.Subject]; ok {
				docTitles[t.Subject] = title
				e.adjacency.AddNode(title)
			}
		}
	}

	for _, t := range triples {
		if t.Predicate != e.vocab.PropLinksTo {
			continue
		}
		from, fromOK := docTitles[t.Subject]
		to, toOK := docTitles[t.Object]
		if fromOK && toOK {
			e.adjacency.AddEdge(from, to)
		}
	}

	if err := e.store.BulkAdd(triples); err != nil {
		return fmt.Errorf("failed to merge graph file: %w", err)
	}

	e.logger.Infof("loaded %d triples from %s", len(triples), path)
	return nil
}

// Reset clears the store, the adjacency graph, and the concept registry.
func (e *Engine) Reset() {
	e.store.Clear()
	e.adjacency = NewDocumentGraph()
	e.concepts = nil
}
