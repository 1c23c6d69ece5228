package store

import (
	"regexp"
	"strconv"
	"strings"
)

// Namespace is an immutable base URI under which terms are minted.
type Namespace string

// Term returns the full URI for a local name under this namespace.
func (ns Namespace) Term(local string) string {
	return string(ns) + local
}

// Contains reports whether the URI falls under this namespace.
func (ns Namespace) Contains(uri string) bool {
	return strings.HasPrefix(uri, string(ns))
}

// Local returns the local name of a URI under this namespace, or the URI
// unchanged when it lies elsewhere.
func (ns Namespace) Local(uri string) string {
	return strings.TrimPrefix(uri, string(ns))
}

// Default namespaces for instance data and the ontology.
const (
	// DefaultSourcesNamespace holds document and chunk nodes.
	DefaultSourcesNamespace Namespace = "http://notegraph.local/sources/"

	// DefaultOntologyNamespace holds classes, properties, concepts, tags,
	// and topic nodes.
	DefaultOntologyNamespace Namespace = "http://notegraph.local/ontology/"
)

// Well-known external namespaces.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceSKOS = "http://www.w3.org/2004/02/skos/core#"
	NamespaceDCT  = "http://purl.org/dc/terms/"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Core RDF/RDFS terms.
const (
	RDFType        = NamespaceRDF + "type"
	RDFSLabel      = NamespaceRDFS + "label"
	RDFSComment    = NamespaceRDFS + "comment"
	RDFSSubClassOf = NamespaceRDFS + "subClassOf"
	RDFSDomain     = NamespaceRDFS + "domain"
	RDFSRange      = NamespaceRDFS + "range"
	RDFSLiteral    = NamespaceRDFS + "Literal"
)

// OWL terms used by the ontology builder.
const (
	OWLClass            = NamespaceOWL + "Class"
	OWLObjectProperty   = NamespaceOWL + "ObjectProperty"
	OWLDatatypeProperty = NamespaceOWL + "DatatypeProperty"
)

// SKOS terms.
const (
	SKOSConcept    = NamespaceSKOS + "Concept"
	SKOSPrefLabel  = NamespaceSKOS + "prefLabel"
	SKOSDefinition = NamespaceSKOS + "definition"
)

// Dublin Core terms.
const (
	DCTTitle                 = NamespaceDCT + "title"
	DCTCreator               = NamespaceDCT + "creator"
	DCTCreated               = NamespaceDCT + "created"
	DCTBibliographicResource = NamespaceDCT + "BibliographicResource"
)

var (
	sanitizeStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	sanitizeCollapse = regexp.MustCompile(`\s+`)
)

// Sanitize normalizes a label into a URI-safe key: non-word characters are
// stripped and whitespace runs become single underscores. Case is preserved,
// so two labels differing only in spacing share a key while labels differing
// in case do not.
func Sanitize(text string) string {
	s := sanitizeStrip.ReplaceAllString(text, "")
	return sanitizeCollapse.ReplaceAllString(s, "_")
}

// Vocabulary binds the engine's classes, properties, and instance URI
// builders to a pair of namespaces. It is a value object: construct it once
// and pass it explicitly wherever triples are minted.
type Vocabulary struct {
	Sources  Namespace
	Ontology Namespace

	// Classes.
	ClassDocument      string
	ClassChunk         string
	ClassDomainConcept string
	ClassTopicNode     string
	ClassConcept       string // legacy heading-derived concept
	ClassTag           string

	// Datatype properties.
	PropPath         string
	PropSourceFormat string
	PropChunkIndex   string
	PropChunkText    string

	// Object properties.
	PropHasChunk        string
	PropMentionsConcept string
	PropCoversConcept   string
	PropCoversChunk     string
	PropHasTag          string
	PropLinksTo         string
	PropMentions        string // legacy document-to-concept edge
}

// NewVocabulary creates a vocabulary over the given namespaces.
func NewVocabulary(sources, ontology Namespace) Vocabulary {
	return Vocabulary{
		Sources:  sources,
		Ontology: ontology,

		ClassDocument:      ontology.Term("Document"),
		ClassChunk:         ontology.Term("Chunk"),
		ClassDomainConcept: ontology.Term("DomainConcept"),
		ClassTopicNode:     ontology.Term("TopicNode"),
		ClassConcept:       ontology.Term("Concept"),
		ClassTag:           ontology.Term("Tag"),

		PropPath:         ontology.Term("path"),
		PropSourceFormat: ontology.Term("sourceFormat"),
		PropChunkIndex:   ontology.Term("chunkIndex"),
		PropChunkText:    ontology.Term("chunkText"),

		PropHasChunk:        ontology.Term("hasChunk"),
		PropMentionsConcept: ontology.Term("mentionsConcept"),
		PropCoversConcept:   ontology.Term("coversConcept"),
		PropCoversChunk:     ontology.Term("coversChunk"),
		PropHasTag:          ontology.Term("hasTag"),
		PropLinksTo:         ontology.Term("linksTo"),
		PropMentions:        ontology.Term("mentions"),
	}
}

// DefaultVocabulary returns the vocabulary over the default namespaces.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(DefaultSourcesNamespace, DefaultOntologyNamespace)
}

// DocumentURI returns the node URI for a document title.
func (v Vocabulary) DocumentURI(title string) string {
	return v.Sources.Term(Sanitize(title))
}

// ChunkURI returns the node URI for a chunk of the titled document.
func (v Vocabulary) ChunkURI(title string, index int) string {
	return v.Sources.Term(Sanitize(title) + "_chunk_" + strconv.Itoa(index))
}

// ConceptURI returns the node URI for a concept label. Concepts are
// graph-global: every label with the same sanitized key maps here.
func (v Vocabulary) ConceptURI(label string) string {
	return v.Ontology.Term(Sanitize(label))
}

// TagURI returns the node URI for a tag.
func (v Vocabulary) TagURI(tag string) string {
	return v.Ontology.Term(Sanitize(tag))
}

// TopicURI returns the node URI for the nth generated topic.
func (v Vocabulary) TopicURI(index int) string {
	return v.Ontology.Term("topic_" + strconv.Itoa(index))
}
