package store

// BuildOntology constructs the schema graph for a vocabulary: class
// declarations plus the datatype and object properties that relate
// documents, chunks, concepts, topics, and tags. The schema graph is kept
// separate from instance data and serializes to its own Turtle file.
func BuildOntology(v Vocabulary) *TripleStore {
	g := NewTripleStore()

	// Classes.
	g.Add(v.ClassDocument, RDFType, OWLClass)
	g.Add(v.ClassDocument, RDFSSubClassOf, DCTBibliographicResource)
	g.Add(v.ClassDocument, RDFSLabel, "Document")
	g.Add(v.ClassDocument, RDFSComment, "A source document such as Markdown, PDF, or HTML.")

	g.Add(v.ClassChunk, RDFType, OWLClass)
	g.Add(v.ClassChunk, RDFSLabel, "Chunk")
	g.Add(v.ClassChunk, RDFSComment, "A text span extracted from a document for retrieval and annotation.")

	g.Add(v.ClassDomainConcept, RDFType, OWLClass)
	g.Add(v.ClassDomainConcept, RDFSSubClassOf, SKOSConcept)
	g.Add(v.ClassDomainConcept, RDFSLabel, "Domain Concept")
	g.Add(v.ClassDomainConcept, RDFSComment, "Real-world or domain-level concept represented in the knowledge graph.")

	g.Add(v.ClassTopicNode, RDFType, OWLClass)
	g.Add(v.ClassTopicNode, RDFSSubClassOf, SKOSConcept)
	g.Add(v.ClassTopicNode, RDFSLabel, "Topic Node")
	g.Add(v.ClassTopicNode, RDFSComment, "A topic or domain area summarising a set of domain concepts and supporting documents.")

	// Concept is the heading class used by graphs built without chunking.
	g.Add(v.ClassConcept, RDFType, OWLClass)
	g.Add(v.ClassConcept, RDFSLabel, "Concept")

	g.Add(v.ClassTag, RDFType, OWLClass)
	g.Add(v.ClassTag, RDFSLabel, "Tag")

	// Datatype properties.
	g.Add(v.PropPath, RDFType, OWLDatatypeProperty)
	g.Add(v.PropPath, RDFSDomain, v.ClassDocument)
	g.Add(v.PropPath, RDFSRange, RDFSLiteral)

	g.Add(v.PropSourceFormat, RDFType, OWLDatatypeProperty)
	g.Add(v.PropSourceFormat, RDFSDomain, v.ClassDocument)
	g.Add(v.PropSourceFormat, RDFSLabel, "source format")
	g.Add(v.PropSourceFormat, RDFSComment, "MIME type of the source document (e.g., text/markdown, application/pdf)")

	g.Add(v.PropChunkIndex, RDFType, OWLDatatypeProperty)
	g.Add(v.PropChunkIndex, RDFSDomain, v.ClassChunk)
	g.Add(v.PropChunkIndex, RDFSRange, RDFSLiteral)
	g.Add(v.PropChunkIndex, RDFSLabel, "chunk index")

	g.Add(v.PropChunkText, RDFType, OWLDatatypeProperty)
	g.Add(v.PropChunkText, RDFSDomain, v.ClassChunk)
	g.Add(v.PropChunkText, RDFSRange, RDFSLiteral)
	g.Add(v.PropChunkText, RDFSLabel, "chunk text")

	// Object properties.
	g.Add(v.PropHasChunk, RDFType, OWLObjectProperty)
	g.Add(v.PropHasChunk, RDFSDomain, v.ClassDocument)
	g.Add(v.PropHasChunk, RDFSRange, v.ClassChunk)
	g.Add(v.PropHasChunk, RDFSLabel, "has chunk")

	g.Add(v.PropMentionsConcept, RDFType, OWLObjectProperty)
	g.Add(v.PropMentionsConcept, RDFSDomain, v.ClassChunk)
	g.Add(v.PropMentionsConcept, RDFSRange, v.ClassDomainConcept)
	g.Add(v.PropMentionsConcept, RDFSLabel, "mentions concept")
	g.Add(v.PropMentionsConcept, RDFSComment, "Indicates that the chunk mentions or refers to a domain concept.")

	g.Add(v.PropCoversConcept, RDFType, OWLObjectProperty)
	g.Add(v.PropCoversConcept, RDFSDomain, v.ClassTopicNode)
	g.Add(v.PropCoversConcept, RDFSRange, v.ClassDomainConcept)
	g.Add(v.PropCoversConcept, RDFSLabel, "covers concept")
	g.Add(v.PropCoversConcept, RDFSComment, "Associates a topic with domain concepts that fall under it.")

	g.Add(v.PropCoversChunk, RDFType, OWLObjectProperty)
	g.Add(v.PropCoversChunk, RDFSDomain, v.ClassTopicNode)
	g.Add(v.PropCoversChunk, RDFSRange, v.ClassChunk)
	g.Add(v.PropCoversChunk, RDFSLabel, "covers chunk")
	g.Add(v.PropCoversChunk, RDFSComment, "Associates a topic with supporting text chunks.")

	// Document-level properties; mentions is only minted by graphs built
	// without chunking.
	g.Add(v.PropLinksTo, RDFType, OWLObjectProperty)
	g.Add(v.PropLinksTo, RDFSDomain, v.ClassDocument)
	g.Add(v.PropLinksTo, RDFSRange, v.ClassDocument)

	g.Add(v.PropHasTag, RDFType, OWLObjectProperty)
	g.Add(v.PropHasTag, RDFSDomain, v.ClassDocument)
	g.Add(v.PropHasTag, RDFSRange, v.ClassTag)

	g.Add(v.PropMentions, RDFType, OWLObjectProperty)
	g.Add(v.PropMentions, RDFSDomain, v.ClassDocument)
	g.Add(v.PropMentions, RDFSRange, v.ClassConcept)

	return g
}
