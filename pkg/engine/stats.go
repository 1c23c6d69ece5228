package engine

// GraphStats summarizes the knowledge graph: node counts per class, edge
// counts per relationship, and the document adjacency measures.
type GraphStats struct {
	Available    bool `json:"available"`
	TotalTriples int  `json:"total_triples"`

	Documents      int `json:"documents"`
	Chunks         int `json:"chunks"`
	DomainConcepts int `json:"domain_concepts"`
	TopicNodes     int `json:"topic_nodes"`
	Tags           int `json:"tags"`

	// Concepts counts legacy flat concept nodes from non-chunked builds.
	Concepts int `json:"concepts"`

	Links               int `json:"links"`
	ChunkMentions       int `json:"chunk_mentions"`
	TopicCoversConcepts int `json:"topic_covers_concepts"`
	TopicCoversChunks   int `json:"topic_covers_chunks"`

	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	AvgDegree float64 `json:"avg_degree"`

	Message string `json:"message,omitempty"`
}

// GraphStats returns current graph statistics. With graph support disabled
// it reports unavailability instead of failing.
func (e *Engine) GraphStats() GraphStats {
	if !e.graph.Enabled {
		return GraphStats{
			Available: false,
			Message:   "graph support not enabled",
		}
	}

	return GraphStats{
		Available:    true,
		TotalTriples: e.store.Count(),

		Documents:      e.store.CountOfType(e.vocab.ClassDocument),
		Chunks:         e.store.CountOfType(e.vocab.ClassChunk),
		DomainConcepts: e.store.CountOfType(e.vocab.ClassDomainConcept),
		TopicNodes:     e.store.CountOfType(e.vocab.ClassTopicNode),
		Tags:           e.store.CountOfType(e.vocab.ClassTag),
		Concepts:       e.store.CountOfType(e.vocab.ClassConcept),

		Links:               e.store.CountOfPredicate(e.vocab.PropLinksTo),
		ChunkMentions:       e.store.CountOfPredicate(e.vocab.PropMentionsConcept),
		TopicCoversConcepts: e.store.CountOfPredicate(e.vocab.PropCoversConcept),
		TopicCoversChunks:   e.store.CountOfPredicate(e.vocab.PropCoversChunk),

		Nodes:     e.adjacency.NodeCount(),
		Edges:     e.adjacency.EdgeCount(),
		AvgDegree: e.adjacency.AvgDegree(),
	}
}
