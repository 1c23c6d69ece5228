package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// GraphNode represents a node in the graph visualization.
type GraphNode struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// GraphEdge represents an edge in the graph visualization.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Type   string `json:"type"`
}

// GraphExport represents the complete graph for visualization.
type GraphExport struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats ExportStats `json:"stats"`
}

// ExportStats contains summary statistics for the exported graph.
type ExportStats struct {
	TotalNodes  int            `json:"total_nodes"`
	TotalEdges  int            `json:"total_edges"`
	NodesByType map[string]int `json:"nodes_by_type"`
	EdgesByType map[string]int `json:"edges_by_type"`
}

// ExportGraph flattens the triple store into nodes and edges for
// visualization. Nodes come from subjects and URI objects; edges come from
// the vocabulary's object properties. Output ordering is deterministic.
func ExportGraph(ts *TripleStore, v Vocabulary) *GraphExport {
	export := &GraphExport{
		Nodes: make([]GraphNode, 0),
		Edges: make([]GraphEdge, 0),
		Stats: ExportStats{
			NodesByType: make(map[string]int),
			EdgesByType: make(map[string]int),
		},
	}

	nodeMap := make(map[string]bool)

	for _, t := range ts.All() {
		if !nodeMap[t.Subject] {
			nodeMap[t.Subject] = true
			appendNode(export, t.Subject, ts, v)
		}

		if !isFullURI(t.Object) {
			continue
		}

		if !nodeMap[t.Object] {
			nodeMap[t.Object] = true
			appendNode(export, t.Object, ts, v)
		}

		if v.isObjectProperty(t.Predicate) {
			export.Edges = append(export.Edges, GraphEdge{
				Source: t.Subject,
				Target: t.Object,
				Label:  localName(t.Predicate),
				Type:   t.Predicate,
			})
			export.Stats.EdgesByType[t.Predicate]++
		}
	}

	finishExport(export)
	return export
}

// ExportRelationshipSubgraph exports only nodes joined by object-property
// edges, dropping isolated subjects that carry nothing but literals.
func ExportRelationshipSubgraph(ts *TripleStore, v Vocabulary) *GraphExport {
	export := &GraphExport{
		Nodes: make([]GraphNode, 0),
		Edges: make([]GraphEdge, 0),
		Stats: ExportStats{
			NodesByType: make(map[string]int),
			EdgesByType: make(map[string]int),
		},
	}

	nodeMap := make(map[string]bool)

	for _, t := range ts.All() {
		if !v.isObjectProperty(t.Predicate) || !isFullURI(t.Object) {
			continue
		}

		nodeMap[t.Subject] = true
		nodeMap[t.Object] = true

		export.Edges = append(export.Edges, GraphEdge{
			Source: t.Subject,
			Target: t.Object,
			Label:  localName(t.Predicate),
			Type:   t.Predicate,
		})
		export.Stats.EdgesByType[t.Predicate]++
	}

	for uri := range nodeMap {
		appendNode(export, uri, ts, v)
	}

	finishExport(export)
	return export
}

func appendNode(export *GraphExport, uri string, ts *TripleStore, v Vocabulary) {
	node := buildNode(uri, ts, v)
	export.Nodes = append(export.Nodes, node)
	export.Stats.NodesByType[node.Type]++
}

// finishExport sorts nodes and edges and fills in totals.
func finishExport(export *GraphExport) {
	sort.Slice(export.Nodes, func(i, j int) bool {
		return export.Nodes[i].ID < export.Nodes[j].ID
	})
	sort.Slice(export.Edges, func(i, j int) bool {
		a, b := export.Edges[i], export.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Target < b.Target
	})

	export.Stats.TotalNodes = len(export.Nodes)
	export.Stats.TotalEdges = len(export.Edges)
}

// buildNode creates a GraphNode for a URI, pulling its label, type, and
// short literal properties from the store.
func buildNode(uri string, ts *TripleStore, v Vocabulary) GraphNode {
	node := GraphNode{
		ID:       uri,
		Label:    nodeLabel(uri, ts),
		Type:     nodeType(uri, ts),
		Metadata: make(map[string]string),
	}

	for _, t := range ts.Find(uri, "", "") {
		if !isFullURI(t.Object) && len(t.Object) < 100 {
			node.Metadata[localName(t.Predicate)] = t.Object
		}
	}

	return node
}

// nodeLabel picks a readable label: rdfs:label, then skos:prefLabel, then
// dct:title, then the URI's local name.
func nodeLabel(uri string, ts *TripleStore) string {
	for _, predicate := range []string{RDFSLabel, SKOSPrefLabel, DCTTitle} {
		if objects := ts.ObjectsOf(uri, predicate); len(objects) > 0 {
			sort.Strings(objects)
			return objects[0]
		}
	}
	return localName(uri)
}

// nodeType reports the node's class as a local name, or "Node" for untyped
// subjects.
func nodeType(uri string, ts *TripleStore) string {
	types := ts.ObjectsOf(uri, RDFType)
	if len(types) == 0 {
		return "Node"
	}
	sort.Strings(types)
	return localName(types[0])
}

// isObjectProperty reports whether the predicate is one of the vocabulary's
// node-to-node properties.
func (v Vocabulary) isObjectProperty(predicate string) bool {
	switch predicate {
	case v.PropHasChunk,
		v.PropMentionsConcept,
		v.PropCoversConcept,
		v.PropCoversChunk,
		v.PropHasTag,
		v.PropLinksTo,
		v.PropMentions:
		return true
	}
	return false
}

// localName extracts the final segment of a URI.
func localName(uri string) string {
	if idx := strings.LastIndex(uri, "#"); idx != -1 {
		return uri[idx+1:]
	}
	if idx := strings.LastIndex(uri, "/"); idx != -1 {
		return uri[idx+1:]
	}
	if idx := strings.LastIndex(uri, ":"); idx != -1 {
		return uri[idx+1:]
	}
	return uri
}

// ToJSON serializes the graph export to JSON.
func (g *GraphExport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// ToDOT exports the graph in DOT format for Graphviz.
func (g *GraphExport) ToDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph KnowledgeGraph {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n\n")

	typeColors := map[string]string{
		"Document":      "gold",
		"Chunk":         "lightgray",
		"DomainConcept": "lightblue",
		"TopicNode":     "lightgreen",
		"Concept":       "lightyellow",
		"Tag":           "lightpink",
	}

	for _, node := range g.Nodes {
		color := typeColors[node.Type]
		if color == "" {
			color = "white"
		}
		label := strings.ReplaceAll(node.Label, "\"", "\\\"")
		if len(label) > 30 {
			label = label[:30] + "..."
		}
		sb.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\" style=filled fillcolor=%s];\n",
			node.ID, label, color))
	}

	sb.WriteString("\n")

	edgeColors := map[string]string{
		"hasChunk":        "blue",
		"mentionsConcept": "purple",
		"coversConcept":   "green",
		"coversChunk":     "darkgreen",
		"linksTo":         "red",
		"hasTag":          "orange",
		"mentions":        "brown",
	}

	for _, edge := range g.Edges {
		color := edgeColors[edge.Label]
		if color == "" {
			color = "black"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\" color=%s];\n",
			edge.Source, edge.Target, edge.Label, color))
	}

	sb.WriteString("}\n")
	return sb.String()
}
