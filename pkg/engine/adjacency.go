package engine

import "math"

// DocumentGraph is the secondary adjacency graph over document titles.
// Nodes are titles, edges are resolved wikilinks between loaded documents.
// It backs the nodes/edges/avg_degree statistics and the relationship
// subgraph export; the triple store remains the source of truth.
type DocumentGraph struct {
	nodes map[string]struct{}
	edges map[string]map[string]struct{}
	count int
}

// NewDocumentGraph returns an empty adjacency graph.
func NewDocumentGraph() *DocumentGraph {
	return &DocumentGraph{
		nodes: make(map[string]struct{}),
		edges: make(map[string]map[string]struct{}),
	}
}

// AddNode registers a document title. Adding a title twice is a no-op.
func (g *DocumentGraph) AddNode(title string) {
	g.nodes[title] = struct{}{}
}

// AddEdge records a directed link between two titles. Both endpoints are
// added as nodes if missing; duplicate edges are ignored.
func (g *DocumentGraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)

	targets, ok := g.edges[from]
	if !ok {
		targets = make(map[string]struct{})
		g.edges[from] = targets
	}
	if _, exists := targets[to]; exists {
		return
	}
	targets[to] = struct{}{}
	g.count++
}

// HasNode reports whether a title is present.
func (g *DocumentGraph) HasNode(title string) bool {
	_, ok := g.nodes[title]
	return ok
}

// HasEdge reports whether a directed link exists.
func (g *DocumentGraph) HasEdge(from, to string) bool {
	_, ok := g.edges[from][to]
	return ok
}

// NodeCount returns the number of titles.
func (g *DocumentGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct directed links.
func (g *DocumentGraph) EdgeCount() int {
	return g.count
}

// AvgDegree returns the average out-degree (edges per node) rounded to two
// decimals, or 0 when the graph has no nodes.
func (g *DocumentGraph) AvgDegree() float64 {
	if len(g.nodes) == 0 {
		return 0
	}
	degree := float64(g.count) / float64(len(g.nodes))
	return math.Round(degree*100) / 100
}
