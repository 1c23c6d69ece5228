package store

import (
	"encoding/json"
	"strings"
	"testing"
)

func exportTestStore(t *testing.T) (*TripleStore, Vocabulary) {
	t.Helper()

	ts := NewTripleStore()
	v := DefaultVocabulary()

	doc := v.DocumentURI("Note A")
	chunk := v.ChunkURI("Note A", 0)
	concept := v.ConceptURI("Graph Theory")

	ts.Add(doc, RDFType, v.ClassDocument)
	ts.Add(doc, DCTTitle, "Note A")
	ts.Add(doc, v.PropPath, "notes/a.md")
	ts.Add(doc, v.PropHasChunk, chunk)
	ts.Add(chunk, RDFType, v.ClassChunk)
	ts.Add(chunk, v.PropMentionsConcept, concept)
	ts.Add(concept, RDFType, v.ClassDomainConcept)
	ts.Add(concept, SKOSPrefLabel, "Graph Theory")

	return ts, v
}

func TestExportGraph(t *testing.T) {
	ts, v := exportTestStore(t)

	export := ExportGraph(ts, v)

	// Subjects plus URI objects: doc, chunk, concept, and the three class
	// nodes referenced as rdf:type objects.
	if export.Stats.TotalNodes != 6 {
		t.Errorf("Expected 6 nodes, got %d", export.Stats.TotalNodes)
	}

	// Object-property edges only: hasChunk and mentionsConcept.
	if export.Stats.TotalEdges != 2 {
		t.Errorf("Expected 2 edges, got %d", export.Stats.TotalEdges)
	}

	if export.Stats.EdgesByType[v.PropHasChunk] != 1 {
		t.Errorf("Expected 1 hasChunk edge, got %d", export.Stats.EdgesByType[v.PropHasChunk])
	}
	if export.Stats.NodesByType["Document"] != 1 {
		t.Errorf("Expected 1 Document node, got %d", export.Stats.NodesByType["Document"])
	}
}

func TestExportGraph_NodeLabels(t *testing.T) {
	ts, v := exportTestStore(t)

	export := ExportGraph(ts, v)

	byID := make(map[string]GraphNode, len(export.Nodes))
	for _, node := range export.Nodes {
		byID[node.ID] = node
	}

	doc := byID[v.DocumentURI("Note A")]
	if doc.Label != "Note A" {
		t.Errorf("Expected document labeled from dct:title, got %q", doc.Label)
	}
	if doc.Type != "Document" {
		t.Errorf("Expected document typed Document, got %q", doc.Type)
	}

	concept := byID[v.ConceptURI("Graph Theory")]
	if concept.Label != "Graph Theory" {
		t.Errorf("Expected concept labeled from skos:prefLabel, got %q", concept.Label)
	}

	chunk := byID[v.ChunkURI("Note A", 0)]
	if chunk.Label != "Note_A_chunk_0" {
		t.Errorf("Expected chunk to fall back to its URI local name, got %q", chunk.Label)
	}

	if doc.Metadata["title"] != "Note A" {
		t.Errorf("Expected title metadata on document node, got %q", doc.Metadata["title"])
	}
	if doc.Metadata["path"] != "notes/a.md" {
		t.Errorf("Expected path metadata on document node, got %q", doc.Metadata["path"])
	}
}

func TestExportGraph_Deterministic(t *testing.T) {
	ts, v := exportTestStore(t)

	first, err := ExportGraph(ts, v).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	second, err := ExportGraph(ts, v).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("Expected identical JSON across repeated exports")
	}
}

func TestExportRelationshipSubgraph(t *testing.T) {
	ts, v := exportTestStore(t)

	// An isolated subject with only literal properties.
	ts.Add(v.DocumentURI("Orphan"), DCTTitle, "Orphan")

	export := ExportRelationshipSubgraph(ts, v)

	if export.Stats.TotalEdges != 2 {
		t.Errorf("Expected 2 edges, got %d", export.Stats.TotalEdges)
	}

	// Only nodes on a relationship edge survive: doc, chunk, concept.
	if export.Stats.TotalNodes != 3 {
		t.Errorf("Expected 3 nodes, got %d", export.Stats.TotalNodes)
	}

	for _, node := range export.Nodes {
		if node.ID == v.DocumentURI("Orphan") {
			t.Error("Expected orphan node to be dropped from relationship subgraph")
		}
	}
}

func TestGraphExport_ToJSON(t *testing.T) {
	ts, v := exportTestStore(t)

	data, err := ExportGraph(ts, v).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var decoded GraphExport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Exported JSON does not round-trip: %v", err)
	}

	if len(decoded.Nodes) != 6 {
		t.Errorf("Expected 6 nodes after decode, got %d", len(decoded.Nodes))
	}
}

func TestGraphExport_ToDOT(t *testing.T) {
	ts, v := exportTestStore(t)

	dot := ExportGraph(ts, v).ToDOT()

	if !strings.HasPrefix(dot, "digraph KnowledgeGraph {") {
		t.Error("Expected DOT output to open a digraph")
	}
	if !strings.Contains(dot, "fillcolor=gold") {
		t.Error("Expected document nodes filled gold")
	}
	if !strings.Contains(dot, `label="hasChunk"`) {
		t.Error("Expected hasChunk edge label")
	}
	if !strings.Contains(dot, "->") {
		t.Error("Expected at least one edge")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("Expected DOT output to close the digraph")
	}
}

func TestLocalName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"hash", "http://www.w3.org/2004/02/skos/core#prefLabel", "prefLabel"},
		{"slash", "http://notegraph.local/ontology/hasChunk", "hasChunk"},
		{"bare", "plainvalue", "plainvalue"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := localName(testCase.input)
			if result != testCase.expected {
				t.Errorf("localName(%q) = %q, want %q", testCase.input, result, testCase.expected)
			}
		})
	}
}
