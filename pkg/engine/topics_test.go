package engine

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/coolbeans/notegraph/pkg/store"
)

// makeConcepts registers n concepts named Concept 1..n in a fresh store
// and returns both.
func makeConcepts(t *testing.T, n int) (*store.TripleStore, store.Vocabulary, []Concept) {
	t.Helper()
	ts := store.NewTripleStore()
	v := store.DefaultVocabulary()

	concepts := make([]Concept, 0, n)
	for i := 1; i <= n; i++ {
		label := fmt.Sprintf("Concept %d", i)
		uri := v.ConceptURI(label)
		if err := ts.Add(uri, store.RDFType, v.ClassDomainConcept); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := ts.Add(uri, store.SKOSPrefLabel, label); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		concepts = append(concepts, Concept{URI: uri, Label: label})
	}
	return ts, v, concepts
}

func TestBatchTopicClusterer_BatchSizes(t *testing.T) {
	testCases := []struct {
		name       string
		concepts   int
		wantTopics int
		wantSizes  []int
	}{
		{"below minimum", 2, 0, nil},
		{"exactly minimum", 3, 1, []int{3}},
		{"twelve concepts", 12, 3, []int{5, 5, 2}},
		{"clamped to max batch", 33, 4, []int{10, 10, 10, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts, v, concepts := makeConcepts(t, tc.concepts)
			created := NewBatchTopicClusterer().Cluster(ts, v, concepts)

			if created != tc.wantTopics {
				t.Fatalf("Expected %d topics, got %d", tc.wantTopics, created)
			}
			if got := ts.CountOfType(v.ClassTopicNode); got != tc.wantTopics {
				t.Errorf("Expected %d topic nodes in store, got %d", tc.wantTopics, got)
			}
			for i, want := range tc.wantSizes {
				got := len(ts.ObjectsOf(v.TopicURI(i), v.PropCoversConcept))
				if got != want {
					t.Errorf("Expected topic %d to cover %d concepts, got %d", i, want, got)
				}
			}
		})
	}
}

func TestBatchTopicClusterer_TopicMetadata(t *testing.T) {
	ts, v, concepts := makeConcepts(t, 18)
	if created := NewBatchTopicClusterer().Cluster(ts, v, concepts); created != 3 {
		t.Fatalf("Expected 3 topics, got %d", created)
	}

	topic := v.TopicURI(0)

	labels := ts.ObjectsOf(topic, store.SKOSPrefLabel)
	if len(labels) != 1 || labels[0] != "Topic: Concept 1, Concept 2" {
		t.Errorf("Expected label from the first two concepts, got %v", labels)
	}

	definitions := ts.ObjectsOf(topic, store.SKOSDefinition)
	if len(definitions) != 1 || definitions[0] != "Auto-generated topic covering 6 domain concepts" {
		t.Errorf("Expected definition for 6 concepts, got %v", definitions)
	}

	// Batches of six: the comment names five and counts the rest.
	comments := ts.ObjectsOf(topic, store.RDFSComment)
	wantComment := "Clusters concepts: Concept 1, Concept 2, Concept 3, Concept 4, Concept 5 (and 1 more)"
	if len(comments) != 1 || comments[0] != wantComment {
		t.Errorf("Expected comment %q, got %v", wantComment, comments)
	}
}

func TestBatchTopicClusterer_LabelTruncation(t *testing.T) {
	ts := store.NewTripleStore()
	v := store.DefaultVocabulary()

	long := strings.Repeat("Verylongconceptname", 3) // 57 chars
	concepts := []Concept{
		{URI: v.ConceptURI("One"), Label: long + " One"},
		{URI: v.ConceptURI("Two"), Label: long + " Two"},
		{URI: v.ConceptURI("Three"), Label: "Three"},
	}

	if created := NewBatchTopicClusterer().Cluster(ts, v, concepts); created != 1 {
		t.Fatalf("Expected 1 topic, got %d", created)
	}

	labels := ts.ObjectsOf(v.TopicURI(0), store.SKOSPrefLabel)
	if len(labels) != 1 {
		t.Fatalf("Expected one topic label, got %v", labels)
	}
	if got := utf8.RuneCountInString(labels[0]); got != 80 {
		t.Errorf("Expected truncated label of 80 runes, got %d", got)
	}
	if !strings.HasSuffix(labels[0], "...") {
		t.Errorf("Expected truncated label to end with ellipsis, got %q", labels[0])
	}
	if !strings.HasPrefix(labels[0], "Topic: "+long) {
		t.Errorf("Expected label to keep the leading concept name, got %q", labels[0])
	}
}

func TestBatchTopicClusterer_MultilineLabelsCleaned(t *testing.T) {
	ts := store.NewTripleStore()
	v := store.DefaultVocabulary()

	concepts := []Concept{
		{URI: v.ConceptURI("Deep Learning"), Label: "Deep\nLearning"},
		{URI: v.ConceptURI("Graph  Store"), Label: "Graph  Store"},
		{URI: v.ConceptURI("Indexing"), Label: "Indexing"},
	}

	if created := NewBatchTopicClusterer().Cluster(ts, v, concepts); created != 1 {
		t.Fatalf("Expected 1 topic, got %d", created)
	}

	labels := ts.ObjectsOf(v.TopicURI(0), store.SKOSPrefLabel)
	if len(labels) != 1 || labels[0] != "Topic: Deep Learning, Graph Store" {
		t.Errorf("Expected normalized whitespace in label, got %v", labels)
	}
}

func TestBatchTopicClusterer_CoversChunks(t *testing.T) {
	ts, v, concepts := makeConcepts(t, 3)

	chunkA := v.ChunkURI("Doc", 0)
	chunkB := v.ChunkURI("Doc", 1)
	if err := ts.Add(chunkA, v.PropMentionsConcept, concepts[0].URI); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ts.Add(chunkB, v.PropMentionsConcept, concepts[2].URI); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if created := NewBatchTopicClusterer().Cluster(ts, v, concepts); created != 1 {
		t.Fatalf("Expected 1 topic, got %d", created)
	}

	covered := ts.ObjectsOf(v.TopicURI(0), v.PropCoversChunk)
	if len(covered) != 2 {
		t.Fatalf("Expected 2 covered chunks, got %d: %v", len(covered), covered)
	}
}
