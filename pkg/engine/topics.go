package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/coolbeans/notegraph/pkg/log"
	"github.com/coolbeans/notegraph/pkg/store"
)

// Topic clustering bounds.
const (
	// minClusterConcepts is the smallest registry that gets topics at all.
	minClusterConcepts = 3

	// minTopicSize and maxTopicSize clamp the per-topic batch size.
	minTopicSize = 5
	maxTopicSize = 10

	// maxTopicLabelLen caps the rendered topic label.
	maxTopicLabelLen = 80
)

// TopicClusterer groups registered domain concepts into topic nodes. It
// returns the number of topics created. Implementations write topic
// triples directly into the store.
type TopicClusterer interface {
	Cluster(ts *store.TripleStore, v store.Vocabulary, concepts []Concept) int
}

// BatchTopicClusterer slices the concept registry into consecutive batches
// of 5 to 10 concepts and creates one topic node per batch. Registry order
// is first-insertion order, so identical corpora produce identical topics.
type BatchTopicClusterer struct {
	logger *zap.SugaredLogger
}

var _ TopicClusterer = (*BatchTopicClusterer)(nil)

// NewBatchTopicClusterer returns the default clusterer.
func NewBatchTopicClusterer() *BatchTopicClusterer {
	return &BatchTopicClusterer{logger: log.Default}
}

// Cluster creates topic nodes for the given concepts. Fewer than three
// concepts is not enough signal to group, so nothing is created.
func (c *BatchTopicClusterer) Cluster(ts *store.TripleStore, v store.Vocabulary, concepts []Concept) int {
	if len(concepts) < minClusterConcepts {
		return 0
	}

	topicSize := len(concepts) / 3
	if topicSize < minTopicSize {
		topicSize = minTopicSize
	}
	if topicSize > maxTopicSize {
		topicSize = maxTopicSize
	}

	created := 0
	for start := 0; start < len(concepts); start += topicSize {
		end := start + topicSize
		if end > len(concepts) {
			end = len(concepts)
		}
		c.addTopic(ts, v, created, concepts[start:end])
		created++
	}
	return created
}

// addTopic writes one topic node covering a batch of concepts and every
// chunk that mentions one of them.
func (c *BatchTopicClusterer) addTopic(ts *store.TripleStore, v store.Vocabulary, index int, batch []Concept) {
	labels := make([]string, 0, len(batch))
	for _, concept := range batch {
		labels = append(labels, cleanTopicLabel(concept.Label))
	}

	topicLabel := "Topic: " + strings.Join(labels[:minInt(2, len(labels))], ", ")
	if utf8.RuneCountInString(topicLabel) > maxTopicLabelLen {
		topicLabel = string([]rune(topicLabel)[:maxTopicLabelLen-3]) + "..."
	}

	names := strings.Join(labels[:minInt(5, len(labels))], ", ")
	if len(labels) > 5 {
		names += fmt.Sprintf(" (and %d more)", len(labels)-5)
	}

	topicURI := v.TopicURI(index)
	c.add(ts, topicURI, store.RDFType, v.ClassTopicNode)
	c.add(ts, topicURI, store.SKOSPrefLabel, topicLabel)
	c.add(ts, topicURI, store.SKOSDefinition,
		fmt.Sprintf("Auto-generated topic covering %d domain concepts", len(batch)))
	c.add(ts, topicURI, store.RDFSComment, "Clusters concepts: "+names)

	for _, concept := range batch {
		c.add(ts, topicURI, v.PropCoversConcept, concept.URI)
	}
	for _, concept := range batch {
		for _, chunk := range ts.SubjectsOf(v.PropMentionsConcept, concept.URI) {
			c.add(ts, topicURI, v.PropCoversChunk, chunk)
		}
	}
}

// add inserts one triple, logging instead of failing.
func (c *BatchTopicClusterer) add(ts *store.TripleStore, subject, predicate, object string) {
	if err := ts.Add(subject, predicate, object); err != nil {
		c.logger.Warnf("skipping topic triple: %v", err)
	}
}

// cleanTopicLabel collapses line breaks and whitespace runs so multi-line
// concept labels render on one line.
func cleanTopicLabel(label string) string {
	return strings.Join(strings.Fields(label), " ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
