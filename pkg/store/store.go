package store

import (
	"fmt"
	"sync"
)

// TripleStore is an in-memory collection of triples with set semantics and
// subject/predicate/object hash indexes. Adding an identical triple twice is
// a no-op, which is what makes graph reconstruction idempotent.
//
// The store is safe for concurrent reads; the construction engine is
// single-writer and callers that parallelize must serialize mutation.
type TripleStore struct {
	mu sync.RWMutex

	// Indexes: subject -> predicate -> object, and rotations.
	spo map[string]map[string]map[string]bool
	pos map[string]map[string]map[string]bool
	osp map[string]map[string]map[string]bool

	count int

	// Statistics for query planning.
	subjectCounts   map[string]int
	predicateCounts map[string]int
	objectCounts    map[string]int
}

// NewTripleStore creates an empty triple store.
func NewTripleStore() *TripleStore {
	return &TripleStore{
		spo:             make(map[string]map[string]map[string]bool),
		pos:             make(map[string]map[string]map[string]bool),
		osp:             make(map[string]map[string]map[string]bool),
		subjectCounts:   make(map[string]int),
		predicateCounts: make(map[string]int),
		objectCounts:    make(map[string]int),
	}
}

// Add inserts a triple into the store. Empty components are rejected.
// Re-adding an existing triple is a no-op and returns nil.
func (ts *TripleStore) Add(subject, predicate, object string) error {
	if subject == "" || predicate == "" || object == "" {
		return fmt.Errorf("triple components must be non-empty: (%q, %q, %q)",
			subject, predicate, object)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	return ts.addUnsafe(subject, predicate, object)
}

// AddTriple inserts a Triple value.
func (ts *TripleStore) AddTriple(t Triple) error {
	return ts.Add(t.Subject, t.Predicate, t.Object)
}

// BulkAdd inserts multiple triples under a single lock acquisition.
// Invalid triples abort the batch with an error; duplicates are skipped.
func (ts *TripleStore) BulkAdd(triples []Triple) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, t := range triples {
		if !t.IsValid() {
			return fmt.Errorf("invalid triple in batch: %s", t.String())
		}
		if err := ts.addUnsafe(t.Subject, t.Predicate, t.Object); err != nil {
			return err
		}
	}
	return nil
}

// MergeFrom adds all triples from another store into this one.
// Returns the number of triples actually added (duplicates collapse).
func (ts *TripleStore) MergeFrom(other *TripleStore) int {
	if other == nil {
		return 0
	}

	incoming := other.All()

	ts.mu.Lock()
	defer ts.mu.Unlock()

	before := ts.count
	for _, t := range incoming {
		ts.addUnsafe(t.Subject, t.Predicate, t.Object)
	}
	return ts.count - before
}

func (ts *TripleStore) addUnsafe(subject, predicate, object string) error {
	if ts.existsUnsafe(subject, predicate, object) {
		return nil
	}

	insertNested(ts.spo, subject, predicate, object)
	insertNested(ts.pos, predicate, object, subject)
	insertNested(ts.osp, object, subject, predicate)

	ts.count++
	ts.subjectCounts[subject]++
	ts.predicateCounts[predicate]++
	ts.objectCounts[object]++
	return nil
}

func insertNested(index map[string]map[string]map[string]bool, a, b, c string) {
	if index[a] == nil {
		index[a] = make(map[string]map[string]bool)
	}
	if index[a][b] == nil {
		index[a][b] = make(map[string]bool)
	}
	index[a][b][c] = true
}

// Find returns all triples matching the given components, where an empty
// string is a wildcard. This is the single lookup primitive; every other
// query helper is layered on top of it.
func (ts *TripleStore) Find(subject, predicate, object string) []Triple {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.findUnsafe(subject, predicate, object)
}

// FindPattern returns all triples matching the pattern.
func (ts *TripleStore) FindPattern(p TriplePattern) []Triple {
	return ts.Find(p.Subject, p.Predicate, p.Object)
}

func (ts *TripleStore) findUnsafe(subject, predicate, object string) []Triple {
	var results []Triple

	switch {
	case subject != "" && predicate != "" && object != "":
		if ts.existsUnsafe(subject, predicate, object) {
			results = append(results, NewTriple(subject, predicate, object))
		}

	case subject != "" && predicate != "":
		for obj := range ts.spo[subject][predicate] {
			results = append(results, NewTriple(subject, predicate, obj))
		}

	case predicate != "" && object != "":
		for subj := range ts.pos[predicate][object] {
			results = append(results, NewTriple(subj, predicate, object))
		}

	case subject != "" && object != "":
		for pred := range ts.osp[object][subject] {
			results = append(results, NewTriple(subject, pred, object))
		}

	case subject != "":
		for pred, objects := range ts.spo[subject] {
			for obj := range objects {
				results = append(results, NewTriple(subject, pred, obj))
			}
		}

	case predicate != "":
		for obj, subjects := range ts.pos[predicate] {
			for subj := range subjects {
				results = append(results, NewTriple(subj, predicate, obj))
			}
		}

	case object != "":
		for subj, predicates := range ts.osp[object] {
			for pred := range predicates {
				results = append(results, NewTriple(subj, pred, object))
			}
		}

	default:
		for subj, predicates := range ts.spo {
			for pred, objects := range predicates {
				for obj := range objects {
					results = append(results, NewTriple(subj, pred, obj))
				}
			}
		}
	}

	return results
}

// Exists reports whether the exact triple is present.
func (ts *TripleStore) Exists(subject, predicate, object string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.existsUnsafe(subject, predicate, object)
}

func (ts *TripleStore) existsUnsafe(subject, predicate, object string) bool {
	return ts.spo[subject][predicate][object]
}

// Count returns the total number of triples.
func (ts *TripleStore) Count() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.count
}

// CountOfType returns the number of subjects declared as instances of the
// given class URI via rdf:type.
func (ts *TripleStore) CountOfType(classURI string) int {
	return len(ts.Find("", RDFType, classURI))
}

// CountOfPredicate returns the number of triples carrying the predicate.
func (ts *TripleStore) CountOfPredicate(predicateURI string) int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.predicateCounts[predicateURI]
}

// ObjectsOf returns the objects of all (subject, predicate, *) triples.
func (ts *TripleStore) ObjectsOf(subject, predicate string) []string {
	triples := ts.Find(subject, predicate, "")
	objects := make([]string, 0, len(triples))
	for _, t := range triples {
		objects = append(objects, t.Object)
	}
	return objects
}

// SubjectsOf returns the subjects of all (*, predicate, object) triples.
func (ts *TripleStore) SubjectsOf(predicate, object string) []string {
	triples := ts.Find("", predicate, object)
	subjects := make([]string, 0, len(triples))
	for _, t := range triples {
		subjects = append(subjects, t.Subject)
	}
	return subjects
}

// All returns every triple in the store.
func (ts *TripleStore) All() []Triple {
	return ts.Find("", "", "")
}

// Clear removes all triples and resets statistics.
func (ts *TripleStore) Clear() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.spo = make(map[string]map[string]map[string]bool)
	ts.pos = make(map[string]map[string]map[string]bool)
	ts.osp = make(map[string]map[string]map[string]bool)
	ts.count = 0
	ts.subjectCounts = make(map[string]int)
	ts.predicateCounts = make(map[string]int)
	ts.objectCounts = make(map[string]int)
}

// IndexStats summarizes index cardinalities for query planning.
type IndexStats struct {
	TotalTriples     int
	UniqueSubjects   int
	UniquePredicates int
	UniqueObjects    int
	SubjectCounts    map[string]int
	PredicateCounts  map[string]int
	ObjectCounts     map[string]int
}

// Stats returns a snapshot of index statistics.
func (ts *TripleStore) Stats() IndexStats {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	stats := IndexStats{
		TotalTriples:     ts.count,
		UniqueSubjects:   len(ts.subjectCounts),
		UniquePredicates: len(ts.predicateCounts),
		UniqueObjects:    len(ts.objectCounts),
		SubjectCounts:    make(map[string]int, len(ts.subjectCounts)),
		PredicateCounts:  make(map[string]int, len(ts.predicateCounts)),
		ObjectCounts:     make(map[string]int, len(ts.objectCounts)),
	}
	for k, v := range ts.subjectCounts {
		stats.SubjectCounts[k] = v
	}
	for k, v := range ts.predicateCounts {
		stats.PredicateCounts[k] = v
	}
	for k, v := range ts.objectCounts {
		stats.ObjectCounts[k] = v
	}
	return stats
}
