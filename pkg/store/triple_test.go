package store

import "testing"

func TestNewTriple(t *testing.T) {
	triple := NewTriple("http://notegraph.local/sources/Note", RDFType, "http://notegraph.local/ontology/Document")

	if triple.Subject != "http://notegraph.local/sources/Note" {
		t.Errorf("Expected subject to be set, got %q", triple.Subject)
	}
	if triple.Predicate != RDFType {
		t.Errorf("Expected predicate to be set, got %q", triple.Predicate)
	}
	if triple.Object != "http://notegraph.local/ontology/Document" {
		t.Errorf("Expected object to be set, got %q", triple.Object)
	}
}

func TestTriple_Equals(t *testing.T) {
	a := NewTriple("s", "p", "o")
	b := NewTriple("s", "p", "o")
	c := NewTriple("s", "p", "other")

	if !a.Equals(b) {
		t.Error("Expected identical triples to be equal")
	}
	if a.Equals(c) {
		t.Error("Expected triples with different objects to be unequal")
	}
}

func TestTriple_IsValid(t *testing.T) {
	testCases := []struct {
		name     string
		triple   Triple
		expected bool
	}{
		{"complete", NewTriple("s", "p", "o"), true},
		{"empty_subject", NewTriple("", "p", "o"), false},
		{"empty_predicate", NewTriple("s", "", "o"), false},
		{"empty_object", NewTriple("s", "p", ""), false},
		{"all_empty", NewTriple("", "", ""), false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if testCase.triple.IsValid() != testCase.expected {
				t.Errorf("IsValid() = %v, want %v", testCase.triple.IsValid(), testCase.expected)
			}
		})
	}
}

func TestTriplePattern_Matches(t *testing.T) {
	triple := NewTriple(
		"http://notegraph.local/sources/Note",
		RDFType,
		"http://notegraph.local/ontology/Document",
	)

	testCases := []struct {
		name     string
		pattern  TriplePattern
		expected bool
	}{
		{"exact", NewTriplePattern(triple.Subject, triple.Predicate, triple.Object), true},
		{"subject_only", NewTriplePattern(triple.Subject, "", ""), true},
		{"predicate_only", NewTriplePattern("", RDFType, ""), true},
		{"object_only", NewTriplePattern("", "", triple.Object), true},
		{"all_wildcards", NewTriplePattern("", "", ""), true},
		{"wrong_subject", NewTriplePattern("http://notegraph.local/sources/Other", "", ""), false},
		{"wrong_object", NewTriplePattern("", "", "http://notegraph.local/ontology/Chunk"), false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if testCase.pattern.Matches(triple) != testCase.expected {
				t.Errorf("Matches() = %v, want %v", testCase.pattern.Matches(triple), testCase.expected)
			}
		})
	}
}

func TestTriplePattern_HasWildcards(t *testing.T) {
	if NewTriplePattern("s", "p", "o").HasWildcards() {
		t.Error("Fully bound pattern should not report wildcards")
	}
	if !NewTriplePattern("s", "", "o").HasWildcards() {
		t.Error("Pattern with empty predicate should report wildcards")
	}
}
