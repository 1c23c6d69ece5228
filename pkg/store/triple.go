// Package store provides an in-memory RDF triple store for the note
// knowledge graph, with pattern matching, Turtle serialization, and the
// vocabulary shared by the construction engine.
package store

import "fmt"

// Triple represents a single RDF statement: subject, predicate, object.
// Subjects and predicates are full URIs; objects are either full URIs
// (resources) or plain strings (literals).
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// NewTriple creates a new triple.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// Equals reports whether two triples are identical.
func (t Triple) Equals(other Triple) bool {
	return t.Subject == other.Subject &&
		t.Predicate == other.Predicate &&
		t.Object == other.Object
}

// String returns a human-readable representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> <%s>", t.Subject, t.Predicate, t.Object)
}

// IsValid reports whether all three components are non-empty.
func (t Triple) IsValid() bool {
	return t.Subject != "" && t.Predicate != "" && t.Object != ""
}

// TriplePattern is a triple with optional wildcard components. An empty
// string matches any value in that position.
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string
}

// NewTriplePattern creates a pattern. Empty strings act as wildcards.
func NewTriplePattern(subject, predicate, object string) TriplePattern {
	return TriplePattern{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// Matches reports whether a triple matches this pattern.
func (p TriplePattern) Matches(t Triple) bool {
	if p.Subject != "" && p.Subject != t.Subject {
		return false
	}
	if p.Predicate != "" && p.Predicate != t.Predicate {
		return false
	}
	if p.Object != "" && p.Object != t.Object {
		return false
	}
	return true
}

// HasWildcards reports whether any component of the pattern is a wildcard.
func (p TriplePattern) HasWildcards() bool {
	return p.Subject == "" || p.Predicate == "" || p.Object == ""
}
