package extract

import (
	"regexp"
	"strings"
)

// MaxConcepts caps how many concepts Extract returns for one text.
const MaxConcepts = 10

// conceptStopwords disqualify a capitalized phrase when any of them
// appears as a substring of the lowercased phrase.
var conceptStopwords = []string{"the", "this", "that", "with", "from"}

// ConceptExtractor identifies domain concepts in a span of text.
// Implementations must be deterministic so repeated graph builds
// produce identical output.
type ConceptExtractor interface {
	// Extract returns the concepts found in text. The first occurrence
	// of a concept fixes its position in the result.
	Extract(text string) []string
}

// HeuristicConceptExtractor extracts concepts from markdown headings
// and capitalized phrases. It needs no model or external service and is
// the extractor used when no other is configured.
type HeuristicConceptExtractor struct {
	// headingPattern matches markdown headings at any level.
	headingPattern *regexp.Regexp

	// phrasePattern matches capitalized phrases of two to four words.
	phrasePattern *regexp.Regexp
}

var _ ConceptExtractor = (*HeuristicConceptExtractor)(nil)

// NewHeuristicConceptExtractor creates a heuristic concept extractor.
func NewHeuristicConceptExtractor() *HeuristicConceptExtractor {
	return &HeuristicConceptExtractor{
		headingPattern: regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`),
		phrasePattern:  regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`),
	}
}

// Extract returns up to MaxConcepts concepts found in text. Headings
// are collected before capitalized phrases, and duplicates keep their
// first position.
func (e *HeuristicConceptExtractor) Extract(text string) []string {
	var concepts []string

	for _, match := range e.headingPattern.FindAllStringSubmatch(text, -1) {
		heading := strings.TrimSpace(match[1])
		if len(heading) > 3 && heading != "Introduction" {
			concepts = append(concepts, heading)
		}
	}

	for _, match := range e.phrasePattern.FindAllStringSubmatch(text, -1) {
		phrase := match[1]
		if len(phrase) > 5 && !containsStopword(phrase) {
			concepts = append(concepts, phrase)
		}
	}

	seen := make(map[string]bool)
	unique := make([]string, 0, len(concepts))
	for _, concept := range concepts {
		if !seen[concept] {
			seen[concept] = true
			unique = append(unique, concept)
		}
	}

	if len(unique) > MaxConcepts {
		unique = unique[:MaxConcepts]
	}
	return unique
}

// containsStopword reports whether the lowercased phrase contains any
// stopword as a substring, so "Graph Theory" is rejected because
// "theory" contains "the".
func containsStopword(phrase string) bool {
	lower := strings.ToLower(phrase)
	for _, stop := range conceptStopwords {
		if strings.Contains(lower, stop) {
			return true
		}
	}
	return false
}
