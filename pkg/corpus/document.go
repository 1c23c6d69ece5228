// Package corpus models source documents: the title and section structure
// parsed from raw note text, YAML frontmatter metadata, and a directory
// loader that discovers notes on disk.
package corpus

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Section is a heading-delimited region of a document. The body is trimmed
// of surrounding whitespace.
type Section struct {
	Heading string
	Body    string
}

// Document is a source note. Title and Sections are derived from Content at
// construction time; Content keeps the raw text, frontmatter included.
type Document struct {
	Path     string
	Title    string
	Content  string
	Sections []Section

	embedding []byte
}

// NewDocument parses raw note text into a document. The path should be
// relative to the sources directory and use forward slashes.
func NewDocument(path, content string) *Document {
	return &Document{
		Path:     path,
		Title:    extractTitle(path, content),
		Content:  content,
		Sections: splitSections(content),
	}
}

// AttachEmbedding stores an opaque embedding blob loaded from a cache
// sidecar. The engine never computes or interprets embeddings.
func (d *Document) AttachEmbedding(data []byte) {
	d.embedding = data
}

// Embedding returns the attached embedding blob, or nil when none is cached.
func (d *Document) Embedding() []byte {
	return d.embedding
}

// extractTitle returns the text of the first level-1 heading, or the
// filename with every ".md" substring removed when no heading exists.
func extractTitle(path, content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}

	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	return strings.ReplaceAll(base, ".md", "")
}

// splitSections divides content on level-2 headings. Everything before the
// first "## " line forms an implicit "Introduction" section; a document that
// opens directly with a level-2 heading has no introduction.
func splitSections(content string) []Section {
	var sections []Section

	currentHeading := "Introduction"
	var currentBody []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			if len(currentBody) > 0 {
				sections = append(sections, Section{
					Heading: currentHeading,
					Body:    strings.TrimSpace(strings.Join(currentBody, "\n")),
				})
			}
			currentHeading = strings.TrimSpace(trimmed[3:])
			currentBody = nil
		} else {
			currentBody = append(currentBody, line)
		}
	}

	if len(currentBody) > 0 {
		sections = append(sections, Section{
			Heading: currentHeading,
			Body:    strings.TrimSpace(strings.Join(currentBody, "\n")),
		})
	}

	return sections
}

// CorpusStats summarizes a loaded document set.
type CorpusStats struct {
	NumDocuments    int `json:"num_documents"`
	TotalCharacters int `json:"total_characters"`
	TotalSections   int `json:"total_sections"`
	AvgDocLength    int `json:"avg_doc_length"`
}

// Stats computes summary statistics over the documents. Lengths count
// characters, not bytes; the average uses integer division and is zero for
// an empty corpus.
func Stats(docs []*Document) CorpusStats {
	stats := CorpusStats{NumDocuments: len(docs)}

	for _, doc := range docs {
		stats.TotalCharacters += utf8.RuneCountInString(doc.Content)
		stats.TotalSections += len(doc.Sections)
	}

	if stats.NumDocuments > 0 {
		stats.AvgDocLength = stats.TotalCharacters / stats.NumDocuments
	}

	return stats
}

// DetectFormat maps a file extension to its MIME type. Unknown extensions
// report application/octet-stream.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
