package extract

import (
	"regexp"
	"strings"
)

// wikilinkPattern matches [[Target]] and [[Target|Alias]] references.
var wikilinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Wikilink is a single [[...]] reference found in document content.
type Wikilink struct {
	// Target is the linked document title.
	Target string

	// Alias is the display text after the pipe, empty when absent.
	// It has no effect on which document the link points to.
	Alias string
}

// ExtractWikilinks returns every wikilink in content in order of
// appearance. Duplicates are preserved; callers that need set semantics
// get them from the triple store.
func ExtractWikilinks(content string) []Wikilink {
	matches := wikilinkPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	links := make([]Wikilink, 0, len(matches))
	for _, match := range matches {
		target, alias, _ := strings.Cut(match[1], "|")
		links = append(links, Wikilink{
			Target: strings.TrimSpace(target),
			Alias:  strings.TrimSpace(alias),
		})
	}
	return links
}
