package corpus

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/notegraph/pkg/log"
)

// Frontmatter holds the keys of a document's leading YAML block. Values are
// kept loosely typed; accessors normalize the keys the graph consumes.
type Frontmatter map[string]any

// ParseFrontmatter extracts the YAML block delimited by the leading "---"
// marker. Documents without a block, and blocks that fail to parse, yield an
// empty map; malformed metadata never fails a build.
func ParseFrontmatter(content string) Frontmatter {
	if !strings.HasPrefix(content, "---") {
		return Frontmatter{}
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return Frontmatter{}
	}

	fm := Frontmatter{}
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		log.Debugf("skipping malformed frontmatter: %v", err)
		return Frontmatter{}
	}
	return fm
}

// Title returns the frontmatter title, or "" when absent.
func (f Frontmatter) Title() string {
	return f.stringValue("title")
}

// Author returns the frontmatter author, or "" when absent.
func (f Frontmatter) Author() string {
	return f.stringValue("author")
}

// Created returns the creation date: the "date" key when present, otherwise
// "created", otherwise "".
func (f Frontmatter) Created() string {
	if date := f.stringValue("date"); date != "" {
		return date
	}
	return f.stringValue("created")
}

// Tags returns the tag list. Both YAML lists and comma-separated strings
// are accepted; entries are trimmed and empties dropped.
func (f Frontmatter) Tags() []string {
	raw, ok := f["tags"]
	if !ok {
		return nil
	}

	var tags []string
	switch value := raw.(type) {
	case []any:
		for _, entry := range value {
			if tag := strings.TrimSpace(scalarString(entry)); tag != "" {
				tags = append(tags, tag)
			}
		}
	case string:
		trimmed := strings.Trim(value, "[]")
		for _, entry := range strings.Split(trimmed, ",") {
			if tag := strings.TrimSpace(entry); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func (f Frontmatter) stringValue(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(scalarString(raw))
}

// scalarString renders a YAML scalar as the text a reader would have
// written: dates without a time component collapse to YYYY-MM-DD.
func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
