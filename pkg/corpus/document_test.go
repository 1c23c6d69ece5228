package corpus

import "testing"

func TestNewDocument_TitleFromHeading(t *testing.T) {
	doc := NewDocument("notes/graphs.md", "# Graph Basics\n\nSome text.")

	if doc.Title != "Graph Basics" {
		t.Errorf("Expected title 'Graph Basics', got %q", doc.Title)
	}
}

func TestNewDocument_TitleFromIndentedHeading(t *testing.T) {
	doc := NewDocument("a.md", "intro line\n  # Indented Title  \nmore")

	if doc.Title != "Indented Title" {
		t.Errorf("Expected title 'Indented Title', got %q", doc.Title)
	}
}

func TestNewDocument_TitleFallsBackToFilename(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{"simple", "graphs.md", "graphs"},
		{"nested", "notes/deep/graphs.md", "graphs"},
		{"txt_keeps_extension", "notes/todo.txt", "todo.txt"},
		{"every_md_substring_removed", "weird.md.md", "weird"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			doc := NewDocument(testCase.path, "no heading here")
			if doc.Title != testCase.expected {
				t.Errorf("Expected title %q, got %q", testCase.expected, doc.Title)
			}
		})
	}
}

func TestNewDocument_Sections(t *testing.T) {
	content := "# Title\n\nintro text\n\n## First\nbody one\n\n## Second\nbody two\n"
	doc := NewDocument("a.md", content)

	if len(doc.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(doc.Sections))
	}

	if doc.Sections[0].Heading != "Introduction" {
		t.Errorf("Expected implicit Introduction heading, got %q", doc.Sections[0].Heading)
	}
	if doc.Sections[0].Body != "# Title\n\nintro text" {
		t.Errorf("Unexpected introduction body: %q", doc.Sections[0].Body)
	}

	if doc.Sections[1].Heading != "First" {
		t.Errorf("Expected heading 'First', got %q", doc.Sections[1].Heading)
	}
	if doc.Sections[1].Body != "body one" {
		t.Errorf("Expected trimmed body 'body one', got %q", doc.Sections[1].Body)
	}

	if doc.Sections[2].Heading != "Second" {
		t.Errorf("Expected heading 'Second', got %q", doc.Sections[2].Heading)
	}
}

func TestNewDocument_NoIntroductionWhenOpeningWithHeading(t *testing.T) {
	doc := NewDocument("a.md", "## Only Section\ncontent")

	if len(doc.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Heading != "Only Section" {
		t.Errorf("Expected heading 'Only Section', got %q", doc.Sections[0].Heading)
	}
}

func TestNewDocument_DeeperHeadingsStayInSection(t *testing.T) {
	doc := NewDocument("a.md", "## Top\ntext\n### Nested\nmore text")

	if len(doc.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Body != "text\n### Nested\nmore text" {
		t.Errorf("Expected level-3 heading kept in body, got %q", doc.Sections[0].Body)
	}
}

func TestDocument_Embedding(t *testing.T) {
	doc := NewDocument("a.md", "# A")

	if doc.Embedding() != nil {
		t.Error("Expected no embedding on a fresh document")
	}

	blob := []byte{0x01, 0x02, 0x03}
	doc.AttachEmbedding(blob)

	if got := doc.Embedding(); string(got) != string(blob) {
		t.Errorf("Expected attached embedding returned, got %v", got)
	}
}

func TestStats(t *testing.T) {
	docs := []*Document{
		NewDocument("a.md", "# A\n\n## S1\nbody"),
		NewDocument("b.md", "1234567890"),
	}

	stats := Stats(docs)

	if stats.NumDocuments != 2 {
		t.Errorf("Expected 2 documents, got %d", stats.NumDocuments)
	}

	expectedChars := len("# A\n\n## S1\nbody") + 10
	if stats.TotalCharacters != expectedChars {
		t.Errorf("Expected %d characters, got %d", expectedChars, stats.TotalCharacters)
	}

	// a.md has Introduction + S1; b.md has a single implicit section.
	if stats.TotalSections != 3 {
		t.Errorf("Expected 3 sections, got %d", stats.TotalSections)
	}

	if stats.AvgDocLength != expectedChars/2 {
		t.Errorf("Expected average length %d, got %d", expectedChars/2, stats.AvgDocLength)
	}
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(nil)

	if stats.NumDocuments != 0 || stats.AvgDocLength != 0 {
		t.Errorf("Expected zeroed stats for empty corpus, got %+v", stats)
	}
}

func TestStats_CountsCharactersNotBytes(t *testing.T) {
	docs := []*Document{NewDocument("a.md", "héllo")}

	stats := Stats(docs)

	if stats.TotalCharacters != 5 {
		t.Errorf("Expected 5 characters, got %d", stats.TotalCharacters)
	}
}

func TestDetectFormat(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{"markdown", "notes/a.md", "text/markdown"},
		{"markdown_uppercase", "notes/A.MD", "text/markdown"},
		{"text", "todo.txt", "text/plain"},
		{"pdf", "paper.pdf", "application/pdf"},
		{"html", "page.html", "text/html"},
		{"htm", "page.htm", "text/html"},
		{"unknown", "archive.zip", "application/octet-stream"},
		{"no_extension", "README", "application/octet-stream"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := DetectFormat(testCase.path)
			if result != testCase.expected {
				t.Errorf("DetectFormat(%q) = %q, want %q", testCase.path, result, testCase.expected)
			}
		})
	}
}
