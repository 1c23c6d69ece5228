package corpus

import "testing"

func TestParseFrontmatter(t *testing.T) {
	content := `---
title: Knowledge Graphs
author: A. Writer
date: 2024-01-15
tags:
  - ai
  - graphs
---
# Knowledge Graphs

Body text.
`

	fm := ParseFrontmatter(content)

	if fm.Title() != "Knowledge Graphs" {
		t.Errorf("Expected title 'Knowledge Graphs', got %q", fm.Title())
	}
	if fm.Author() != "A. Writer" {
		t.Errorf("Expected author 'A. Writer', got %q", fm.Author())
	}
	if fm.Created() != "2024-01-15" {
		t.Errorf("Expected created '2024-01-15', got %q", fm.Created())
	}

	tags := fm.Tags()
	if len(tags) != 2 || tags[0] != "ai" || tags[1] != "graphs" {
		t.Errorf("Expected tags [ai graphs], got %v", tags)
	}
}

func TestParseFrontmatter_NoBlock(t *testing.T) {
	fm := ParseFrontmatter("# Just a note\n\nNo metadata here.")

	if len(fm) != 0 {
		t.Errorf("Expected empty frontmatter, got %v", fm)
	}
	if fm.Title() != "" {
		t.Errorf("Expected empty title, got %q", fm.Title())
	}
}

func TestParseFrontmatter_UnclosedBlock(t *testing.T) {
	fm := ParseFrontmatter("---\ntitle: Incomplete\n\n# Body without closing marker")

	if len(fm) != 0 {
		t.Errorf("Expected empty frontmatter for unclosed block, got %v", fm)
	}
}

func TestParseFrontmatter_Malformed(t *testing.T) {
	fm := ParseFrontmatter("---\n\t: [ : broken\n---\nbody")

	if len(fm) != 0 {
		t.Errorf("Expected empty frontmatter for malformed YAML, got %v", fm)
	}
}

func TestFrontmatter_InlineTags(t *testing.T) {
	fm := ParseFrontmatter("---\ntags: [ai, knowledge graphs]\n---\nbody")

	tags := fm.Tags()
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %v", tags)
	}
	if tags[1] != "knowledge graphs" {
		t.Errorf("Expected 'knowledge graphs', got %q", tags[1])
	}
}

func TestFrontmatter_CommaStringTags(t *testing.T) {
	fm := Frontmatter{"tags": "ai, graphs , "}

	tags := fm.Tags()
	if len(tags) != 2 || tags[0] != "ai" || tags[1] != "graphs" {
		t.Errorf("Expected trimmed tags [ai graphs], got %v", tags)
	}
}

func TestFrontmatter_CreatedPrefersDate(t *testing.T) {
	fm := ParseFrontmatter("---\ndate: 2024-02-01\ncreated: 2023-12-31\n---\nbody")

	if fm.Created() != "2024-02-01" {
		t.Errorf("Expected date to win over created, got %q", fm.Created())
	}

	fm = ParseFrontmatter("---\ncreated: 2023-12-31\n---\nbody")
	if fm.Created() != "2023-12-31" {
		t.Errorf("Expected created fallback, got %q", fm.Created())
	}
}

func TestFrontmatter_MissingKeys(t *testing.T) {
	fm := ParseFrontmatter("---\ntitle: Only Title\n---\nbody")

	if fm.Author() != "" {
		t.Errorf("Expected empty author, got %q", fm.Author())
	}
	if fm.Created() != "" {
		t.Errorf("Expected empty created, got %q", fm.Created())
	}
	if fm.Tags() != nil {
		t.Errorf("Expected nil tags, got %v", fm.Tags())
	}
}
