// Package extract provides text chunking, concept extraction, and
// wikilink parsing for knowledge graph construction.
package extract

import (
	"strings"
)

// DefaultChunkSize is the approximate token budget for a single chunk.
const DefaultChunkSize = 500

// tokensPerWord scales a whitespace word count into an approximate
// token count.
const tokensPerWord = 1.3

// fallbackChunkChars caps the single fallback chunk produced when text
// contains no usable paragraphs.
const fallbackChunkChars = 1000

// SplitChunks splits text into chunks of roughly chunkSize tokens while
// keeping paragraphs intact. A paragraph larger than the budget becomes
// a chunk of its own rather than being cut mid-paragraph. A chunkSize
// of zero or less falls back to DefaultChunkSize.
//
// Text with no non-empty paragraphs yields a single chunk holding the
// first fallbackChunkChars characters of the input, so every document
// produces at least one chunk.
func SplitChunks(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	text = stripFrontmatterBlock(text)

	var chunks []string
	var current []string
	currentTokens := 0.0

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		paraTokens := estimateTokens(para)
		if currentTokens+paraTokens > float64(chunkSize) && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = []string{para}
			currentTokens = paraTokens
		} else {
			current = append(current, para)
			currentTokens += paraTokens
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	if len(chunks) == 0 {
		return []string{truncateRunes(text, fallbackChunkChars)}
	}
	return chunks
}

// estimateTokens approximates the token count of a paragraph from its
// whitespace-separated word count.
func estimateTokens(para string) float64 {
	return float64(len(strings.Fields(para))) * tokensPerWord
}

// stripFrontmatterBlock removes a leading --- delimited frontmatter
// block. Text without a closed block is returned unchanged.
func stripFrontmatterBlock(text string) string {
	if !strings.HasPrefix(text, "---") {
		return text
	}
	parts := strings.SplitN(text, "---", 3)
	if len(parts) < 3 {
		return text
	}
	return parts[2]
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
