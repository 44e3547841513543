package utils

import (
	"strings"
	"unicode"
)

// Default chunking used when building the document index
const (
	DefaultChunkSize    = 900
	DefaultChunkOverlap = 150
)

// separators are tried in order when looking for a clean break
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into chunks of at most chunkSize characters with
// overlap characters shared between neighbours. Chunks end on a paragraph,
// line, sentence or word boundary when one exists past the overlap region;
// otherwise the cut is made at chunkSize.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if len(runes) <= chunkSize {
		return []string{string(runes)}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start+overlap+1, end)
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		} else {
			next = alignStart(runes, next, end)
		}
		start = next
	}
	return chunks
}

// breakPoint returns the position just after the last separator in runes[min:end],
// or end when there is none.
func breakPoint(runes []rune, min, end int) int {
	window := string(runes[min:end])
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			return min + len([]rune(window[:i+len(sep)]))
		}
	}
	return end
}

// alignStart moves an overlap start forward to the next word start before end
func alignStart(runes []rune, pos, end int) int {
	if unicode.IsSpace(runes[pos-1]) {
		return pos
	}
	for i := pos; i < end; i++ {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return pos
}
