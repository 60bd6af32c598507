package chunker

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxSize keeps chunks comfortably under downstream API limits.
	DefaultMaxSize = 4000
	// DefaultOverlap carries trailing context into the next chunk.
	DefaultOverlap = 200
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to single spaces and trims the ends.
// Chunk expects its input to have been through this.
func Normalize(raw string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(raw, " "))
}

// Chunk splits normalized text into overlapping segments, preferring to cut
// at a sentence terminator rather than mid-sentence. Segments are trimmed and
// never empty. Order follows the source text.
func Chunk(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 {
		overlap = 0
	}
	// Overlap must stay below maxSize or the scan can stall.
	if overlap >= maxSize {
		overlap = maxSize / 4
	}

	length := len(text)
	var chunks []string

	start := 0
	for start < length {
		end := start + maxSize
		if end > length {
			end = length
		}

		// Mid-text windows get cut after the last sentence terminator, if any.
		if end < length {
			if brk := lastSentenceBreak(text, start, end); brk != -1 {
				end = brk + 1
			}
		}

		if c := strings.TrimSpace(text[start:end]); c != "" {
			chunks = append(chunks, c)
		}

		if end == length {
			break
		}

		next := end - overlap
		if next <= start {
			// Forced progress: no terminator plus heavy overlap must not stall the scan.
			next = end
		}
		start = next
	}

	return chunks
}

// lastSentenceBreak returns the index of the rightmost '.', '?' or '!' in
// [start, end) that is directly followed by a space also within the window,
// or -1 if there is none.
func lastSentenceBreak(text string, start, end int) int {
	window := text[start:end]
	best := -1
	for _, term := range []string{". ", "? ", "! "} {
		if i := strings.LastIndex(window, term); i != -1 && i > best {
			best = i
		}
	}
	if best == -1 {
		return -1
	}
	return start + best
}
