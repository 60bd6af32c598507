// Package ranker scores document chunks against a question using raw term
// frequency. It is deliberately lexical, not semantic — the pipeline only
// depends on Rank/TopK, so a smarter ranker can slot in behind the same
// functions later.
package ranker

import (
	"regexp"
	"sort"
	"strings"
)

// TopLimit caps how many chunks retrieval hands to answer generation.
const TopLimit = 3

// Question tokens shorter than this carry too little signal to count.
const minTokenLen = 4

var wordPattern = regexp.MustCompile(`\w+`)

// ScoredChunk is a chunk with its relevance score and original position.
type ScoredChunk struct {
	Chunk string
	Index int
	Score int
}

// Rank scores every chunk against the question and returns them sorted by
// score descending. The sort is stable: equal scores keep document order.
func Rank(question string, chunks []string) []ScoredChunk {
	tokens := questionTokens(question)

	scored := make([]ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		lower := strings.ToLower(chunk)
		score := 0
		for tok := range tokens {
			score += strings.Count(lower, tok)
		}
		scored[i] = ScoredChunk{Chunk: chunk, Index: i, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// TopK returns up to k positive-scoring chunks, best first. When no token
// matches anywhere it falls back to the first chunk in document order, so a
// non-empty chunk list always yields at least one chunk. Callers must not
// pass an empty chunk list — that precondition belongs to the pipeline.
func TopK(question string, chunks []string, k int) []string {
	if len(chunks) == 0 {
		return nil
	}
	if k <= 0 || k > TopLimit {
		k = TopLimit
	}

	var top []string
	for _, sc := range Rank(question, chunks) {
		if sc.Score <= 0 || len(top) == k {
			break
		}
		top = append(top, sc.Chunk)
	}

	if len(top) == 0 {
		// Nothing matched: fall back to the first chunk in document order,
		// not the highest-scoring one.
		return []string{chunks[0]}
	}
	return top
}

// questionTokens extracts the unique lowercase word tokens worth scoring.
func questionTokens(question string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(question), -1) {
		if len(w) >= minTokenLen {
			tokens[w] = struct{}{}
		}
	}
	return tokens
}
