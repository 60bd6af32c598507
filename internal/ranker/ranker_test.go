package ranker

import (
	"testing"
)

func TestRank_ScoresByTermFrequency(t *testing.T) {
	chunks := []string{
		"Cats eat fish and mice.",
		"Dogs bark loudly.",
		"Birds fly south.",
	}

	scored := Rank("what do cats eat", chunks)

	if len(scored) != 3 {
		t.Fatalf("expected 3 scored chunks, got %d", len(scored))
	}
	if scored[0].Index != 0 {
		t.Errorf("expected chunk 0 ranked first, got index %d", scored[0].Index)
	}
	if scored[0].Score == 0 {
		t.Errorf("expected positive score for matching chunk, got 0")
	}
	if scored[1].Score != 0 || scored[2].Score != 0 {
		t.Errorf("expected zero scores for non-matching chunks, got %d and %d", scored[1].Score, scored[2].Score)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	chunks := []string{"alpha text", "beta text", "gamma text", "delta text"}

	scored := Rank("nothing matches here either", chunks)

	for i, sc := range scored {
		if sc.Index != i {
			t.Errorf("tie at position %d resolved to index %d, expected document order preserved", i, sc.Index)
		}
	}
}

func TestRank_CaseInsensitive(t *testing.T) {
	chunks := []string{"MIGRATION plans were DISCUSSED."}

	scored := Rank("Migration discussed", chunks)
	if scored[0].Score != 2 {
		t.Errorf("expected score 2, got %d", scored[0].Score)
	}
}

func TestRank_ShortTokensIgnored(t *testing.T) {
	chunks := []string{"it is in an up to the and"}

	scored := Rank("is it in an up to", chunks)
	if scored[0].Score != 0 {
		t.Errorf("expected tokens of length <= 3 to be discarded, got score %d", scored[0].Score)
	}
}

func TestRank_DuplicateQuestionWordsCountOnce(t *testing.T) {
	chunks := []string{"fish fish fish"}

	once := Rank("fish", chunks)[0].Score
	twice := Rank("fish fish", chunks)[0].Score
	if once != twice {
		t.Errorf("duplicate question tokens changed the score: %d vs %d", once, twice)
	}
	if once != 3 {
		t.Errorf("expected 3 occurrences counted, got %d", once)
	}
}

func TestTopK_ReturnsBestChunk(t *testing.T) {
	chunks := []string{
		"Cats eat fish and mice.",
		"Dogs bark loudly.",
		"Birds fly south.",
	}

	top := TopK("what do cats eat", chunks, 1)

	if len(top) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(top))
	}
	if top[0] != chunks[0] {
		t.Errorf("expected %q, got %q", chunks[0], top[0])
	}
}

func TestTopK_CappedAtLimit(t *testing.T) {
	chunks := []string{
		"whales swim deep",
		"whales sing songs",
		"whales breach waves",
		"whales migrate north",
		"whales feed on krill",
	}

	top := TopK("tell me about whales", chunks, 10)
	if len(top) > TopLimit {
		t.Errorf("expected at most %d chunks, got %d", TopLimit, len(top))
	}
}

func TestTopK_ExcludesZeroScores(t *testing.T) {
	chunks := []string{
		"Cats eat fish.",
		"Dogs bark.",
		"Birds sing.",
	}

	top := TopK("cats", chunks, 3)
	if len(top) != 1 {
		t.Fatalf("expected only the matching chunk, got %d: %v", len(top), top)
	}
	if top[0] != chunks[0] {
		t.Errorf("expected %q, got %q", chunks[0], top[0])
	}
}

func TestTopK_FallbackToFirstChunk(t *testing.T) {
	chunks := []string{"Dogs bark loudly.", "Cats purr quietly."}

	// "is it" has no tokens longer than 3 chars, so nothing can score.
	top := TopK("is it", chunks, 3)

	if len(top) != 1 {
		t.Fatalf("expected exactly 1 fallback chunk, got %d", len(top))
	}
	if top[0] != chunks[0] {
		t.Errorf("fallback should be the first chunk in document order, got %q", top[0])
	}
}

func TestTopK_EmptyChunks(t *testing.T) {
	if top := TopK("anything", nil, 3); top != nil {
		t.Errorf("expected nil for empty chunk list, got %v", top)
	}
}

func TestTopK_OrderedByScore(t *testing.T) {
	chunks := []string{
		"mice",
		"cats cats",
		"cats cats cats",
		"cats",
	}

	top := TopK("cats", chunks, 3)
	want := []string{"cats cats cats", "cats cats", "cats"}
	if len(top) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(top))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], top[i])
		}
	}
}
