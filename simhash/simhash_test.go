package simhash

import (
	"testing"
)

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "rewrite this prompt so it spends fewer tokens"
	fp1 := Fingerprint(text)
	fp2 := Fingerprint(text)

	if fp1 != fp2 {
		t.Errorf("identical texts produced different fingerprints: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_CaseFolded(t *testing.T) {
	fp1 := Fingerprint("Summarize The Report")
	fp2 := Fingerprint("summarize the report")

	if fp1 != fp2 {
		t.Errorf("capitalization changed the fingerprint: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_SimilarTexts(t *testing.T) {
	text1 := "the optimizer trims filler words from long prompts before submission"
	text2 := "the optimizer strips filler words from long prompts before submission"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist > 10 {
		t.Errorf("similar texts have too large distance: %d (fingerprints: %064b, %064b)", dist, fp1, fp2)
	}
}

func TestFingerprint_DifferentTexts(t *testing.T) {
	text1 := "the optimizer trims filler words from long prompts before submission"
	text2 := "completely unrelated content about quantum physics and mathematics"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist < 5 {
		t.Errorf("very different texts have too small distance: %d", dist)
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	fp := Fingerprint("")
	if fp != 0 {
		t.Errorf("empty input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprint_WhitespaceOnly(t *testing.T) {
	fp := Fingerprint("   \t\n  ")
	if fp != 0 {
		t.Errorf("whitespace-only input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xFF, 0xFF, 0},
		{"all different", 0, ^uint64(0), 64},
		{"one bit", 0, 1, 1},
		{"two bits", 0, 3, 2},
		{"zero zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	fp1 := Fingerprint("trim the verbose prompt")
	fp2 := Fingerprint("trim the verbose prompt")

	if !Similar(fp1, fp2, 0) {
		t.Error("identical fingerprints should be similar at threshold 0")
	}

	fp3 := Fingerprint("a completely different text about nothing related")
	dist := Distance(fp1, fp3)

	if Similar(fp1, fp3, dist-1) {
		t.Errorf("different texts should not be similar at threshold %d (distance is %d)", dist-1, dist)
	}
	if !Similar(fp1, fp3, dist) {
		t.Errorf("should be similar at threshold equal to distance (%d)", dist)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	if got := Similarity("keep these words", "keep these words"); got != 1.0 {
		t.Errorf("identical texts scored %v, want 1.0", got)
	}
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("two blank texts scored %v, want 1.0", got)
	}

	got := Similarity(
		"please summarize the quarterly report for the leadership team",
		"entirely disjoint sentence covering gardening tips and recipes",
	)
	if got < 0 || got > 1 {
		t.Errorf("similarity %v out of [0,1]", got)
	}
	if got == 1.0 {
		t.Error("disjoint texts should not score a perfect 1.0")
	}
}

func TestSimilarity_RewriteKeepsProfile(t *testing.T) {
	original := "Please kindly utilize this approach for the report."
	rewritten := "use this approach for the report."

	got := Similarity(original, rewritten)
	if got < 0.5 {
		t.Errorf("a light rewrite scored %v, want >= 0.5", got)
	}
}
