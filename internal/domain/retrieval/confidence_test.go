package retrieval

import (
	"testing"

	"github.com/shoplite/storeassist/internal/domain/document"
)

func TestCalibration_Label(t *testing.T) {
	cal := DefaultVectorCalibration()

	cases := []struct {
		score float64
		want  Confidence
	}{
		{0.95, ConfidenceHigh},
		{0.6, ConfidenceHigh},
		{0.59, ConfidenceMedium},
		{0.4, ConfidenceMedium},
		{0.39, ConfidenceLow},
		{0.0, ConfidenceLow},
		{-0.2, ConfidenceLow},
	}

	for _, tc := range cases {
		if got := cal.Label(tc.score); got != tc.want {
			t.Errorf("Label(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

// Labels must not change between two scores unless a boundary lies between them.
func TestCalibration_MonotonicInScore(t *testing.T) {
	cal := Calibration{High: 0.6, Medium: 0.4}

	prev := cal.Label(0)
	rank := map[Confidence]int{ConfidenceLow: 0, ConfidenceMedium: 1, ConfidenceHigh: 2}
	for s := 0.0; s <= 1.0; s += 0.01 {
		cur := cal.Label(s)
		if rank[cur] < rank[prev] {
			t.Fatalf("label degraded from %q to %q as score rose to %v", prev, cur, s)
		}
		prev = cur
	}
}

func TestCalibration_LabelHits_Empty(t *testing.T) {
	cal := DefaultVectorCalibration()
	if got := cal.LabelHits(nil); got != ConfidenceLow {
		t.Errorf("empty hits: got %q, want %q", got, ConfidenceLow)
	}
}

func TestCalibration_LabelHits_UsesTopHit(t *testing.T) {
	cal := DefaultVectorCalibration()
	doc := document.Reconstruct("d", "t", nil)
	hits := []Hit{NewHit(doc, 0.7), NewHit(doc, 0.1)}
	if got := cal.LabelHits(hits); got != ConfidenceHigh {
		t.Errorf("got %q, want %q", got, ConfidenceHigh)
	}
}

func TestKeywordCalibration_IndependentBoundaries(t *testing.T) {
	cal := DefaultKeywordCalibration()
	if got := cal.Label(5); got != ConfidenceHigh {
		t.Errorf("score 5: got %q, want %q", got, ConfidenceHigh)
	}
	if got := cal.Label(3); got != ConfidenceMedium {
		t.Errorf("score 3: got %q, want %q", got, ConfidenceMedium)
	}
	if got := cal.Label(1); got != ConfidenceLow {
		t.Errorf("score 1: got %q, want %q", got, ConfidenceLow)
	}
}
