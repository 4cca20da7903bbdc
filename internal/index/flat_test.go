package index

import (
	"errors"
	"math"
	"testing"

	"github.com/shoplite/storeassist/internal/domain"
)

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil, 3)
	if !errors.Is(err, domain.ErrEmptyKnowledgeBase) {
		t.Fatalf("expected ErrEmptyKnowledgeBase, got %v", err)
	}
}

func TestBuild_DimensionMismatch(t *testing.T) {
	vecs := [][]float32{{1, 0, 0}, {1, 0}}
	_, err := Build(vecs, 3)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestBuild_InvalidDim(t *testing.T) {
	_, err := Build([][]float32{{1}}, 0)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	idx, err := Build(vecs, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got, err := idx.Search([]float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Position != 1 || got[0].Score < 0.99 {
		t.Errorf("top entry: got position %d score %v", got[0].Position, got[0].Score)
	}
}

func TestSearch_NonIncreasingScores(t *testing.T) {
	vecs := [][]float32{
		Normalize([]float32{1, 2, 0}),
		Normalize([]float32{2, 1, 0}),
		Normalize([]float32{0, 1, 1}),
		Normalize([]float32{1, 1, 1}),
	}
	idx, err := Build(vecs, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got, err := idx.Search(Normalize([]float32{1, 1, 0}), 4)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("scores increase at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestSearch_TiesByInsertionOrder(t *testing.T) {
	// Identical vectors score identically; insertion order must decide.
	v := []float32{0, 1, 0}
	idx, err := Build([][]float32{v, v, v}, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got, err := idx.Search(v, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for i, e := range got {
		if e.Position != i {
			t.Errorf("entry %d: got position %d", i, e.Position)
		}
	}
}

func TestSearch_QueryDimMismatch(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}}, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := idx.Search([]float32{1, 0, 0}, 1); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_TopKLargerThanIndex(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}, {0, 1}}, 2)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got, err := idx.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected all 2 entries, got %d", len(got))
	}
}

func TestNormalize_UnitLength(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("norm^2 = %v, want 1", sum)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	for i, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			t.Fatalf("component %d is %v", i, x)
		}
	}
}
