package retrieval

import (
	"context"
	"testing"

	"github.com/shoplite/storeassist/internal/domain/document"
	"github.com/shoplite/storeassist/internal/domain/language"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	"github.com/shoplite/storeassist/internal/knowledge"
)

func keywordSnapshot(t *testing.T, docs ...document.Document) *Snapshot {
	t.Helper()
	store, err := knowledge.NewStore(docs)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return &Snapshot{Store: store}
}

func TestKeywordStrategyWeights(t *testing.T) {
	snap := keywordSnapshot(t,
		mustDoc(t, "both", "refund rules", "our refund process is simple"),
		mustDoc(t, "content", "general info", "ask about a refund anytime"),
		mustDoc(t, "title", "refund", "nothing relevant here"),
		mustDoc(t, "none", "shipping", "delivery times vary"),
	)
	strat := NewKeywordStrategy(DefaultKeywordThreshold, domret.DefaultKeywordCalibration())

	hits, err := strat.Score(context.Background(), snap, "refund", 10)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	want := []struct {
		id    string
		score float64
	}{
		{"both", 5},
		{"title", 3},
		{"content", 2},
	}
	if len(hits) != len(want) {
		t.Fatalf("len(hits) = %d, want %d", len(hits), len(want))
	}
	for i, w := range want {
		if hits[i].Document().ID() != w.id || hits[i].Score() != w.score {
			t.Errorf("hits[%d] = (%s, %f), want (%s, %f)",
				i, hits[i].Document().ID(), hits[i].Score(), w.id, w.score)
		}
	}
}

func TestKeywordStrategyTieBreaksByPosition(t *testing.T) {
	snap := keywordSnapshot(t,
		mustDoc(t, "first", "orders", "cancel an order"),
		mustDoc(t, "second", "orders", "change an order"),
	)
	strat := NewKeywordStrategy(DefaultKeywordThreshold, domret.DefaultKeywordCalibration())

	hits, err := strat.Score(context.Background(), snap, "orders", 5)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].Document().ID() != "first" || hits[1].Document().ID() != "second" {
		t.Errorf("tie order = %s, %s; want first, second",
			hits[0].Document().ID(), hits[1].Document().ID())
	}
}

func TestKeywordStrategyTopKTruncates(t *testing.T) {
	snap := keywordSnapshot(t,
		mustDoc(t, "a", "refund", "refund"),
		mustDoc(t, "b", "refund", "refund"),
		mustDoc(t, "c", "refund", "refund"),
	)
	strat := NewKeywordStrategy(DefaultKeywordThreshold, domret.DefaultKeywordCalibration())

	hits, err := strat.Score(context.Background(), snap, "refund", 2)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("len(hits) = %d, want 2", len(hits))
	}
}

func TestKeywordStrategyNoMatchesAndEmptyQuery(t *testing.T) {
	snap := keywordSnapshot(t, mustDoc(t, "a", "shipping", "delivery times"))
	strat := NewKeywordStrategy(DefaultKeywordThreshold, domret.DefaultKeywordCalibration())

	hits, err := strat.Score(context.Background(), snap, "unrelated words", 5)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits) = %d, want 0", len(hits))
	}

	hits, err = strat.Score(context.Background(), snap, "   ", 5)
	if err != nil {
		t.Fatalf("Score(blank): %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("blank query: len(hits) = %d, want 0", len(hits))
	}
}

func TestKeywordStrategyMatchesArabicContent(t *testing.T) {
	doc, err := document.New("Policy3.1", "Return Policy", map[language.Tag]string{
		language.English: "Items can be returned within 30 days.",
		language.Arabic:  "يمكن إرجاع المنتجات خلال 30 يومًا.",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := keywordSnapshot(t, doc)
	strat := NewKeywordStrategy(DefaultKeywordThreshold, domret.DefaultKeywordCalibration())

	hits, err := strat.Score(context.Background(), snap, "إرجاع", 5)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}
	if hits[0].Score() != keywordContentWeight {
		t.Errorf("score = %f, want %d", hits[0].Score(), keywordContentWeight)
	}
}
