package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/shoplite/storeassist/internal/domain/language"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
)

// Keyword-overlap scoring weights and minimum score.
const (
	keywordContentWeight    = 2
	keywordTitleWeight      = 3
	DefaultKeywordThreshold = 1
)

// KeywordStrategy scores queries by word overlap against document titles and
// content. It needs no embedding provider, which makes it a cheap deployment
// mode and the fallback when no provider is configured.
type KeywordStrategy struct {
	threshold   float64
	calibration domret.Calibration
}

// NewKeywordStrategy creates the keyword-overlap scoring strategy.
func NewKeywordStrategy(threshold float64, cal domret.Calibration) *KeywordStrategy {
	return &KeywordStrategy{threshold: threshold, calibration: cal}
}

// Name implements Strategy.
func (k *KeywordStrategy) Name() string { return "keyword" }

// Calibration implements Strategy.
func (k *KeywordStrategy) Calibration() domret.Calibration { return k.calibration }

// Score counts query-word occurrences: each word found in the content scores
// 2, in the title 3. Documents below the threshold are dropped; results sort
// by score descending with ties broken by ascending document position.
func (k *KeywordStrategy) Score(
	_ context.Context, snap *Snapshot, query string, topK int,
) ([]domret.Hit, error) {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil, nil
	}
	lang := language.Detect(query)

	type scored struct {
		pos   int
		score float64
	}
	var matches []scored

	for pos, doc := range snap.Store.Documents() {
		content := strings.ToLower(doc.ContentFor(lang))
		title := strings.ToLower(doc.Title())

		var score float64
		for _, w := range words {
			if strings.Contains(content, w) {
				score += keywordContentWeight
			}
			if strings.Contains(title, w) {
				score += keywordTitleWeight
			}
		}
		if score >= k.threshold {
			matches = append(matches, scored{pos: pos, score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].pos < matches[j].pos
	})

	if topK >= 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	hits := make([]domret.Hit, 0, len(matches))
	for _, m := range matches {
		doc, _ := snap.Store.At(m.pos)
		hits = append(hits, domret.NewHit(doc, m.score))
	}
	return hits, nil
}
