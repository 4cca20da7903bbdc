package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain"
	"github.com/shoplite/storeassist/internal/domain/language"
	domret "github.com/shoplite/storeassist/internal/domain/retrieval"
	logpkg "github.com/shoplite/storeassist/internal/logger"
	"github.com/shoplite/storeassist/internal/metrics"
)

// DefaultTopK bounds the number of hits per retrieval call.
const DefaultTopK = 5

// Engine orchestrates scoring, threshold filtering, the query-expansion
// fallback, and confidence calibration. It is stateless per call; the
// snapshot pointer is the only shared state and is swapped atomically on
// reindex, so concurrent queries need no locks.
type Engine struct {
	strategy Strategy
	expander *Expander
	topK     int
	logger   *zap.Logger

	snap atomic.Pointer[Snapshot]
}

// New creates a retrieval engine over an initial snapshot.
func New(strategy Strategy, expander *Expander, snap *Snapshot, topK int, logger *zap.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	e := &Engine{strategy: strategy, expander: expander, topK: topK, logger: logger}
	e.snap.Store(snap)
	return e
}

// Swap atomically replaces the snapshot. In-flight queries keep reading the
// snapshot they started with.
func (e *Engine) Swap(snap *Snapshot) {
	e.snap.Store(snap)
}

// Current returns the active snapshot.
func (e *Engine) Current() *Snapshot {
	return e.snap.Load()
}

// Strategy returns the configured scoring strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// DocumentCount reports the size of the active knowledge base.
func (e *Engine) DocumentCount() int {
	return e.snap.Load().Store.Len()
}

// Retrieve turns a raw query into a retrieval outcome. topK <= 0 uses the
// engine default. All failures degrade to an outcome; Retrieve never returns
// an error because retrieval is advisory to the answer pipeline.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) domret.Outcome {
	query = strings.TrimSpace(query)
	if query == "" {
		// Skip the provider entirely: nothing to embed, nothing to match.
		return e.finish(domret.InsufficientContext())
	}
	if topK <= 0 {
		topK = e.topK
	}

	snap := e.snap.Load()

	hits, err := e.strategy.Score(ctx, snap, query, topK)
	if err != nil {
		logpkg.FromContext(ctx, e.logger).Warn("Direct retrieval failed",
			zap.String("strategy", e.strategy.Name()), zap.Error(err))
		return e.finish(domret.ProviderFailure(err))
	}
	if len(hits) > 0 {
		return e.finish(domret.HitsOutcome(hits, e.strategy.Calibration().LabelHits(hits), false))
	}

	return e.finish(e.expandAndMerge(ctx, snap, query, topK))
}

// expandAndMerge runs retrieval once per expansion candidate and merges by
// best evidence: each document keeps the maximum score seen across all
// candidates. Summing would inflate generic synonyms that match everything.
func (e *Engine) expandAndMerge(ctx context.Context, snap *Snapshot, query string, topK int) domret.Outcome {
	lang := language.Detect(query)
	candidates := e.expander.Expand(query, lang)

	type best struct {
		hit domret.Hit
		pos int
	}
	merged := make(map[string]best)
	var failures int

	for _, candidate := range candidates {
		hits, err := e.strategy.Score(ctx, snap, candidate, topK)
		if err != nil {
			failures++
			logpkg.FromContext(ctx, e.logger).Warn("Expansion candidate failed",
				zap.String("candidate", candidate), zap.Error(err))
			continue
		}
		for _, h := range hits {
			id := h.Document().ID()
			if prev, ok := merged[id]; ok && prev.hit.Score() >= h.Score() {
				continue
			}
			pos, _ := snap.Store.PositionOf(id)
			merged[id] = best{hit: h, pos: pos}
		}
	}

	if len(merged) == 0 {
		metrics.RetrievalExpansionTotal.WithLabelValues("empty").Inc()
		if failures > 0 && failures == len(candidates) {
			return domret.ProviderFailure(domain.ErrEmbeddingProviderError)
		}
		return domret.InsufficientContext()
	}
	metrics.RetrievalExpansionTotal.WithLabelValues("recovered").Inc()

	ordered := make([]best, 0, len(merged))
	for _, b := range merged {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].hit.Score() != ordered[j].hit.Score() {
			return ordered[i].hit.Score() > ordered[j].hit.Score()
		}
		return ordered[i].pos < ordered[j].pos
	})
	// Both paths honor the caller's topK: per-candidate searches can surface
	// more distinct documents than any single search, so the merged set is
	// cut back to the same bound the direct path returns.
	if len(ordered) > topK {
		ordered = ordered[:topK]
	}

	hits := make([]domret.Hit, len(ordered))
	for i, b := range ordered {
		hits[i] = b.hit
	}

	return domret.HitsOutcome(hits, e.strategy.Calibration().LabelHits(hits), true)
}

// finish records metrics for an outcome and passes it through.
func (e *Engine) finish(out domret.Outcome) domret.Outcome {
	metrics.RetrievalRequestsTotal.WithLabelValues(e.strategy.Name(), string(out.Kind())).Inc()
	if hits := out.Hits(); len(hits) > 0 {
		metrics.RetrievalTopScore.WithLabelValues(e.strategy.Name()).Observe(hits[0].Score())
	}
	return out
}
