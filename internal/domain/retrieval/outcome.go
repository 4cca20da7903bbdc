package retrieval

// OutcomeKind distinguishes the ways a retrieval call can end. Callers branch
// on the kind instead of inferring state from an empty slice.
type OutcomeKind string

const (
	// OutcomeHits means at least one document scored above the threshold.
	OutcomeHits OutcomeKind = "hits"
	// OutcomeInsufficientContext means direct and expanded retrieval both came
	// up empty. This is a normal, reportable condition, not a failure.
	OutcomeInsufficientContext OutcomeKind = "insufficient_context"
	// OutcomeProviderError means the embedding provider failed. Retrieval
	// degrades to no hits; the pipeline must not abort.
	OutcomeProviderError OutcomeKind = "provider_error"
)

// Outcome is the result of a retrieval call: ranked hits, a confidence label,
// and the kind that produced them.
type Outcome struct {
	kind       OutcomeKind
	hits       []Hit
	confidence Confidence
	expanded   bool
	err        error
}

// HitsOutcome creates a successful outcome with ranked hits.
// expanded marks results recovered through the query-expansion fallback.
func HitsOutcome(hits []Hit, confidence Confidence, expanded bool) Outcome {
	return Outcome{kind: OutcomeHits, hits: hits, confidence: confidence, expanded: expanded}
}

// InsufficientContext creates the empty outcome.
func InsufficientContext() Outcome {
	return Outcome{kind: OutcomeInsufficientContext, confidence: ConfidenceLow}
}

// ProviderFailure creates an outcome for an embedding provider error.
func ProviderFailure(err error) Outcome {
	return Outcome{kind: OutcomeProviderError, confidence: ConfidenceLow, err: err}
}

// Kind returns the outcome kind.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Hits returns the ranked hits (nil unless Kind is OutcomeHits).
func (o Outcome) Hits() []Hit { return o.hits }

// Confidence returns the calibrated confidence label.
func (o Outcome) Confidence() Confidence { return o.confidence }

// Expanded reports whether the query-expansion fallback produced the hits.
func (o Outcome) Expanded() bool { return o.expanded }

// Err returns the underlying provider error, if any.
func (o Outcome) Err() error { return o.err }

// Empty reports whether the outcome carries no usable hits.
func (o Outcome) Empty() bool { return len(o.hits) == 0 }
