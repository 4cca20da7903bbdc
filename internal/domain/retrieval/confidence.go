package retrieval

// Confidence is a coarse label for how trustworthy the top hit is.
type Confidence string

const (
	// ConfidenceHigh indicates a strong top match.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium indicates a usable but uncertain match.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow indicates a weak match or no hits at all.
	ConfidenceLow Confidence = "low"
)

// Calibration maps a top score to a confidence label. Each scoring strategy
// carries its own calibration: vector similarity and keyword overlap produce
// different numeric ranges and must not share boundaries.
type Calibration struct {
	High   float64
	Medium float64
}

// DefaultVectorCalibration is tuned for cosine similarity on normalized vectors.
func DefaultVectorCalibration() Calibration {
	return Calibration{High: 0.6, Medium: 0.4}
}

// DefaultKeywordCalibration is tuned for keyword-overlap counts.
func DefaultKeywordCalibration() Calibration {
	return Calibration{High: 5, Medium: 2}
}

// Label converts a top score to a confidence label.
func (c Calibration) Label(topScore float64) Confidence {
	switch {
	case topScore >= c.High:
		return ConfidenceHigh
	case topScore >= c.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// LabelHits labels the best hit of a ranked list, or low when the list is empty.
func (c Calibration) LabelHits(hits []Hit) Confidence {
	if len(hits) == 0 {
		return ConfidenceLow
	}
	return c.Label(hits[0].Score())
}
