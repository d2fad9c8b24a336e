package model

// MatchCandidate pairs a lost report with a found report. It is computed on
// demand and never persisted.
type MatchCandidate struct {
	Lost       Item       `json:"lost"`
	Found      Item       `json:"found"`
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
}

// Confidence is a display label derived from a match score.
type Confidence string

// Confidence labels.
const (
	ConfidenceExcellent Confidence = "excellent"
	ConfidenceGood      Confidence = "good"
	ConfidencePossible  Confidence = "possible"
	ConfidenceLow       Confidence = "low"
)

// ConfidenceFor maps a 0-100 match score to its label.
func ConfidenceFor(score int) Confidence {
	switch {
	case score >= 80:
		return ConfidenceExcellent
	case score >= 60:
		return ConfidenceGood
	case score >= 40:
		return ConfidencePossible
	default:
		return ConfidenceLow
	}
}
