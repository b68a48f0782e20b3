package models

// PredictionResult is the outcome of one evaluation. It is never stored.
type PredictionResult struct {
	Probability float64  `json:"probability"`
	IsHighRisk  bool     `json:"is_high_risk"`
	Reasons     []string `json:"reasons"`
}
