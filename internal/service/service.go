package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/loan-risk/internal/decision"
	"github.com/Dan9191/loan-risk/internal/encoder"
	"github.com/Dan9191/loan-risk/internal/models"
	"github.com/Dan9191/loan-risk/internal/schema"
	"github.com/sirupsen/logrus"
)

// Classifier is a pre-trained probabilistic binary classifier
type Classifier interface {
	PredictProbability(v []float64) (float64, error)
}

// Service runs the evaluation pipeline. Everything it holds is loaded once
// and never mutated, so one Service serves all requests.
type Service struct {
	schema     *schema.Schema
	classifier Classifier
	threshold  float64
	log        *logrus.Logger
}

// NewService initializes a new service
func NewService(s *schema.Schema, c Classifier, threshold float64, log *logrus.Logger) *Service {
	return &Service{schema: s, classifier: c, threshold: threshold, log: log}
}

// Evaluate encodes the profile, scores it and applies the decision rules
func (s *Service) Evaluate(ctx context.Context, profile models.BorrowerProfile) (models.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return models.PredictionResult{}, err
	}

	start := time.Now()
	vector := encoder.Encode(profile, s.schema)

	probability, err := s.classifier.PredictProbability(vector)
	if err != nil {
		return models.PredictionResult{}, fmt.Errorf("failed to predict default probability: %w", err)
	}

	result := decision.Decide(probability, profile, s.threshold)

	s.log.WithFields(logrus.Fields{
		"probability":  result.Probability,
		"high_risk":    result.IsHighRisk,
		"reason_count": len(result.Reasons),
		"duration":     time.Since(start).String(),
	}).Info("Borrower evaluated")
	s.log.Debugf("Encoded feature vector: %v", vector)

	return result, nil
}

// Threshold returns the probability at or above which a borrower is high risk
func (s *Service) Threshold() float64 {
	return s.threshold
}

// FeatureCount returns the number of encoded features the model expects
func (s *Service) FeatureCount() int {
	return s.schema.Len()
}

// Features returns the ordered feature column names
func (s *Service) Features() []string {
	return s.schema.Columns()
}
