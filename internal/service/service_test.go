package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/loan-risk/internal/decision"
	"github.com/Dan9191/loan-risk/internal/models"
	"github.com/Dan9191/loan-risk/internal/schema"
)

type stubClassifier struct {
	probability float64
	err         error
	got         []float64
}

func (s *stubClassifier) PredictProbability(v []float64) (float64, error) {
	s.got = v
	return s.probability, s.err
}

func newTestService(t *testing.T, c Classifier) (*Service, *test.Hook) {
	t.Helper()
	s, err := schema.New([]string{"amount", "income", "rate", "debtIncRat", "grade_F", "home_RENT", "term_60 months"})
	require.NoError(t, err)
	log, hook := test.NewNullLogger()
	return NewService(s, c, decision.DefaultThreshold, log), hook
}

func TestEvaluate(t *testing.T) {
	clf := &stubClassifier{probability: 0.55}
	svc, hook := newTestService(t, clf)

	profile := models.BorrowerProfile{
		LoanAmount:        300000,
		AnnualIncome:      200000,
		InterestRate:      0.20,
		DebtToIncomeRatio: 35,
		Grade:             models.GradeF,
		HomeOwnership:     models.HomeRent,
		Term:              models.Term36,
		IncomeVerified:    models.Verified,
	}

	got, err := svc.Evaluate(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, []float64{300000, 200000, 0.20, 35, 1, 1, 0}, clf.got)
	assert.Equal(t, 0.55, got.Probability)
	assert.True(t, got.IsHighRisk)
	assert.Len(t, got.Reasons, 5)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, true, hook.LastEntry().Data["high_risk"])
}

func TestEvaluateClassifierError(t *testing.T) {
	boom := errors.New("boom")
	svc, _ := newTestService(t, &stubClassifier{err: boom})

	_, err := svc.Evaluate(context.Background(), models.DefaultBorrowerProfile())
	assert.ErrorIs(t, err, boom)
}

func TestEvaluateCancelledContext(t *testing.T) {
	clf := &stubClassifier{probability: 0.1}
	svc, _ := newTestService(t, clf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Evaluate(ctx, models.DefaultBorrowerProfile())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, clf.got)
}

func TestAccessors(t *testing.T) {
	svc, _ := newTestService(t, &stubClassifier{})

	assert.Equal(t, 7, svc.FeatureCount())
	assert.Equal(t, "term_60 months", svc.Features()[6])
	assert.Equal(t, 0.40, svc.Threshold())
}
