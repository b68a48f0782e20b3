// Package decision turns a default probability into a risk verdict with
// human-readable reasons.
package decision

import (
	"github.com/Dan9191/loan-risk/internal/models"
)

// DefaultThreshold is the risk-averse cut-off: probabilities at or above it
// are classified as high risk.
const DefaultThreshold = 0.40

// StableProfileMessage is reported when no rule matches.
const StableProfileMessage = "Borrower profile looks relatively stable based on key indicators."

// Rule pairs a predicate over the raw profile with the reason it reports.
type Rule struct {
	Name    string
	Matches func(p models.BorrowerProfile) bool
	Reason  string
}

// Rules are heuristic commentary evaluated in order. They are independent of
// the classifier and may disagree with it.
var Rules = []Rule{
	{
		Name:    "high_dti",
		Matches: func(p models.BorrowerProfile) bool { return p.DebtToIncomeRatio > 30 },
		Reason:  "High debt-to-income ratio increases default risk.",
	},
	{
		Name:    "high_rate",
		Matches: func(p models.BorrowerProfile) bool { return p.InterestRate > 0.18 },
		Reason:  "Higher interest rates make repayment harder.",
	},
	{
		Name:    "low_income",
		Matches: func(p models.BorrowerProfile) bool { return p.AnnualIncome < 300000 },
		Reason:  "Lower income reduces repayment capacity.",
	},
	{
		Name: "low_grade",
		Matches: func(p models.BorrowerProfile) bool {
			switch p.Grade {
			case models.GradeE, models.GradeF, models.GradeG:
				return true
			}
			return false
		},
		Reason: "Lower credit grade is associated with higher risk.",
	},
	{
		Name:    "renting",
		Matches: func(p models.BorrowerProfile) bool { return p.HomeOwnership == models.HomeRent },
		Reason:  "Renting (vs owning) is slightly riskier on average.",
	},
}

// Decide applies the threshold (inclusive) and collects the reasons of every
// matching rule.
func Decide(probability float64, p models.BorrowerProfile, threshold float64) models.PredictionResult {
	return models.PredictionResult{
		Probability: probability,
		IsHighRisk:  probability >= threshold,
		Reasons:     Reasons(p),
	}
}

// Reasons returns the matching rule reasons in rule order, or the stable
// profile message when none match.
func Reasons(p models.BorrowerProfile) []string {
	var reasons []string
	for _, r := range Rules {
		if r.Matches(p) {
			reasons = append(reasons, r.Reason)
		}
	}
	if len(reasons) == 0 {
		return []string{StableProfileMessage}
	}
	return reasons
}
