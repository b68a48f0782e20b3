// Package encoder turns a borrower profile into a model-ready feature vector.
package encoder

import (
	"github.com/Dan9191/loan-risk/internal/models"
	"github.com/Dan9191/loan-risk/internal/schema"
)

// FeatureVector is one row aligned to a schema: same length, same column order.
type FeatureVector []float64

// Encode places numeric attributes in their columns and sets one indicator
// per categorical attribute. Columns the profile does not produce stay 0;
// values the schema has no column for are dropped.
func Encode(p models.BorrowerProfile, s *schema.Schema) FeatureVector {
	v := make(FeatureVector, s.Len())

	numeric := map[string]float64{
		schema.AttrAmount:       p.LoanAmount,
		schema.AttrIncome:       p.AnnualIncome,
		schema.AttrRate:         p.InterestRate,
		schema.AttrDebtToIncome: p.DebtToIncomeRatio,
	}
	for attr, value := range numeric {
		if i, ok := s.NumericIndex(attr); ok {
			v[i] = value
		}
	}

	categorical := map[string]string{
		schema.AttrGrade:    string(p.Grade),
		schema.AttrHome:     string(p.HomeOwnership),
		schema.AttrTerm:     string(p.Term),
		schema.AttrVerified: string(p.IncomeVerified),
	}
	for attr, value := range categorical {
		if i, ok := s.CategoryIndex(attr, value); ok {
			v[i] = 1
		}
	}

	return v
}
