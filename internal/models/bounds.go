package models

// Range describes the bounds of a numeric form control
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Control bounds rendered by the input form. They are the only place input
// ranges are enforced; the encoder accepts any value.
var (
	LoanAmountRange        = Range{Min: 10000, Max: 5000000, Step: 10000}
	AnnualIncomeRange      = Range{Min: 50000, Max: 10000000, Step: 25000}
	InterestRateRange      = Range{Min: 0.05, Max: 0.30, Step: 0.01}
	DebtToIncomeRatioRange = Range{Min: 0, Max: 60, Step: 0.1}
)
