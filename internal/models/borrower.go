package models

// Grade is the lender-assigned credit grade, A (best) through G.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
	GradeG Grade = "G"
)

// Grades lists the grades offered by the form, best first.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeF, GradeG}

// HomeOwnership is the borrower's housing status.
type HomeOwnership string

const (
	HomeRent     HomeOwnership = "RENT"
	HomeMortgage HomeOwnership = "MORTGAGE"
	HomeOwn      HomeOwnership = "OWN"
)

var HomeOwnerships = []HomeOwnership{HomeRent, HomeMortgage, HomeOwn}

// Term is the loan term label as used by the training data.
type Term string

const (
	Term36 Term = "36 months"
	Term60 Term = "60 months"
)

var Terms = []Term{Term36, Term60}

// Verification is the income verification status.
type Verification string

const (
	Verified    Verification = "Verified"
	NotVerified Verification = "Not Verified"
)

var Verifications = []Verification{Verified, NotVerified}

// BorrowerProfile holds the raw attributes of a single evaluation request
type BorrowerProfile struct {
	LoanAmount        float64       `json:"loan_amount"`
	AnnualIncome      float64       `json:"annual_income"`
	InterestRate      float64       `json:"interest_rate"`        // fraction, e.g. 0.13
	DebtToIncomeRatio float64       `json:"debt_to_income_ratio"` // percentage, e.g. 18
	Grade             Grade         `json:"grade"`
	HomeOwnership     HomeOwnership `json:"home_ownership"`
	Term              Term          `json:"term"`
	IncomeVerified    Verification  `json:"income_verified"`
}

// DefaultBorrowerProfile returns the values the form starts with
func DefaultBorrowerProfile() BorrowerProfile {
	return BorrowerProfile{
		LoanAmount:        150000,
		AnnualIncome:      650000,
		InterestRate:      0.13,
		DebtToIncomeRatio: 18,
		Grade:             GradeA,
		HomeOwnership:     HomeRent,
		Term:              Term36,
		IncomeVerified:    Verified,
	}
}
