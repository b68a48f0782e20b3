package handler

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/Dan9191/loan-risk/internal/models"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"num": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
}).ParseFS(templateFS, "templates/index.html"))

const failureNotice = "Prediction failed. Please try again later."

// Evaluator runs the evaluation pipeline for one borrower
type Evaluator interface {
	Evaluate(ctx context.Context, profile models.BorrowerProfile) (models.PredictionResult, error)
	Threshold() float64
	FeatureCount() int
	Features() []string
}

type Handler struct {
	svc Evaluator
	log *logrus.Logger
}

func NewHandler(svc Evaluator, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type bounds struct {
	LoanAmount        models.Range
	AnnualIncome      models.Range
	InterestRate      models.Range
	DebtToIncomeRatio models.Range
}

type pageData struct {
	Profile        models.BorrowerProfile
	Bounds         bounds
	Grades         []models.Grade
	HomeOwnerships []models.HomeOwnership
	Terms          []models.Term
	Verifications  []models.Verification
	Threshold      float64
	FeatureCount   int
	Result         *models.PredictionResult
	Error          string
}

func (h *Handler) newPage(profile models.BorrowerProfile) pageData {
	return pageData{
		Profile: profile,
		Bounds: bounds{
			LoanAmount:        models.LoanAmountRange,
			AnnualIncome:      models.AnnualIncomeRange,
			InterestRate:      models.InterestRateRange,
			DebtToIncomeRatio: models.DebtToIncomeRatioRange,
		},
		Grades:         models.Grades,
		HomeOwnerships: models.HomeOwnerships,
		Terms:          models.Terms,
		Verifications:  models.Verifications,
		Threshold:      h.svc.Threshold(),
		FeatureCount:   h.svc.FeatureCount(),
	}
}

// Index renders the input form with default values
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.newPage(models.DefaultBorrowerProfile()))
}

// PredictForm handles a form submission and renders the result
func (h *Handler) PredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := h.newPage(models.DefaultBorrowerProfile())
		page.Error = "Invalid form submission."
		h.render(w, http.StatusBadRequest, page)
		return
	}

	profile, err := profileFromForm(r)
	page := h.newPage(profile)
	if err != nil {
		page.Error = err.Error()
		h.render(w, http.StatusBadRequest, page)
		return
	}

	result, err := h.svc.Evaluate(r.Context(), profile)
	if err != nil {
		h.log.WithError(err).Error("Prediction failed")
		page.Error = failureNotice
		h.render(w, http.StatusInternalServerError, page)
		return
	}

	page.Result = &result
	h.render(w, http.StatusOK, page)
}

type predictResponse struct {
	models.PredictionResult
	Threshold float64 `json:"threshold"`
}

// Predict handles a JSON prediction request. Omitted fields take the form's
// default values.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	profile := models.DefaultBorrowerProfile()
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	result, err := h.svc.Evaluate(r.Context(), profile)
	if err != nil {
		h.log.WithError(err).Error("Prediction failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": failureNotice})
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{PredictionResult: result, Threshold: h.svc.Threshold()})
}

// Schema returns the feature columns the model was trained on
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feature_count": h.svc.FeatureCount(),
		"features":      h.svc.Features(),
	})
}

// Health reports liveness; artifacts are loaded before the server starts
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) render(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, page); err != nil {
		h.log.WithError(err).Error("Failed to render page")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func profileFromForm(r *http.Request) (models.BorrowerProfile, error) {
	p := models.BorrowerProfile{
		Grade:          models.Grade(r.PostFormValue("grade")),
		HomeOwnership:  models.HomeOwnership(r.PostFormValue("home_ownership")),
		Term:           models.Term(r.PostFormValue("term")),
		IncomeVerified: models.Verification(r.PostFormValue("income_verified")),
	}

	fields := []struct {
		name  string
		label string
		dst   *float64
	}{
		{"loan_amount", "Loan amount", &p.LoanAmount},
		{"annual_income", "Annual income", &p.AnnualIncome},
		{"interest_rate", "Interest rate", &p.InterestRate},
		{"debt_to_income_ratio", "Debt-to-income ratio", &p.DebtToIncomeRatio},
	}
	for _, f := range fields {
		raw := r.PostFormValue(f.name)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("%s must be a number, got %q", f.label, raw)
		}
		*f.dst = v
	}

	return p, nil
}
