package classifier

import (
	"fmt"
	"math"

	"github.com/beevik/etree"
)

type term struct {
	index       int
	coefficient float64
	exponent    float64
}

type regressionTable struct {
	intercept float64
	terms     []term
}

func (t regressionTable) value(v []float64) float64 {
	y := t.intercept
	for _, tm := range t.terms {
		x := v[tm.index]
		if tm.exponent != 1 {
			x = math.Pow(x, tm.exponent)
		}
		y += tm.coefficient * x
	}
	return y
}

// regression is a classification RegressionModel such as an exported
// logistic regression. Tables keep document order: under logit and none
// normalization the last table is not scored and takes the complement of
// the others.
type regression struct {
	normalization string
	tables        []regressionTable
	positive      int
}

func (r *regression) probability(v []float64) (float64, error) {
	switch r.normalization {
	case "softmax":
		// shifted by the positive score to keep exp in range
		y := r.tables[r.positive].value(v)
		denom := 0.0
		for _, t := range r.tables {
			denom += math.Exp(t.value(v) - y)
		}
		return 1 / denom, nil
	case "logit", "none":
		last := len(r.tables) - 1
		if r.positive != last {
			return r.normalize(r.tables[r.positive].value(v)), nil
		}
		sum := 0.0
		for _, t := range r.tables[:last] {
			sum += r.normalize(t.value(v))
		}
		return 1 - sum, nil
	}
	return 0, fmt.Errorf("%w: normalizationMethod %q", ErrUnsupportedModel, r.normalization)
}

func (r *regression) normalize(y float64) float64 {
	if r.normalization == "logit" {
		return 1 / (1 + math.Exp(-y))
	}
	return y
}

func (b *builder) regression(el *etree.Element) (scorer, error) {
	r := &regression{normalization: el.SelectAttrValue("normalizationMethod", "none"), positive: -1}
	switch r.normalization {
	case "logit", "softmax", "none":
	default:
		return nil, fmt.Errorf("%w: normalizationMethod %q", ErrUnsupportedModel, r.normalization)
	}

	for _, tEl := range el.SelectElements("RegressionTable") {
		t, err := b.regressionTable(tEl)
		if err != nil {
			return nil, err
		}
		if tEl.SelectAttrValue("targetCategory", "") == b.positive {
			r.positive = len(r.tables)
		}
		r.tables = append(r.tables, t)
	}

	if len(r.tables) < 2 {
		return nil, fmt.Errorf("%w: classification needs at least two RegressionTables, got %d", ErrUnsupportedModel, len(r.tables))
	}
	if r.positive < 0 {
		return nil, fmt.Errorf("%w: no RegressionTable for class %q", ErrUnsupportedModel, b.positive)
	}
	return r, nil
}

func (b *builder) regressionTable(el *etree.Element) (regressionTable, error) {
	var t regressionTable

	intercept, _, err := floatAttr(el, "intercept")
	if err != nil {
		return t, err
	}
	t.intercept = intercept

	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "NumericPredictor":
			i, err := b.field(c.SelectAttrValue("name", ""))
			if err != nil {
				return t, err
			}
			coef, ok, err := floatAttr(c, "coefficient")
			if err != nil {
				return t, err
			}
			if !ok {
				return t, fmt.Errorf("%w: NumericPredictor without coefficient", ErrUnsupportedModel)
			}
			exp, ok, err := floatAttr(c, "exponent")
			if err != nil {
				return t, err
			}
			if !ok {
				exp = 1
			}
			t.terms = append(t.terms, term{index: i, coefficient: coef, exponent: exp})
		case "Extension":
		default:
			return t, fmt.Errorf("%w: regression predictor %s", ErrUnsupportedModel, c.Tag)
		}
	}
	return t, nil
}
