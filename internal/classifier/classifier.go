// Package classifier loads a pre-trained binary classifier exported as PMML
// and scores feature vectors with it.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

var (
	ErrUnsupportedModel = errors.New("unsupported PMML model")
	ErrUnknownField     = errors.New("model field is not a feature column")
	ErrDimension        = errors.New("feature vector does not match model input")
	ErrNoPrediction     = errors.New("model produced no prediction")
)

// Columns resolves model field names to feature vector positions.
type Columns interface {
	ColumnIndex(name string) (int, bool)
	Len() int
}

// scorer returns the probability of the positive class for one row.
type scorer interface {
	probability(v []float64) (float64, error)
}

// Model is a loaded classifier. It is immutable and safe for concurrent use.
type Model struct {
	kind  string
	width int
	root  scorer
}

// Load reads a PMML document from disk and binds its fields to columns.
func Load(path string, cols Columns, positiveClass string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	m, err := Parse(b, cols, positiveClass)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	return m, nil
}

// Parse builds a Model from PMML bytes.
func Parse(pmml []byte, cols Columns, positiveClass string) (*Model, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(pmml); err != nil {
		return nil, fmt.Errorf("failed to parse PMML: %w", err)
	}

	root := doc.SelectElement("PMML")
	if root == nil {
		return nil, fmt.Errorf("%w: missing PMML root element", ErrUnsupportedModel)
	}

	b := &builder{cols: cols, positive: positiveClass}
	for _, el := range root.ChildElements() {
		if !isModelElement(el.Tag) {
			continue
		}
		s, err := b.model(el)
		if err != nil {
			return nil, err
		}
		return &Model{kind: el.Tag, width: cols.Len(), root: s}, nil
	}

	return nil, fmt.Errorf("%w: no model element found", ErrUnsupportedModel)
}

// Kind returns the PMML element name of the top-level model.
func (m *Model) Kind() string {
	return m.kind
}

// PredictProbability returns the probability of the positive class, in [0, 1].
func (m *Model) PredictProbability(v []float64) (float64, error) {
	if len(v) != m.width {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrDimension, len(v), m.width)
	}
	p, err := m.root.probability(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: probability is NaN", ErrNoPrediction)
	}
	return math.Min(1, math.Max(0, p)), nil
}

func isModelElement(tag string) bool {
	switch tag {
	case "TreeModel", "MiningModel", "RegressionModel":
		return true
	}
	return false
}

type builder struct {
	cols     Columns
	positive string
}

func (b *builder) model(el *etree.Element) (scorer, error) {
	if fn := el.SelectAttrValue("functionName", "classification"); fn != "classification" {
		return nil, fmt.Errorf("%w: %s has functionName %q", ErrUnsupportedModel, el.Tag, fn)
	}

	switch el.Tag {
	case "TreeModel":
		return b.tree(el)
	case "MiningModel":
		return b.ensemble(el)
	case "RegressionModel":
		return b.regression(el)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, el.Tag)
}

func (b *builder) field(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty field name", ErrUnsupportedModel)
	}
	i, ok := b.cols.ColumnIndex(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return i, nil
}

func floatAttr(el *etree.Element, key string) (float64, bool, error) {
	a := el.SelectAttr(key)
	if a == nil {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s %s=%q is not a number", ErrUnsupportedModel, el.Tag, key, a.Value)
	}
	return f, true, nil
}
