// Package schema holds the ordered feature columns a trained model expects
// and the lookup used to place borrower attributes into them.
package schema

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Attribute keys as named by the training pipeline.
const (
	AttrAmount       = "amount"
	AttrIncome       = "income"
	AttrRate         = "rate"
	AttrDebtToIncome = "debtIncRat"
	AttrGrade        = "grade"
	AttrHome         = "home"
	AttrTerm         = "term"
	AttrVerified     = "verified"
)

// NumericAttributes pass through the encoder unchanged.
var NumericAttributes = []string{AttrAmount, AttrIncome, AttrRate, AttrDebtToIncome}

// CategoricalAttributes are one-hot expanded into "{attribute}_{value}" columns.
var CategoricalAttributes = []string{AttrGrade, AttrHome, AttrTerm, AttrVerified}

var (
	ErrEmpty           = errors.New("feature schema is empty")
	ErrDuplicateColumn = errors.New("duplicate feature column")
)

// Schema is the immutable, ordered list of columns plus the
// (attribute, category) -> column lookup built from it.
type Schema struct {
	columns     []string
	byName      map[string]int
	numeric     map[string]int
	categorical map[string]map[string]int
}

// New builds a schema from ordered column names.
func New(columns []string) (*Schema, error) {
	if len(columns) == 0 {
		return nil, ErrEmpty
	}

	s := &Schema{
		columns:     append([]string(nil), columns...),
		byName:      make(map[string]int, len(columns)),
		numeric:     make(map[string]int, len(NumericAttributes)),
		categorical: make(map[string]map[string]int, len(CategoricalAttributes)),
	}

	for i, col := range s.columns {
		if _, dup := s.byName[col]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col)
		}
		s.byName[col] = i
	}

	for _, attr := range NumericAttributes {
		if i, ok := s.byName[attr]; ok {
			s.numeric[attr] = i
		}
	}

	for i, col := range s.columns {
		for _, attr := range CategoricalAttributes {
			prefix := attr + "_"
			if !strings.HasPrefix(col, prefix) {
				continue
			}
			if s.categorical[attr] == nil {
				s.categorical[attr] = make(map[string]int)
			}
			s.categorical[attr][strings.TrimPrefix(col, prefix)] = i
			break
		}
	}

	return s, nil
}

// Load reads a schema artifact: a JSON or YAML list of column names.
func Load(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature schema %s: %w", path, err)
	}

	var columns []string
	if err := yaml.Unmarshal(b, &columns); err != nil {
		return nil, fmt.Errorf("failed to parse feature schema %s: %w", path, err)
	}

	s, err := New(columns)
	if err != nil {
		return nil, fmt.Errorf("invalid feature schema %s: %w", path, err)
	}
	return s, nil
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the ordered column names.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// ColumnIndex returns the position of a named column.
func (s *Schema) ColumnIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// NumericIndex returns the column of a numeric attribute, if the schema has one.
func (s *Schema) NumericIndex(attr string) (int, bool) {
	i, ok := s.numeric[attr]
	return i, ok
}

// CategoryIndex returns the indicator column for attr=value. Pairs the model
// was never trained on report false and contribute nothing.
func (s *Schema) CategoryIndex(attr, value string) (int, bool) {
	i, ok := s.categorical[attr][value]
	return i, ok
}

// AttributeColumns returns the indicator columns of a categorical attribute,
// in schema order.
func (s *Schema) AttributeColumns(attr string) []int {
	var out []int
	for _, i := range s.categorical[attr] {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}
