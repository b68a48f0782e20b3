package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = []string{
	"amount", "income", "rate", "debtIncRat",
	"grade_B", "grade_C", "grade_D", "grade_E", "grade_F", "grade_G",
	"home_OWN", "home_RENT",
	"term_60 months",
	"verified_Verified",
}

func TestNew(t *testing.T) {
	s, err := New(testColumns)
	require.NoError(t, err)

	assert.Equal(t, len(testColumns), s.Len())
	assert.Equal(t, testColumns, s.Columns())

	i, ok := s.NumericIndex(AttrDebtToIncome)
	require.True(t, ok)
	assert.Equal(t, 3, i)

	i, ok = s.CategoryIndex(AttrTerm, "60 months")
	require.True(t, ok)
	assert.Equal(t, 12, i)

	_, ok = s.CategoryIndex(AttrGrade, "A")
	assert.False(t, ok, "dropped baseline category must have no column")

	_, ok = s.CategoryIndex(AttrHome, "MORTGAGE")
	assert.False(t, ok)

	assert.Equal(t, []int{10, 11}, s.AttributeColumns(AttrHome))
	assert.Empty(t, s.AttributeColumns("unknown"))
}

func TestNewColumnsAreCopied(t *testing.T) {
	cols := []string{"amount", "grade_A"}
	s, err := New(cols)
	require.NoError(t, err)

	cols[0] = "changed"
	assert.Equal(t, "amount", s.Columns()[0])

	out := s.Columns()
	out[1] = "changed"
	assert.Equal(t, "grade_A", s.Columns()[1])
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = New([]string{"amount", "grade_A", "amount"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestNewMissingNumericColumn(t *testing.T) {
	s, err := New([]string{"income", "grade_A"})
	require.NoError(t, err)

	_, ok := s.NumericIndex(AttrAmount)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "feature_names.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`["amount", "income", "grade_B", "term_60 months"]`), 0600))

	s, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	yamlPath := filepath.Join(dir, "feature_names.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- amount\n- home_RENT\n- verified_Not Verified\n"), 0600))

	s, err = Load(yamlPath)
	require.NoError(t, err)
	i, ok := s.CategoryIndex(AttrVerified, "Not Verified")
	require.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"amount": 1}`), 0600))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0600))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmpty)
}
