package classifier

import (
	"fmt"

	"github.com/beevik/etree"
)

func (b *builder) predicate(el *etree.Element) (predicate, error) {
	switch el.Tag {
	case "True":
		return func([]float64) bool { return true }, nil
	case "False":
		return func([]float64) bool { return false }, nil
	case "SimplePredicate":
		return b.simplePredicate(el)
	case "CompoundPredicate":
		return b.compoundPredicate(el)
	}
	return nil, fmt.Errorf("%w: predicate %s", ErrUnsupportedModel, el.Tag)
}

func (b *builder) simplePredicate(el *etree.Element) (predicate, error) {
	i, err := b.field(el.SelectAttrValue("field", ""))
	if err != nil {
		return nil, err
	}

	op := el.SelectAttrValue("operator", "")
	// Rows are always complete, so a value is never missing.
	switch op {
	case "isMissing":
		return func([]float64) bool { return false }, nil
	case "isNotMissing":
		return func([]float64) bool { return true }, nil
	}

	x, ok, err := floatAttr(el, "value")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: SimplePredicate %q without value", ErrUnsupportedModel, op)
	}

	switch op {
	case "equal":
		return func(v []float64) bool { return v[i] == x }, nil
	case "notEqual":
		return func(v []float64) bool { return v[i] != x }, nil
	case "lessThan":
		return func(v []float64) bool { return v[i] < x }, nil
	case "lessOrEqual":
		return func(v []float64) bool { return v[i] <= x }, nil
	case "greaterThan":
		return func(v []float64) bool { return v[i] > x }, nil
	case "greaterOrEqual":
		return func(v []float64) bool { return v[i] >= x }, nil
	}
	return nil, fmt.Errorf("%w: SimplePredicate operator %q", ErrUnsupportedModel, op)
}

func (b *builder) compoundPredicate(el *etree.Element) (predicate, error) {
	var parts []predicate
	for _, c := range el.ChildElements() {
		if c.Tag == "Extension" {
			continue
		}
		p, err := b.predicate(c)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty CompoundPredicate", ErrUnsupportedModel)
	}

	switch op := el.SelectAttrValue("booleanOperator", ""); op {
	case "and":
		return func(v []float64) bool {
			for _, p := range parts {
				if !p(v) {
					return false
				}
			}
			return true
		}, nil
	case "or":
		return func(v []float64) bool {
			for _, p := range parts {
				if p(v) {
					return true
				}
			}
			return false
		}, nil
	case "xor":
		return func(v []float64) bool {
			n := 0
			for _, p := range parts {
				if p(v) {
					n++
				}
			}
			return n%2 == 1
		}, nil
	case "surrogate":
		// no value is ever missing, so the primary predicate always decides
		return parts[0], nil
	default:
		return nil, fmt.Errorf("%w: CompoundPredicate operator %q", ErrUnsupportedModel, op)
	}
}
