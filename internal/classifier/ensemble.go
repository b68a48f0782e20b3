package classifier

import (
	"fmt"

	"github.com/beevik/etree"
)

type segment struct {
	when   predicate
	weight float64
	model  scorer
}

// ensemble is a MiningModel segmentation; a random forest is exported as an
// average over its trees.
type ensemble struct {
	method   string
	segments []segment
}

func (e *ensemble) probability(v []float64) (float64, error) {
	var sum, weights float64
	for _, s := range e.segments {
		if !s.when(v) {
			continue
		}
		p, err := s.model.probability(v)
		if err != nil {
			return 0, err
		}
		switch e.method {
		case "average":
			sum += p
			weights++
		case "weightedAverage":
			sum += s.weight * p
			weights += s.weight
		case "majorityVote":
			if p > 0.5 {
				sum++
			}
			weights++
		}
	}
	if weights == 0 {
		return 0, fmt.Errorf("%w: no segment selected", ErrNoPrediction)
	}
	return sum / weights, nil
}

func (b *builder) ensemble(el *etree.Element) (scorer, error) {
	seg := el.SelectElement("Segmentation")
	if seg == nil {
		return nil, fmt.Errorf("%w: MiningModel without Segmentation", ErrUnsupportedModel)
	}

	method := seg.SelectAttrValue("multipleModelMethod", "")
	switch method {
	case "average", "weightedAverage", "majorityVote":
	default:
		return nil, fmt.Errorf("%w: multipleModelMethod %q", ErrUnsupportedModel, method)
	}

	e := &ensemble{method: method}
	for _, s := range seg.SelectElements("Segment") {
		var (
			built segment
			err   error
		)
		built.weight = 1
		if w, ok, werr := floatAttr(s, "weight"); werr != nil {
			return nil, werr
		} else if ok {
			built.weight = w
		}

		for _, c := range s.ChildElements() {
			switch {
			case isModelElement(c.Tag):
				if built.model != nil {
					return nil, fmt.Errorf("%w: segment with more than one model", ErrUnsupportedModel)
				}
				if built.model, err = b.model(c); err != nil {
					return nil, err
				}
			case c.Tag == "Extension":
			default:
				if built.when, err = b.predicate(c); err != nil {
					return nil, err
				}
			}
		}

		if built.model == nil {
			return nil, fmt.Errorf("%w: segment %q without model", ErrUnsupportedModel, s.SelectAttrValue("id", ""))
		}
		if built.when == nil {
			built.when = func([]float64) bool { return true }
		}
		e.segments = append(e.segments, built)
	}

	if len(e.segments) == 0 {
		return nil, fmt.Errorf("%w: Segmentation without segments", ErrUnsupportedModel)
	}
	return e, nil
}
