package classifier

import (
	"fmt"

	"github.com/beevik/etree"
)

// predicate is a compiled PMML predicate over a dense row.
type predicate func(v []float64) bool

type node struct {
	when     predicate
	children []*node
	// dist is the positive-class probability at this node, if it has one.
	dist    float64
	hasDist bool
}

type treeModel struct {
	root *node
	// lastPrediction selects noTrueChildStrategy="returnLastPrediction";
	// otherwise a node whose children all fail yields no prediction.
	lastPrediction bool
}

func (t *treeModel) probability(v []float64) (float64, error) {
	n := t.root
	if !n.when(v) {
		return 0, fmt.Errorf("%w: root predicate is false", ErrNoPrediction)
	}
	for len(n.children) > 0 {
		var next *node
		for _, c := range n.children {
			if c.when(v) {
				next = c
				break
			}
		}
		if next == nil {
			if !t.lastPrediction {
				return 0, fmt.Errorf("%w: no child node matched", ErrNoPrediction)
			}
			break
		}
		n = next
	}
	if !n.hasDist {
		return 0, fmt.Errorf("%w: node has no score", ErrNoPrediction)
	}
	return n.dist, nil
}

func (b *builder) tree(el *etree.Element) (scorer, error) {
	rootEl := el.SelectElement("Node")
	if rootEl == nil {
		return nil, fmt.Errorf("%w: TreeModel without Node", ErrUnsupportedModel)
	}

	var last bool
	switch strategy := el.SelectAttrValue("noTrueChildStrategy", "returnNullPrediction"); strategy {
	case "returnNullPrediction":
	case "returnLastPrediction":
		last = true
	default:
		return nil, fmt.Errorf("%w: noTrueChildStrategy %q", ErrUnsupportedModel, strategy)
	}

	root, err := b.node(rootEl)
	if err != nil {
		return nil, err
	}
	return &treeModel{root: root, lastPrediction: last}, nil
}

func (b *builder) node(el *etree.Element) (*node, error) {
	n := &node{}

	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "Node":
			child, err := b.node(c)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		case "ScoreDistribution", "Extension", "Partition", "EmbeddedModel":
		default:
			if n.when != nil {
				return nil, fmt.Errorf("%w: node has more than one predicate", ErrUnsupportedModel)
			}
			p, err := b.predicate(c)
			if err != nil {
				return nil, err
			}
			n.when = p
		}
	}
	if n.when == nil {
		return nil, fmt.Errorf("%w: node without predicate", ErrUnsupportedModel)
	}

	p, ok, err := b.distribution(el)
	if err != nil {
		return nil, err
	}
	n.dist, n.hasDist = p, ok

	if len(n.children) == 0 && !n.hasDist {
		return nil, fmt.Errorf("%w: leaf node without score", ErrUnsupportedModel)
	}
	return n, nil
}

// distribution returns the positive-class probability of a node from its
// ScoreDistribution children, falling back to the node's score attribute.
func (b *builder) distribution(el *etree.Element) (float64, bool, error) {
	dists := el.SelectElements("ScoreDistribution")
	if len(dists) == 0 {
		score := el.SelectAttr("score")
		if score == nil {
			return 0, false, nil
		}
		if score.Value == b.positive {
			return 1, true, nil
		}
		return 0, true, nil
	}

	var total, positive, probSum, positiveProb float64
	haveProb := true
	for _, d := range dists {
		count, _, err := floatAttr(d, "recordCount")
		if err != nil {
			return 0, false, err
		}
		prob, ok, err := floatAttr(d, "probability")
		if err != nil {
			return 0, false, err
		}
		if !ok {
			haveProb = false
		}
		total += count
		probSum += prob
		if d.SelectAttrValue("value", "") == b.positive {
			positive += count
			positiveProb = prob
		}
	}

	if haveProb && probSum > 0 {
		return positiveProb / probSum, true, nil
	}
	if total <= 0 {
		return 0, false, fmt.Errorf("%w: ScoreDistribution without records", ErrUnsupportedModel)
	}
	return positive / total, true, nil
}
