// Package implementing structural and geometric descriptors of jet trees:
// constituent imbalance, weighted tree imbalance, splitting angles and
// root-split diagnostics.
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/showerlab/jetlh/internal/jet"
)

var (
	ErrNoInnerNodes = errors.New("tree has no inner nodes")
	ErrLeafRoot     = errors.New("root is a leaf")
)

// Divisor used by TreeImbalance
type InnerCount int

const (
	AllInner         InnerCount = iota // every internal node
	ExcludeLastSplit                   // internal nodes whose children are not both leaves
)

var ParseInnerCount = map[string]InnerCount{
	"all":          AllInner,
	"exclude-last": ExcludeLastSplit,
}

func (m *InnerCount) Set(s string) error {
	if mode, ok := ParseInnerCount[s]; ok {
		*m = mode
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid inner node count mode", s)
}

func (m InnerCount) String() string {
	for s, mode := range ParseInnerCount {
		if mode == m {
			return s
		}
	}
	panic(fmt.Sprintf("inner node count mode (%d) does not exist", m))
}

// Number of leaves at or below id
func CountLeaves(j *jet.Jet, id int) (int, error) {
	order, err := j.Walk(id)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, cur := range order {
		if j.IsLeaf(cur) {
			n++
		}
	}
	return n, nil
}

// |L - R| / (L + R) for the leaf counts of the two children of id; 0 for a leaf
func ConstituentImbalance(j *jet.Jet, id int) (float64, error) {
	if _, err := j.Walk(id); err != nil {
		return 0, err
	}
	if j.IsLeaf(id) {
		return 0, nil
	}
	l, r := j.Children(id)
	nL, err := CountLeaves(j, l)
	if err != nil {
		return 0, err
	}
	nR, err := CountLeaves(j, r)
	if err != nil {
		return 0, err
	}
	return imbalance(nL, nR), nil
}

func imbalance(nL, nR int) float64 {
	return math.Abs(float64(nL-nR)) / float64(nL+nR)
}

// Sum over all nodes of exp(-w * level) * ConstituentImbalance, divided by
// the number of inner nodes chosen by mode. The root is at startLevel.
func TreeImbalance(j *jet.Jet, w float64, startLevel int, mode InnerCount) (float64, error) {
	td, err := jet.MakeJetData(j)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, cur := range td.PreOrder {
		if td.IsLeaf(cur) {
			continue // contributes exp(-w * level) * 0
		}
		l, r := td.Children(cur)
		level := float64(startLevel + td.Depths[cur])
		total += math.Exp(-w*level) * imbalance(td.NumLeavesBelow[l], td.NumLeavesBelow[r])
	}
	var inner int
	switch mode {
	case AllInner:
		inner = td.NInner
	case ExcludeLastSplit:
		inner = td.NInnerAboveLastSplit()
	default:
		panic(fmt.Sprintf("invalid InnerCount value: %d", int(mode)))
	}
	if inner == 0 {
		return 0, fmt.Errorf("%w, %d leaves", ErrNoInnerNodes, td.NLeaves)
	}
	return total / float64(inner), nil
}
