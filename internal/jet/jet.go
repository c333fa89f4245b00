// Package containing the jet data model: a rooted binary tree over a node
// array, the per-node quantities attached to it, and helpers for walking and
// exporting its topology.
package jet

import (
	"errors"
	"fmt"
	"math"

	"github.com/showerlab/jetlh/internal/kin"
)

const NoChild = -1

var (
	ErrMalformedTree   = errors.New("malformed tree")
	ErrContentMismatch = errors.New("content and tree length mismatch")
)

// Jet is a binary tree of pseudo-particles. Content, Tree, RootID, Leaves and
// the model parameters come from the generation/reconstruction stage; the
// remaining fields are attached by this module. Per-node slices are indexed
// by node id.
type Jet struct {
	Content    []kin.FourVec `json:"content"`
	Tree       [][2]int      `json:"tree"` // {left, right}; {-1, -1} for leaves
	RootID     int           `json:"root_id"`
	Leaves     []int         `json:"leaves"`     // leaf node ids
	Lambda     float64       `json:"Lambda"`     // decay rate for non-root splits
	LambdaRoot float64       `json:"LambdaRoot"` // decay rate for the root split
	PtCut      float64       `json:"pt_cut"`     // t_cut threshold
	MHard      float64       `json:"M_Hard"`     // hard process mass

	Deltas   []float64 `json:"deltas,omitempty"` // invariant mass squared per node (0 for leaves)
	Draws    []float64 `json:"-"`                // delta / parent delta (NaN for root and leaves)
	LogLH    LogValues `json:"logLH,omitempty"`  // splitting log likelihood per node (0 for leaves)
	Dij      []Dij     `json:"dij,omitempty"`    // one entry per internal node, in pre-order
	PreOrder []int     `json:"-"`                // node ids in recursion order
	SumLogLH float64   `json:"-"`
	Scored   bool      `json:"-"` // SumLogLH has been assigned
}

// Generalized-kt distances of one split, alongside its log likelihood.
// Values holds alpha = -1, 0, 1 in that order. Written to JSON as
// [logLH, dij(-1), dij(0), dij(1)].
type Dij struct {
	LogLH  float64
	Values [3]float64
}

// Set is one simulation run
type Set []*Jet

// Collection is an ordered list of runs
type Collection []Set

func (j *Jet) IsLeaf(id int) bool {
	return j.Tree[id][0] == NoChild && j.Tree[id][1] == NoChild
}

func (j *Jet) Children(id int) (int, int) {
	return j.Tree[id][0], j.Tree[id][1]
}

// Number of leaves, from Leaves if given and from the tree otherwise
func (j *Jet) LeafCount() int {
	if j.Leaves != nil {
		return len(j.Leaves)
	}
	n := 0
	for id := range j.Tree {
		if j.IsLeaf(id) {
			n++
		}
	}
	return n
}

// Root delta (jet invariant mass squared in the toy model). Requires Deltas.
func (j *Jet) RootDelta() float64 {
	return j.Deltas[j.RootID]
}

// Deltas in recursion order (root, left subtree, right subtree)
func (j *Jet) DeltasInRecursionOrder() []float64 {
	return inOrder(j.Deltas, j.PreOrder)
}

// LogLH in recursion order (root, left subtree, right subtree)
func (j *Jet) LogLHInRecursionOrder() []float64 {
	return inOrder(j.LogLH, j.PreOrder)
}

func inOrder(vals []float64, order []int) []float64 {
	if vals == nil {
		return nil
	}
	result := make([]float64, len(order))
	for i, id := range order {
		result[i] = vals[id]
	}
	return result
}

// Checks that the tree is a proper binary tree reachable from the root
func (j *Jet) Validate() error {
	if len(j.Content) != len(j.Tree) {
		return fmt.Errorf("%w, %d momenta for %d nodes", ErrContentMismatch, len(j.Content), len(j.Tree))
	}
	_, err := j.Walk(j.RootID)
	return err
}

// Deep copy; the clone shares no slices with j
func (j *Jet) Clone() *Jet {
	c := *j
	c.Content = cloneSlice(j.Content)
	c.Tree = cloneSlice(j.Tree)
	c.Leaves = cloneSlice(j.Leaves)
	c.Deltas = cloneSlice(j.Deltas)
	c.Draws = cloneSlice(j.Draws)
	c.LogLH = cloneSlice(j.LogLH)
	c.Dij = cloneSlice(j.Dij)
	c.PreOrder = cloneSlice(j.PreOrder)
	return &c
}

func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(S(nil), s...)
}

// Number of jets over all sets
func (c Collection) Len() int {
	n := 0
	for _, set := range c {
		n += len(set)
	}
	return n
}

// All jets in order
func (c Collection) Flatten() []*Jet {
	result := make([]*Jet, 0, c.Len())
	for _, set := range c {
		result = append(result, set...)
	}
	return result
}

// Returns a NaN filled slice of length n
func NaNs(n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = math.NaN()
	}
	return result
}
