// Package implementing the cross-algorithm filter: truth, greedy and beam
// search reconstructions of the same jets are walked in lock step and only
// the triples satisfying the selection cuts are kept.
package align

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/showerlab/jetlh/internal/jet"
	"github.com/showerlab/jetlh/internal/likelihood"
)

var ErrLengthMismatch = errors.New("collections do not correspond")

// How greedy and beam search sums are obtained. Truth sums are always
// recomputed.
type Mode int

const (
	ReuseStored  Mode = iota // sum the stored per-node log likelihoods
	RecomputeAll             // rerun the likelihood pass
)

var ParseMode = map[string]Mode{
	"reuse":     ReuseStored,
	"recompute": RecomputeAll,
}

func (m *Mode) Set(s string) error {
	if mode, ok := ParseMode[s]; ok {
		*m = mode
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid recompute mode", s)
}

func (m Mode) String() string {
	for s, mode := range ParseMode {
		if mode == m {
			return s
		}
	}
	panic(fmt.Sprintf("recompute mode (%d) does not exist", m))
}

type Config struct {
	Window    float64 // half width of the root delta window
	MHard     float64 // window is centered on MHard/2; 0 takes each truth jet's MHard
	MinLeaves int     // truth leaf count bounds (inclusive)
	MaxLeaves int     // 0 is unbounded
	Recompute Mode
	LH        []likelihood.Option // used whenever log likelihoods are computed
}

// Kept triples. The three collections have the same set structure, and
// Index[k][i] is the position in input set k of the i-th kept triple.
type Result struct {
	Truth          jet.Collection
	Greedy         jet.Collection
	Beam           jet.Collection
	Index          [][]int
	GreedyFailures int // greedy jets with sum -Inf, before filtering
	BeamFailures   int // beam search jets with sum -Inf, before filtering
}

// Total number of kept triples
func (r *Result) Kept() int {
	return r.Truth.Len()
}

type triple struct {
	truth, greedy, beam *jet.Jet
}

// Filters corresponding truth, greedy and beam search jets. Inputs are not
// modified; kept jets are deep copies with SumLogLH set.
func AlignAndFilter(truth, greedy, beam jet.Collection, cfg Config) (*Result, error) {
	if len(truth) != len(greedy) || len(truth) != len(beam) {
		return nil, fmt.Errorf("%w, %d truth, %d greedy and %d beam search sets",
			ErrLengthMismatch, len(truth), len(greedy), len(beam))
	}
	res := &Result{
		Truth:  make(jet.Collection, len(truth)),
		Greedy: make(jet.Collection, len(truth)),
		Beam:   make(jet.Collection, len(truth)),
		Index:  make([][]int, len(truth)),
	}
	for k := range truth {
		if len(truth[k]) != len(greedy[k]) || len(truth[k]) != len(beam[k]) {
			return nil, fmt.Errorf("%w, set %d has %d truth, %d greedy and %d beam search jets",
				ErrLengthMismatch, k, len(truth[k]), len(greedy[k]), len(beam[k]))
		}
		res.Truth[k] = jet.Set{}
		res.Greedy[k] = jet.Set{}
		res.Beam[k] = jet.Set{}
		res.Index[k] = []int{}
		for i := range truth[k] {
			tr, err := score(truth[k][i], cfg, true)
			if err != nil {
				return nil, fmt.Errorf("truth set %d jet %d: %w", k, i, err)
			}
			gr, err := score(greedy[k][i], cfg, false)
			if err != nil {
				return nil, fmt.Errorf("greedy set %d jet %d: %w", k, i, err)
			}
			bs, err := score(beam[k][i], cfg, false)
			if err != nil {
				return nil, fmt.Errorf("beam search set %d jet %d: %w", k, i, err)
			}
			if math.IsInf(gr.SumLogLH, -1) {
				res.GreedyFailures++
			}
			if math.IsInf(bs.SumLogLH, -1) {
				res.BeamFailures++
			}
			if !cfg.keep(triple{tr, gr, bs}) {
				continue
			}
			res.Truth[k] = append(res.Truth[k], tr)
			res.Greedy[k] = append(res.Greedy[k], gr)
			res.Beam[k] = append(res.Beam[k], bs)
			res.Index[k] = append(res.Index[k], i)
		}
	}
	log.Printf("kept %d of %d jets, %d greedy and %d beam search jets not allowed by the model\n",
		res.Kept(), truth.Len(), res.GreedyFailures, res.BeamFailures)
	return res, nil
}

// Deep copy of j with Deltas and SumLogLH filled. Stored log likelihoods
// are only summed, so their node order does not matter.
func score(j *jet.Jet, cfg Config, recompute bool) (*jet.Jet, error) {
	c := j.Clone()
	if err := likelihood.FillTreeInfo(c); err != nil {
		return nil, err
	}
	if recompute || cfg.Recompute == RecomputeAll || c.LogLH == nil {
		if err := likelihood.EnrichLogLH(c, cfg.LH...); err != nil {
			return nil, err
		}
	}
	c.SumLogLH, c.Scored = likelihood.SumLogLH(c), true
	return c, nil
}

func (cfg Config) keep(t triple) bool {
	if t.truth.IsLeaf(t.truth.RootID) {
		return false
	}
	if math.IsInf(t.greedy.SumLogLH, -1) || math.IsInf(t.beam.SumLogLH, -1) {
		return false
	}
	mHard := cfg.MHard
	if mHard == 0 {
		mHard = t.truth.MHard
	}
	lo, hi := mHard/2-cfg.Window, mHard/2+cfg.Window
	for _, j := range []*jet.Jet{t.truth, t.greedy, t.beam} {
		if d := j.RootDelta(); d < lo || d > hi {
			return false
		}
	}
	n := t.truth.LeafCount()
	return n >= cfg.MinLeaves && (cfg.MaxLeaves == 0 || n <= cfg.MaxLeaves)
}
