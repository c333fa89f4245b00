package likelihood

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/showerlab/jetlh/internal/jet"
	"github.com/showerlab/jetlh/internal/kin"
)

var (
	ErrNoTCut        = errors.New("no t_cut specified")
	ErrInvalidOption = errors.New("invalid likelihood option")
)

// generalized-kt exponents reported in jet.Dij.Values
var dijAlphas = [3]float64{-1, 0, 1}

type Option func(opts *lhOpts) error

type lhOpts struct {
	tCut float64
	dij  bool
}

// Use tCut instead of the jet's own pt_cut
func WithTCut(tCut float64) Option {
	return func(opts *lhOpts) error {
		if tCut <= 0 || math.IsNaN(tCut) || math.IsInf(tCut, 0) {
			return fmt.Errorf("%w, t_cut must be positive, but is %g", ErrInvalidOption, tCut)
		}
		opts.tCut = tCut
		return nil
	}
}

// Also compute the generalized-kt distances of every split
func WithDij() Option {
	return func(opts *lhOpts) error {
		opts.dij = true
		return nil
	}
}

// Attaches the splitting log likelihood of every node (0 for leaves) to
// LogLH and sets SumLogLH. The root split uses LambdaRoot, all others Lambda.
func EnrichLogLH(j *jet.Jet, opts ...Option) error {
	var options lhOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return err
		}
	}
	tCut := options.tCut
	if tCut == 0 {
		tCut = j.PtCut
	}
	if tCut == 0 {
		return ErrNoTCut
	}
	if err := j.Validate(); err != nil {
		return err
	}
	order, err := j.Walk(j.RootID)
	if err != nil {
		return err
	}
	logLH := make(jet.LogValues, len(j.Tree))
	var dij []jet.Dij
	for _, cur := range order {
		if j.IsLeaf(cur) {
			continue
		}
		lambda := j.Lambda
		if cur == j.RootID {
			lambda = j.LambdaRoot
		}
		l, r := j.Children(cur)
		pL, pR := j.Content[l], j.Content[r]
		logLH[cur] = SplitLogLH(pL, pR, tCut, lambda)
		if options.dij {
			dij = append(dij, splitDij(pL, pR, logLH[cur]))
		}
	}
	j.LogLH, j.Dij, j.PreOrder = logLH, dij, order
	j.SumLogLH, j.Scored = SumLogLH(j), true
	return nil
}

// Sum of the stored per-node log likelihoods; -Inf iff some split is invalid
func SumLogLH(j *jet.Jet) float64 {
	return floats.Sum(j.LogLH)
}

// dij = min(pTL^2a, pTR^2a) * arccos(cos)^2
func splitDij(pL, pR kin.FourVec, logLH float64) jet.Dij {
	cos := kin.CosAngle(pL, pR)
	if math.Abs(cos) > 1 {
		cos = math.Copysign(1, cos)
	}
	angle := math.Acos(cos)
	pTL, pTR := pL.Transverse(), pR.Transverse()
	d := jet.Dij{LogLH: logLH}
	for i, a := range dijAlphas {
		d.Values[i] = math.Min(math.Pow(pTL, 2*a), math.Pow(pTR, 2*a)) * angle * angle
	}
	return d
}
