// Package running the full comparison of truth, greedy and beam search
// trees: alignment and filtering, ensemble statistics, and structural
// descriptors for every algorithm.
package evaluate

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/showerlab/jetlh/internal/align"
	"github.com/showerlab/jetlh/internal/jet"
	"github.com/showerlab/jetlh/internal/shape"
	"github.com/showerlab/jetlh/internal/stats"
)

type Algorithm int

const (
	Truth Algorithm = iota
	Greedy
	BeamSearch
	NumAlgorithms
)

func (a Algorithm) String() string {
	switch a {
	case Truth:
		return "truth"
	case Greedy:
		return "greedy"
	case BeamSearch:
		return "beam"
	default:
		panic(fmt.Sprintf("invalid algorithm (%d)", int(a)))
	}
}

type Options struct {
	Align      align.Config
	GroupSize  int              // jets per group for the ensemble spread
	Weight     float64          // level decay of the tree imbalance
	StartLevel int              // level of the root for the tree imbalance
	InnerCount shape.InnerCount // tree imbalance divisor
	NProcs     int
}

type Descriptors struct {
	SubjetImbalance []float64 // root constituent imbalance per jet
	TreeImbalance   []float64 // NaN for jets without inner nodes to divide by
	DeltaRoot       []float64
	Subjets         []shape.Subjets
	RootAngles      []shape.RootAngles
	Angles          *shape.AngleSet
	Dij             []jet.Dij // every split, only when all jets carry dij values
	DijRoots        []jet.Dij // root split of every jet
}

type AlgorithmReport struct {
	Algorithm   Algorithm
	Jets        jet.Collection
	Failures    int // jets not allowed by the model, before filtering
	MeanLogLH   float64
	Summary     *stats.Summary
	Descriptors *Descriptors
}

type Report struct {
	Alignment  *align.Result
	Algorithms [NumAlgorithms]*AlgorithmReport
}

// Aligns the three collections and summarizes the kept jets of every
// algorithm. The inputs are not modified.
func Run(ctx context.Context, truth, greedy, beam jet.Collection, opts Options) (*Report, error) {
	log.Printf("aligning %d truth, %d greedy and %d beam search jets\n", truth.Len(), greedy.Len(), beam.Len())
	res, err := align.AlignAndFilter(truth, greedy, beam, opts.Align)
	if err != nil {
		return nil, err
	}
	report := &Report{Alignment: res}
	report.Algorithms[Truth] = &AlgorithmReport{Algorithm: Truth, Jets: res.Truth}
	report.Algorithms[Greedy] = &AlgorithmReport{Algorithm: Greedy, Jets: res.Greedy, Failures: res.GreedyFailures}
	report.Algorithms[BeamSearch] = &AlgorithmReport{Algorithm: BeamSearch, Jets: res.Beam, Failures: res.BeamFailures}
	nprocs := opts.NProcs
	if nprocs < 1 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(nprocs)
	for _, ar := range report.Algorithms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return ar.summarize(opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (ar *AlgorithmReport) summarize(opts Options) error {
	summary, err := stats.Ensemble(ar.Jets, opts.GroupSize)
	if err != nil {
		return fmt.Errorf("%s: %w", ar.Algorithm, err)
	}
	ar.Summary = summary
	ar.MeanLogLH = stat.Mean(summary.LogLH, nil)
	if ar.Descriptors, err = Describe(ar.Jets, opts); err != nil {
		return fmt.Errorf("%s: %w", ar.Algorithm, err)
	}
	log.Printf("%s: %d jets, mean log likelihood %g, sigma %g, statistical sigma %g\n",
		ar.Algorithm, len(summary.LogLH), ar.MeanLogLH, summary.Sigma, summary.StatSigma)
	return nil
}

// Structural descriptors of every jet in c. Jets whose root is a leaf are
// skipped for the root split quantities. Dij entries are collected when
// every jet has been enriched with them.
func Describe(c jet.Collection, opts Options) (*Descriptors, error) {
	d := &Descriptors{}
	var err error
	if d.SubjetImbalance, d.TreeImbalance, err = shape.ScanImbalance(c, opts.Weight, opts.StartLevel, opts.InnerCount); err != nil {
		return nil, err
	}
	if d.Angles, err = shape.ScanAngles(c); err != nil {
		return nil, err
	}
	for _, j := range c.Flatten() {
		if j.IsLeaf(j.RootID) {
			continue
		}
		delta, err := shape.DeltaRoot(j)
		if err != nil {
			return nil, err
		}
		subjets, err := shape.RootSubjets(j)
		if err != nil {
			return nil, err
		}
		angles, err := shape.RootPhi(j)
		if err != nil {
			return nil, err
		}
		d.DeltaRoot = append(d.DeltaRoot, delta)
		d.Subjets = append(d.Subjets, subjets)
		d.RootAngles = append(d.RootAngles, angles)
	}
	if carriesDij(c) {
		if d.Dij, d.DijRoots, err = shape.ScanDij(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func carriesDij(c jet.Collection) bool {
	jets := c.Flatten()
	for _, j := range jets {
		if len(j.Dij) == 0 {
			return false
		}
	}
	return len(jets) > 0
}

// Means of the descriptors, ignoring NaN values
type DescriptorMeans struct {
	SubjetImbalance float64
	TreeImbalance   float64
	PhiDeltaRel     float64
	RootPhiDeltaRel float64
	DeltaRoot       float64
	SubjetMin       float64
	SubjetMax       float64
}

func (d *Descriptors) Means() DescriptorMeans {
	mins := make([]float64, len(d.Subjets))
	maxs := make([]float64, len(d.Subjets))
	for i, s := range d.Subjets {
		mins[i], maxs[i] = s.Min, s.Max
	}
	rootRel := make([]float64, len(d.RootAngles))
	for i, a := range d.RootAngles {
		rootRel[i] = a.PhiDeltaRel
	}
	return DescriptorMeans{
		SubjetImbalance: nanMean(d.SubjetImbalance),
		TreeImbalance:   nanMean(d.TreeImbalance),
		PhiDeltaRel:     nanMean(d.Angles.PhiDeltaRel),
		RootPhiDeltaRel: nanMean(rootRel),
		DeltaRoot:       nanMean(d.DeltaRoot),
		SubjetMin:       nanMean(mins),
		SubjetMax:       nanMean(maxs),
	}
}

func nanMean(values []float64) float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}
