// Package implementing the invariant-mass splitting model: per-node mass
// quantities, the splitting log likelihood of every internal node and the
// per-jet sum.
package likelihood

import (
	"log"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/showerlab/jetlh/internal/kin"
)

// Parents must be heavier than children by at least this fraction
const massGap = 1e-3

var logAngular = math.Log(1 / (4 * math.Pi)) // unit vector uniform on the 2-sphere

// Splitting log likelihood of a parent decaying into pL and pR. Invalid
// splittings (parent below tCut, children not lighter than the parent, mass
// ordering violated) yield -Inf.
func SplitLogLH(pL, pR kin.FourVec, tCut, lambda float64) float64 {
	tL := kin.InvariantMassSquared(pL)
	tR := kin.InvariantMassSquared(pR)
	tP := kin.DeltaOf(pL, pR)
	if !allowedSplit(tP, tL, tR, tCut) {
		return math.Inf(-1)
	}
	logpLR := math.Log(0.5) +
		logProb(tP, tL, tCut, lambda) +
		logProb(sq(math.Sqrt(tP)-math.Sqrt(tL)), tR, tCut, lambda)
	logpRL := math.Log(0.5) +
		logProb(tP, tR, tCut, lambda) +
		logProb(sq(math.Sqrt(tP)-math.Sqrt(tR)), tL, tCut, lambda)
	return floats.LogSumExp([]float64{logpLR, logpRL}) + logAngular
}

// Mass gates of a splitting, in order. For real four-vectors with tL, tR >= 0
// the ordering gate only trips through rounding; the earlier gates reject
// every other violation.
func allowedSplit(tP, tL, tR, tCut float64) bool {
	switch {
	case tP <= 0 || tL < 0 || tR < 0:
		return false
	case tP <= tCut:
		return false
	case tL >= (1-massGap)*tP || tR >= (1-massGap)*tP:
		return false
	case math.Sqrt(tL)+math.Sqrt(tR) > math.Sqrt(tP):
		log.Printf("mass ordering violated: sqrt(tL) + sqrt(tR) = %g > sqrt(tP) = %g\n",
			math.Sqrt(tL)+math.Sqrt(tR), math.Sqrt(tP))
		return false
	}
	return true
}

// Log probability of drawing t given an upper bound tPl. Values at or below
// tCut are stopped nodes and get the integrated probability mass of [0, tCut].
func logProb(tPl, t, tCut, lambda float64) float64 {
	norm := -math.Log(1 - math.Exp(-(1-massGap)*lambda))
	if t > tCut {
		return norm + math.Log(lambda) - math.Log(tPl) - lambda*t/tPl
	}
	tUpper := math.Min(tPl, tCut)
	return norm + math.Log(1-math.Exp(-lambda*tUpper/tPl))
}

func sq(x float64) float64 { return x * x }
