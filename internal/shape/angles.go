package shape

import (
	"math"

	"github.com/showerlab/jetlh/internal/jet"
)

type AngleSet struct {
	ConstPhi    []float64 // azimuth of every leaf
	PhiDelta    []float64 // azimuth of (pR - pL)/2 for every internal node
	PhiDeltaRel []float64 // PhiDelta relative to the splitting node's azimuth, in [0, pi/2]
}

// Azimuthal angles of a jet, in pre-order
func Angles(j *jet.Jet) (*AngleSet, error) {
	order, err := j.Walk(j.RootID)
	if err != nil {
		return nil, err
	}
	a := &AngleSet{}
	for _, cur := range order {
		if j.IsLeaf(cur) {
			a.ConstPhi = append(a.ConstPhi, j.Content[cur].Phi())
			continue
		}
		phiDelta, rel := splitAngles(j, cur)
		a.PhiDelta = append(a.PhiDelta, phiDelta)
		a.PhiDeltaRel = append(a.PhiDeltaRel, rel)
	}
	return a, nil
}

func splitAngles(j *jet.Jet, id int) (float64, float64) {
	l, r := j.Children(id)
	phiDelta := j.Content[r].Sub(j.Content[l]).Scale(0.5).Phi()
	return phiDelta, FoldRelative(math.Abs(phiDelta - j.Content[id].Phi()))
}

// Maps an absolute azimuth difference in [0, 2pi] onto [0, pi/2]
func FoldRelative(theta float64) float64 {
	if theta > math.Pi {
		theta = 2*math.Pi - theta
	}
	if theta > math.Pi/2 {
		theta = math.Pi - theta
	}
	return theta
}

func (a *AngleSet) append(b *AngleSet) {
	a.ConstPhi = append(a.ConstPhi, b.ConstPhi...)
	a.PhiDelta = append(a.PhiDelta, b.PhiDelta...)
	a.PhiDeltaRel = append(a.PhiDeltaRel, b.PhiDeltaRel...)
}
