package shape

import (
	"fmt"
	"math"

	"github.com/showerlab/jetlh/internal/jet"
	"github.com/showerlab/jetlh/internal/kin"
)

// Energy-like component of the two root daughters
type Subjets struct {
	Min  float64
	Max  float64
	Diff float64 // root minus left daughter
}

type RootAngles struct {
	SubjetPhi   [2]float64 // azimuth of left and right daughter
	PhiDelta    float64
	PhiDeltaRel float64
}

func rootChildren(j *jet.Jet) (kin.FourVec, kin.FourVec, error) {
	if err := j.Validate(); err != nil {
		return kin.FourVec{}, kin.FourVec{}, err
	}
	if j.IsLeaf(j.RootID) {
		return kin.FourVec{}, kin.FourVec{}, fmt.Errorf("%w, cannot split root %d", ErrLeafRoot, j.RootID)
	}
	l, r := j.Children(j.RootID)
	return j.Content[l], j.Content[r], nil
}

// Invariant mass squared of the root split (the jet mass in the toy model)
func DeltaRoot(j *jet.Jet) (float64, error) {
	pL, pR, err := rootChildren(j)
	if err != nil {
		return 0, err
	}
	return kin.DeltaOf(pL, pR), nil
}

func RootSubjets(j *jet.Jet) (Subjets, error) {
	pL, pR, err := rootChildren(j)
	if err != nil {
		return Subjets{}, err
	}
	return Subjets{
		Min:  math.Min(pL[0], pR[0]),
		Max:  math.Max(pL[0], pR[0]),
		Diff: j.Content[j.RootID][0] - pL[0],
	}, nil
}

func RootPhi(j *jet.Jet) (RootAngles, error) {
	pL, pR, err := rootChildren(j)
	if err != nil {
		return RootAngles{}, err
	}
	phiDelta, rel := splitAngles(j, j.RootID)
	return RootAngles{
		SubjetPhi:   [2]float64{pL.Phi(), pR.Phi()},
		PhiDelta:    phiDelta,
		PhiDeltaRel: rel,
	}, nil
}
