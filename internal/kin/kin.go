// Package kin holds the four-momentum primitives used by the splitting model
// and the tree descriptors. Index 0 of a FourVec is the energy-like component,
// indices 1..3 are the spatial momentum.
package kin

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FourVec is an (E, px, py, pz) momentum
type FourVec [4]float64

func (p FourVec) Add(q FourVec) FourVec {
	return FourVec{p[0] + q[0], p[1] + q[1], p[2] + q[2], p[3] + q[3]}
}

func (p FourVec) Sub(q FourVec) FourVec {
	return FourVec{p[0] - q[0], p[1] - q[1], p[2] - q[2], p[3] - q[3]}
}

func (p FourVec) Scale(f float64) FourVec {
	return FourVec{f * p[0], f * p[1], f * p[2], f * p[3]}
}

// Spatial part of the momentum
func (p FourVec) Spatial() r3.Vec {
	return r3.Vec{X: p[1], Y: p[2], Z: p[3]}
}

// Transverse momentum magnitude, |(px, py)|
func (p FourVec) Transverse() float64 {
	return math.Hypot(p[1], p[2])
}

// Azimuthal angle atan2(py, px)
func (p FourVec) Phi() float64 {
	return math.Atan2(p[2], p[1])
}

// Returns E² - |p|². The result can be negative for non-physical momenta;
// callers decide what that means.
func InvariantMassSquared(p FourVec) float64 {
	return p[0]*p[0] - r3.Norm2(p.Spatial())
}

// Invariant mass squared of the parent candidate built from two daughters
func DeltaOf(pL, pR FourVec) float64 {
	return InvariantMassSquared(pL.Add(pR))
}

// Cosine of the angle between the spatial parts of p and q. NaN if either
// spatial part vanishes.
func CosAngle(p, q FourVec) float64 {
	a, b := p.Spatial(), q.Spatial()
	return r3.Dot(a, b) / (r3.Norm(a) * r3.Norm(b))
}
