package kin

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestInvariantMassSquared(t *testing.T) {
	testCases := []struct {
		name     string
		p        FourVec
		expected float64
	}{
		{name: "at rest", p: FourVec{3, 0, 0, 0}, expected: 9},
		{name: "moving", p: FourVec{5, 1, 2, 2}, expected: 16},
		{name: "massless", p: FourVec{5, 3, 4, 0}, expected: 0},
		{name: "non-physical", p: FourVec{1, 2, 0, 0}, expected: -3},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			got := InvariantMassSquared(test.p)
			if math.Abs(got-test.expected) > tol {
				t.Fatalf("InvariantMassSquared(%v) = %f, want %f", test.p, got, test.expected)
			}
		})
	}
}

func TestDeltaOfSymmetric(t *testing.T) {
	testCases := []struct {
		name string
		pL   FourVec
		pR   FourVec
	}{
		{name: "back to back", pL: FourVec{5.25, 0, 0, 4.19}, pR: FourVec{4.75, 0, 0, -4.19}},
		{name: "generic", pL: FourVec{12, 3, -1, 7}, pR: FourVec{8, -2, 4, 1}},
		{name: "non-physical", pL: FourVec{1, 5, 0, 0}, pR: FourVec{2, 0, 6, 0}},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			lr, rl := DeltaOf(test.pL, test.pR), DeltaOf(test.pR, test.pL)
			if lr != rl {
				t.Fatalf("DeltaOf not symmetric: %f != %f", lr, rl)
			}
			if want := InvariantMassSquared(test.pL.Add(test.pR)); lr != want {
				t.Fatalf("DeltaOf = %f, want %f", lr, want)
			}
		})
	}
}

func TestTransverseAndPhi(t *testing.T) {
	p := FourVec{10, 3, 4, 9}
	if got := p.Transverse(); math.Abs(got-5) > tol {
		t.Errorf("Transverse() = %f, want 5", got)
	}
	if got, want := p.Phi(), math.Atan2(4, 3); math.Abs(got-want) > tol {
		t.Errorf("Phi() = %f, want %f", got, want)
	}
	q := FourVec{1, 0, -1, 0}
	if got := q.Phi(); math.Abs(got+math.Pi/2) > tol {
		t.Errorf("Phi() = %f, want %f", got, -math.Pi/2)
	}
}

func TestCosAngle(t *testing.T) {
	testCases := []struct {
		name     string
		p        FourVec
		q        FourVec
		expected float64
	}{
		{name: "parallel", p: FourVec{1, 1, 0, 0}, q: FourVec{3, 2, 0, 0}, expected: 1},
		{name: "anti-parallel", p: FourVec{1, 0, 0, 1}, q: FourVec{1, 0, 0, -4}, expected: -1},
		{name: "orthogonal", p: FourVec{1, 1, 0, 0}, q: FourVec{1, 0, 1, 0}, expected: 0},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if got := CosAngle(test.p, test.q); math.Abs(got-test.expected) > tol {
				t.Fatalf("CosAngle = %f, want %f", got, test.expected)
			}
		})
	}
	if got := CosAngle(FourVec{1, 0, 0, 0}, FourVec{1, 1, 0, 0}); !math.IsNaN(got) {
		t.Errorf("CosAngle with zero momentum = %f, want NaN", got)
	}
}

func TestFourVecArithmetic(t *testing.T) {
	p, q := FourVec{4, 1, 2, 3}, FourVec{2, -1, 0, 1}
	if got := p.Sub(q).Scale(0.5); got != (FourVec{1, 1, 1, 1}) {
		t.Errorf("(p - q)/2 = %v, want [1 1 1 1]", got)
	}
	if got := p.Add(q); got != (FourVec{6, 0, 2, 4}) {
		t.Errorf("p + q = %v, want [6 0 2 4]", got)
	}
}
