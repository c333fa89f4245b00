package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/showerlab/jetlh/internal/jet"
	"github.com/showerlab/jetlh/internal/kin"
)

const tol = 1e-12

// jet with the given topology and zero momenta
func topology(tree [][2]int) *jet.Jet {
	return &jet.Jet{Content: make([]kin.FourVec, len(tree)), Tree: tree}
}

var (
	cherry = [][2]int{{1, 2}, {-1, -1}, {-1, -1}}
	// 0 -> (1, 2), 1 -> (3, 4)
	threeLeaves = [][2]int{{1, 2}, {3, 4}, {-1, -1}, {-1, -1}, {-1, -1}}
	// 0 -> (1, 2), 1 -> (3, 4), 3 -> (5, 6)
	caterpillar = [][2]int{{1, 2}, {3, 4}, {-1, -1}, {5, 6}, {-1, -1}, {-1, -1}, {-1, -1}}
)

// root (10, 1, 1, 0) -> (4, 1, 0, 0), (6, 0, 1, 0)
func angledJet() *jet.Jet {
	return &jet.Jet{
		Content: []kin.FourVec{{10, 1, 1, 0}, {4, 1, 0, 0}, {6, 0, 1, 0}},
		Tree:    cherry,
	}
}

func TestConstituentImbalance(t *testing.T) {
	testCases := []struct {
		name     string
		tree     [][2]int
		node     int
		expected float64
	}{
		{name: "cherry", tree: cherry, node: 0, expected: 0},
		{name: "three leaves root", tree: threeLeaves, node: 0, expected: 1.0 / 3},
		{name: "three leaves inner", tree: threeLeaves, node: 1, expected: 0},
		{name: "caterpillar root", tree: caterpillar, node: 0, expected: 0.5},
		{name: "leaf", tree: caterpillar, node: 6, expected: 0},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			got, err := ConstituentImbalance(topology(test.tree), test.node)
			if err != nil {
				t.Fatalf("unexpected error %s", err)
			}
			if math.Abs(got-test.expected) > tol {
				t.Fatalf("ConstituentImbalance = %g, want %g", got, test.expected)
			}
		})
	}
}

func TestCountLeaves(t *testing.T) {
	j := topology(caterpillar)
	for node, want := range map[int]int{0: 4, 1: 3, 2: 1, 3: 2} {
		if got, err := CountLeaves(j, node); err != nil || got != want {
			t.Errorf("CountLeaves(%d) = %d, %v, want %d", node, got, err, want)
		}
	}
	if _, err := CountLeaves(topology([][2]int{{1, -1}, {-1, -1}}), 0); !errors.Is(err, jet.ErrMalformedTree) {
		t.Errorf("expected %v, got %v", jet.ErrMalformedTree, err)
	}
}

func TestTreeImbalance(t *testing.T) {
	testCases := []struct {
		name        string
		tree        [][2]int
		w           float64
		startLevel  int
		mode        InnerCount
		expected    float64
		expectedErr error
	}{
		{name: "cherry", tree: cherry, w: 1, mode: AllInner, expected: 0},
		{name: "three leaves", tree: threeLeaves, w: 0, mode: AllInner, expected: 1.0 / 6},
		{name: "three leaves exclude last", tree: threeLeaves, w: 0, mode: ExcludeLastSplit, expected: 1.0 / 3},
		{name: "start level", tree: threeLeaves, w: 1, startLevel: 1, mode: AllInner, expected: math.Exp(-1) / 6},
		{name: "caterpillar weighted", tree: caterpillar, w: math.Ln2, mode: AllInner, expected: 2.0 / 9},
		{name: "cherry exclude last", tree: cherry, w: 1, mode: ExcludeLastSplit, expectedErr: ErrNoInnerNodes},
		{name: "single leaf", tree: [][2]int{{-1, -1}}, w: 1, mode: AllInner, expectedErr: ErrNoInnerNodes},
		{name: "malformed", tree: [][2]int{{1, 1}, {-1, -1}}, w: 1, mode: AllInner, expectedErr: jet.ErrMalformedTree},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			got, err := TreeImbalance(topology(test.tree), test.w, test.startLevel, test.mode)
			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected error %v, got %v", test.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %s", err)
			}
			if math.Abs(got-test.expected) > tol {
				t.Fatalf("TreeImbalance = %g, want %g", got, test.expected)
			}
		})
	}
}

func TestInnerCountFlag(t *testing.T) {
	var m InnerCount
	if err := m.Set("exclude-last"); err != nil || m != ExcludeLastSplit {
		t.Fatalf("Set(exclude-last) = %v, mode %v", err, m)
	}
	if m.String() != "exclude-last" {
		t.Errorf("String = %s", m.String())
	}
	if err := m.Set("some"); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestFoldRelative(t *testing.T) {
	testCases := []struct {
		theta    float64
		expected float64
	}{
		{0, 0},
		{math.Pi / 4, math.Pi / 4},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 4, math.Pi / 4},
		{math.Pi, 0},
		{3 * math.Pi / 2, math.Pi / 2},
		{7 * math.Pi / 4, math.Pi / 4},
	}
	for _, test := range testCases {
		if got := FoldRelative(test.theta); math.Abs(got-test.expected) > tol {
			t.Errorf("FoldRelative(%g) = %g, want %g", test.theta, got, test.expected)
		}
	}
	for theta := 0.0; theta <= 2*math.Pi; theta += 0.01 {
		if got := FoldRelative(theta); got < 0 || got > math.Pi/2 {
			t.Fatalf("FoldRelative(%g) = %g, outside [0, pi/2]", theta, got)
		}
	}
}

func TestAngles(t *testing.T) {
	a, err := Angles(angledJet())
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(a.ConstPhi) != 2 || len(a.PhiDelta) != 1 || len(a.PhiDeltaRel) != 1 {
		t.Fatalf("wrong lengths %+v", a)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"ConstPhi[0]", a.ConstPhi[0], 0},
		{"ConstPhi[1]", a.ConstPhi[1], math.Pi / 2},
		{"PhiDelta", a.PhiDelta[0], 3 * math.Pi / 4},
		{"PhiDeltaRel", a.PhiDeltaRel[0], math.Pi / 2},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > tol {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}
}

func TestRootDescriptors(t *testing.T) {
	j := angledJet()
	d, err := DeltaRoot(j)
	if err != nil || math.Abs(d-98) > tol {
		t.Errorf("DeltaRoot = %g, %v, want 98", d, err)
	}
	s, err := RootSubjets(j)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if s != (Subjets{Min: 4, Max: 6, Diff: 6}) {
		t.Errorf("RootSubjets = %+v", s)
	}
	ra, err := RootPhi(j)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if math.Abs(ra.PhiDelta-3*math.Pi/4) > tol || math.Abs(ra.SubjetPhi[1]-math.Pi/2) > tol {
		t.Errorf("RootPhi = %+v", ra)
	}
	leaf := &jet.Jet{Content: []kin.FourVec{{1, 0, 0, 0}}, Tree: [][2]int{{-1, -1}}}
	if _, err := DeltaRoot(leaf); !errors.Is(err, ErrLeafRoot) {
		t.Errorf("expected %v, got %v", ErrLeafRoot, err)
	}
}

func TestScans(t *testing.T) {
	c := jet.Collection{{topology(cherry), topology(threeLeaves)}, {topology(caterpillar)}}
	subjets, trees, err := ScanImbalance(c, 0, 0, AllInner)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	wantSub := []float64{0, 1.0 / 3, 0.5}
	wantTrees := []float64{0, 1.0 / 6, (0.5 + 1.0/3) / 3}
	for i := range wantSub {
		if math.Abs(subjets[i]-wantSub[i]) > tol || math.Abs(trees[i]-wantTrees[i]) > tol {
			t.Errorf("jet %d: imbalance %g, %g, want %g, %g", i, subjets[i], trees[i], wantSub[i], wantTrees[i])
		}
	}
	_, trees, err = ScanImbalance(jet.Collection{{topology(cherry), topology(caterpillar)}}, 0, 0, ExcludeLastSplit)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !math.IsNaN(trees[0]) || math.Abs(trees[1]-(0.5+1.0/3)/2) > tol {
		t.Errorf("ScanImbalance(ExcludeLastSplit) = %v, want [NaN %g]", trees, (0.5+1.0/3)/2)
	}
	a, err := ScanAngles(jet.Collection{{angledJet()}, {angledJet()}})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(a.ConstPhi) != 4 || len(a.PhiDelta) != 2 {
		t.Errorf("ScanAngles lengths %d, %d, want 4, 2", len(a.ConstPhi), len(a.PhiDelta))
	}
	j1, j2 := topology(threeLeaves), topology(cherry)
	j1.Dij = []jet.Dij{{LogLH: -1}, {LogLH: -2}}
	j2.Dij = []jet.Dij{{LogLH: -3}}
	all, roots, err := ScanDij(jet.Collection{{j1, j2}})
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if len(all) != 3 || len(roots) != 2 || roots[1].LogLH != -3 {
		t.Errorf("ScanDij = %v, %v", all, roots)
	}
	if _, _, err := ScanDij(jet.Collection{{topology(cherry)}}); !errors.Is(err, ErrNoDij) {
		t.Errorf("expected %v, got %v", ErrNoDij, err)
	}
}
