package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/showerlab/jetlh/internal/jet"
)

var ErrNoDij = errors.New("jet has no dij values")

// Root constituent imbalance and tree imbalance of every jet, flattened.
// Jets without inner nodes to divide by get a NaN tree imbalance.
func ScanImbalance(c jet.Collection, w float64, startLevel int, mode InnerCount) ([]float64, []float64, error) {
	jets := c.Flatten()
	subjets := make([]float64, len(jets))
	trees := make([]float64, len(jets))
	for i, j := range jets {
		var err error
		if subjets[i], err = ConstituentImbalance(j, j.RootID); err != nil {
			return nil, nil, fmt.Errorf("jet %d: %w", i, err)
		}
		trees[i], err = TreeImbalance(j, w, startLevel, mode)
		switch {
		case errors.Is(err, ErrNoInnerNodes):
			trees[i] = math.NaN()
		case err != nil:
			return nil, nil, fmt.Errorf("jet %d: %w", i, err)
		}
	}
	return subjets, trees, nil
}

// Angles of every jet concatenated in order
func ScanAngles(c jet.Collection) (*AngleSet, error) {
	result := &AngleSet{}
	for i, j := range c.Flatten() {
		a, err := Angles(j)
		if err != nil {
			return nil, fmt.Errorf("jet %d: %w", i, err)
		}
		result.append(a)
	}
	return result, nil
}

// All dij entries, and the root entry of each jet. Jets must have been
// enriched with dij values.
func ScanDij(c jet.Collection) ([]jet.Dij, []jet.Dij, error) {
	var all, roots []jet.Dij
	for i, j := range c.Flatten() {
		if len(j.Dij) == 0 {
			return nil, nil, fmt.Errorf("jet %d: %w", i, ErrNoDij)
		}
		all = append(all, j.Dij...)
		roots = append(roots, j.Dij[0])
	}
	return all, roots, nil
}
