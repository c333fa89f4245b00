package likelihood

import (
	"math"

	"github.com/showerlab/jetlh/internal/jet"
	"github.com/showerlab/jetlh/internal/kin"
)

// Fills Deltas, Draws and PreOrder. Internal nodes get the invariant mass
// squared of their children's sum and the ratio to the parent's delta (NaN
// at the root); leaves get delta 0 and draw NaN.
func FillTreeInfo(j *jet.Jet) error {
	if err := j.Validate(); err != nil {
		return err
	}
	order, err := j.Walk(j.RootID)
	if err != nil {
		return err
	}
	n := len(j.Tree)
	deltas := make([]float64, n)
	draws := jet.NaNs(n)
	parent := make([]int, n)
	parent[j.RootID] = jet.NoChild
	for _, cur := range order {
		if j.IsLeaf(cur) {
			continue
		}
		l, r := j.Children(cur)
		parent[l], parent[r] = cur, cur
		deltas[cur] = kin.DeltaOf(j.Content[l], j.Content[r])
		if p := parent[cur]; p != jet.NoChild {
			draws[cur] = deltas[cur] / deltas[p]
		} else {
			draws[cur] = math.NaN()
		}
	}
	j.Deltas, j.Draws, j.PreOrder = deltas, draws, order
	return nil
}
