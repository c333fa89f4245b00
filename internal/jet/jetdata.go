package jet

// Expanded jet struct containing preprocessed topology data. All slices are
// indexed by node id; nodes not reachable from the root keep zero values.
type JetData struct {
	*Jet
	PreOrder       []int // node ids in recursion order
	Depths         []int // distance from each node to the root
	NumLeavesBelow []int // number of leaves below node (1 for a leaf)
	NLeaves        int   // number of leaves
	NInner         int   // number of internal nodes
}

// Preprocess jet topology. Returns ErrMalformedTree for an invalid tree.
func MakeJetData(j *Jet) (*JetData, error) {
	order, err := j.Walk(j.RootID)
	if err != nil {
		return nil, err
	}
	n := len(j.Tree)
	td := &JetData{
		Jet:            j,
		PreOrder:       order,
		Depths:         make([]int, n),
		NumLeavesBelow: make([]int, n),
	}
	for _, cur := range order {
		if j.IsLeaf(cur) {
			td.NLeaves++
			continue
		}
		td.NInner++
		l, r := j.Children(cur)
		td.Depths[l], td.Depths[r] = td.Depths[cur]+1, td.Depths[cur]+1
	}
	// reversed pre-order visits children before parents
	for i := len(order) - 1; i >= 0; i-- {
		cur := order[i]
		if j.IsLeaf(cur) {
			td.NumLeavesBelow[cur] = 1
			continue
		}
		l, r := j.Children(cur)
		td.NumLeavesBelow[cur] = td.NumLeavesBelow[l] + td.NumLeavesBelow[r]
	}
	return td, nil
}

// Inner nodes whose children are not both leaves
func (td *JetData) NInnerAboveLastSplit() int {
	count := 0
	for _, cur := range td.PreOrder {
		if td.IsLeaf(cur) {
			continue
		}
		l, r := td.Children(cur)
		if !td.IsLeaf(l) || !td.IsLeaf(r) {
			count++
		}
	}
	return count
}
