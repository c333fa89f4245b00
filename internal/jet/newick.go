package jet

import (
	"strconv"

	"github.com/evolbioinfo/gotree/tree"
)

// Builds a gotree tree with the same topology as the jet. Every node is named
// by its node id, so the newick string maps back onto Content.
func (j *Jet) Topology() (*tree.Tree, error) {
	order, err := j.Walk(j.RootID)
	if err != nil {
		return nil, err
	}
	tre := tree.NewTree()
	nodes := make(map[int]*tree.Node, len(order))
	for _, cur := range order {
		node := tre.NewNode()
		node.SetName(strconv.Itoa(cur))
		nodes[cur] = node
	}
	tre.SetRoot(nodes[j.RootID])
	for _, cur := range order {
		if j.IsLeaf(cur) {
			continue
		}
		l, r := j.Children(cur)
		tre.ConnectNodes(nodes[cur], nodes[l])
		tre.ConnectNodes(nodes[cur], nodes[r])
	}
	cleanTree(tre)
	return tre, nil
}

// Newick string of the jet topology
func (j *Jet) Newick() (string, error) {
	tre, err := j.Topology()
	if err != nil {
		return "", err
	}
	return tre.Newick(), nil
}

// Deletes all branch lengths and support values (the tree carries topology only)
func cleanTree(tre *tree.Tree) {
	tre.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if e != nil {
			e.SetSupport(tree.NIL_SUPPORT)
			e.SetLength(tree.NIL_LENGTH)
		}
		return true
	})
}
