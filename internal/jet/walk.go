package jet

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Returns node ids below (and including) start in pre-order: node, full left
// subtree, full right subtree. Uses an explicit stack so that deep, unbalanced
// trees do not grow the call stack. Returns ErrMalformedTree if a node has
// exactly one -1 child, a child index is out of range, or a node is reached
// twice.
func (j *Jet) Walk(start int) ([]int, error) {
	n := len(j.Tree)
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w, root %d out of range [0, %d)", ErrMalformedTree, start, n)
	}
	visited := bitset.New(uint(n))
	order := make([]int, 0, n)
	stack := []int{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Test(uint(cur)) {
			return nil, fmt.Errorf("%w, node %d is reached more than once", ErrMalformedTree, cur)
		}
		visited.Set(uint(cur))
		order = append(order, cur)
		l, r := j.Children(cur)
		switch {
		case l == NoChild && r == NoChild:
			continue
		case l == NoChild || r == NoChild:
			return nil, fmt.Errorf("%w, node %d has children (%d, %d); left and right child are not both -1",
				ErrMalformedTree, cur, l, r)
		case l < 0 || l >= n || r < 0 || r >= n:
			return nil, fmt.Errorf("%w, node %d has child out of range (%d, %d)", ErrMalformedTree, cur, l, r)
		}
		stack = append(stack, r, l) // left is popped first
	}
	return order, nil
}
