package btree

import "fmt"

// Check validates structural tree invariants:
//
//   - every non-root node holds between t-1 and 2t-1 entries, the root at
//     most 2t-1,
//   - keys are strictly increasing within a node and respect the bounds
//     given by the separators of all ancestors,
//   - an internal node with e entries has e+1 children, a leaf has none,
//   - all leaves are at the same depth, which equals Height(),
//   - the number of entries equals Len().
//
// Violations are reported as errors wrapping ErrCorruptTree. Check is
// intended for tests and diagnostics; it visits every node.
func (t *Tree[K, V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrCorruptTree)
	}
	if t.root == nil {
		return fmt.Errorf("%w: nil root", ErrCorruptTree)
	}
	if t.root.isLeaf() && t.height != 1 {
		return fmt.Errorf("%w: leaf root must have height 1, has %d", ErrCorruptTree, t.height)
	}
	count, height, err := t.checkNode(t.root, true, nil, nil)
	if err != nil {
		T().Errorf("btree check: %v", err)
		return err
	}
	if height != t.height {
		return fmt.Errorf("%w: height mismatch (%d != %d)", ErrCorruptTree, height, t.height)
	}
	if count != t.size {
		return fmt.Errorf("%w: size mismatch (%d != %d)", ErrCorruptTree, count, t.size)
	}
	return nil
}

// checkNode validates the subtree at n. lower and upper, if non-nil, are
// exclusive bounds for all keys of the subtree.
func (t *Tree[K, V]) checkNode(n *node[K, V], isRoot bool, lower, upper *K) (count int, height int, err error) {
	if n == nil {
		return 0, 0, fmt.Errorf("%w: nil node", ErrCorruptTree)
	}
	if n.cfg != &t.cfg {
		return 0, 0, fmt.Errorf("%w: node %v not owned by tree", ErrCorruptTree, n)
	}
	if e := n.size(); e > t.cfg.maxEntries() {
		return 0, 0, fmt.Errorf("%w: node %v holds %d entries, max is %d",
			ErrCorruptTree, n, e, t.cfg.maxEntries())
	} else if !isRoot && e < t.cfg.minEntries() {
		return 0, 0, fmt.Errorf("%w: node %v holds %d entries, min is %d",
			ErrCorruptTree, n, e, t.cfg.minEntries())
	}
	for i, e := range n.entries {
		if i > 0 && t.cfg.Compare(n.entries[i-1].Key, e.Key) >= 0 {
			return 0, 0, fmt.Errorf("%w: keys of node %v not strictly increasing at %d",
				ErrCorruptTree, n, i)
		}
		if lower != nil && t.cfg.Compare(*lower, e.Key) >= 0 {
			return 0, 0, fmt.Errorf("%w: key %v of node %v not above separator %v",
				ErrCorruptTree, e.Key, n, *lower)
		}
		if upper != nil && t.cfg.Compare(e.Key, *upper) >= 0 {
			return 0, 0, fmt.Errorf("%w: key %v of node %v not below separator %v",
				ErrCorruptTree, e.Key, n, *upper)
		}
	}
	if n.isLeaf() {
		if len(n.children) != 0 {
			return 0, 0, fmt.Errorf("%w: leaf %v has %d children", ErrCorruptTree, n, len(n.children))
		}
		return n.size(), 1, nil
	}
	if len(n.children) != n.size()+1 {
		return 0, 0, fmt.Errorf("%w: internal node %v has %d entries but %d children",
			ErrCorruptTree, n, n.size(), len(n.children))
	}
	count = n.size()
	var childHeight int
	for i, child := range n.children {
		lo, hi := lower, upper
		if i > 0 {
			lo = &n.entries[i-1].Key
		}
		if i < n.size() {
			hi = &n.entries[i].Key
		}
		cCount, cHeight, cErr := t.checkNode(child, false, lo, hi)
		if cErr != nil {
			return 0, 0, cErr
		}
		count += cCount
		if i == 0 {
			childHeight = cHeight
		} else if cHeight != childHeight {
			return 0, 0, fmt.Errorf("%w: leaves below node %v at unequal depth", ErrCorruptTree, n)
		}
	}
	return count, childHeight + 1, nil
}
