package btree

// --- Splitting -------------------------------------------------------------

// split divides a full node n around its median entry at index t-1.
//
// It returns the median entry, which has been removed from n and is to be
// promoted to the parent, and a new right sibling holding all entries (and,
// for internal nodes, all children) right of the median. n retains the left
// half.
func (t *Tree[K, V]) split(n *node[K, V]) (Entry[K, V], *node[K, V]) {
	assert(n.isFull(), "split called on non-full node")
	mid := t.cfg.MinDegree - 1
	median := n.entries[mid]
	right := t.makeNode(n.isLeaf())
	right.appendEntries(n.entries[mid+1:]...)
	n.entries = truncate(n.entries, mid)
	if !n.isLeaf() {
		right.appendChildren(n.children[mid+1:]...)
		n.children = truncate(n.children, mid+1)
	}
	return median, right
}

// splitRoot splits a full root. A new internal root holding only the median
// entry adopts the old root and its new sibling as children.
func (t *Tree[K, V]) splitRoot() {
	median, right := t.split(t.root)
	root := t.makeNode(false)
	root.appendEntries(median)
	root.appendChildren(t.root, right)
	t.root = root
	t.height++
	t.emit(EventGrow, median.Key)
}

// splitChild splits the full child at index i of parent. The median is
// inserted into parent at position i and the new right sibling becomes
// child i+1. parent must not be full.
func (t *Tree[K, V]) splitChild(parent *node[K, V], i int) {
	assert(!parent.isFull(), "splitChild called with full parent")
	median, right := t.split(parent.child(i))
	parent.insertEntryAt(i, median)
	parent.insertChildAt(i+1, right)
	t.emit(EventSplit, median.Key)
}

// --- Rebalancing -----------------------------------------------------------

// fixUnderflow repairs the child at index slot of parent if it holds fewer
// than t-1 entries.
//
// Policy order is borrow-left, borrow-right, merge-left, merge-right.
// It returns true if parent lost an entry by a merge and may now underflow
// itself, in which case the caller has to continue one level up.
func (t *Tree[K, V]) fixUnderflow(parent *node[K, V], slot int) bool {
	assert(!parent.isLeaf(), "fixUnderflow called with leaf parent")
	child := parent.child(slot)
	if child.hasMinimumKeys() {
		return false
	}
	hasLeft := slot > 0
	hasRight := slot+1 < len(parent.children)
	switch {
	case hasLeft && parent.child(slot-1).canLend():
		t.borrowFromLeft(parent, slot)
		return false
	case hasRight && parent.child(slot+1).canLend():
		t.borrowFromRight(parent, slot)
		return false
	case hasLeft:
		t.mergeChildren(parent, slot-1)
	case hasRight:
		t.mergeChildren(parent, slot)
	default:
		assert(false, "underflowing node has no siblings")
	}
	return !parent.hasMinimumKeys()
}

// borrowFromLeft rotates one entry from the left sibling of child slot
// through the parent separator into the child.
func (t *Tree[K, V]) borrowFromLeft(parent *node[K, V], slot int) {
	child, left := parent.child(slot), parent.child(slot-1)
	child.insertEntryAt(0, parent.entries[slot-1])
	parent.entries[slot-1] = left.removeEntryAt(left.size() - 1)
	if !child.isLeaf() {
		child.insertChildAt(0, left.removeChildAt(len(left.children)-1))
	}
	t.emit(EventBorrowLeft, parent.entries[slot-1].Key)
}

// borrowFromRight rotates one entry from the right sibling of child slot
// through the parent separator into the child.
func (t *Tree[K, V]) borrowFromRight(parent *node[K, V], slot int) {
	child, right := parent.child(slot), parent.child(slot+1)
	child.appendEntries(parent.entries[slot])
	parent.entries[slot] = right.removeEntryAt(0)
	if !child.isLeaf() {
		child.appendChildren(right.removeChildAt(0))
	}
	t.emit(EventBorrowRight, parent.entries[slot].Key)
}

// mergeChildren merges child i+1 of parent into child i. The separator
// entry i is pulled down from parent, followed by all entries and children
// of the absorbed right node, which is then discarded.
func (t *Tree[K, V]) mergeChildren(parent *node[K, V], i int) {
	left, right := parent.child(i), parent.child(i+1)
	assert(left.size()+right.size()+1 <= t.cfg.maxEntries(), "merge would overflow node")
	separator := parent.removeEntryAt(i)
	parent.removeChildAt(i + 1)
	left.appendEntries(separator)
	left.appendEntries(right.entries...)
	if !left.isLeaf() {
		left.appendChildren(right.children...)
	}
	right.entries, right.children = nil, nil
	t.emit(EventMerge, separator.Key)
}
