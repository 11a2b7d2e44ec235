package btree

// makeNode materializes a new, empty node with storage pre-sized for a full
// node of this tree.
func (t *Tree[K, V]) makeNode(leaf bool) *node[K, V] {
	n := &node[K, V]{
		cfg:     &t.cfg,
		leaf:    leaf,
		entries: make([]Entry[K, V], 0, t.cfg.maxEntries()),
	}
	if !leaf {
		n.children = make([]*node[K, V], 0, t.cfg.maxEntries()+1)
	}
	return n
}

// insertAt inserts value into a slice at idx, shifting the tail right.
func insertAt[T any](s []T, idx int, value T) []T {
	assert(idx >= 0 && idx <= len(s), "insertAt index out of range")
	var zero T
	s = append(s, zero)
	copy(s[idx+1:], s[idx:])
	s[idx] = value
	return s
}

// removeAt removes the element at idx, shifting the tail left. The vacated
// last slot is zeroed so that the backing array does not retain references.
func removeAt[T any](s []T, idx int) []T {
	assert(idx >= 0 && idx < len(s), "removeAt index out of range")
	copy(s[idx:], s[idx+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}

// truncate cuts s to length n, zeroing the dropped tail.
func truncate[T any](s []T, n int) []T {
	assert(n >= 0 && n <= len(s), "truncate length out of range")
	var zero T
	for i := n; i < len(s); i++ {
		s[i] = zero
	}
	return s[:n]
}
