package btree

import (
	"fmt"
	"strings"
)

// Entry is a key paired with its value.
type Entry[K, V any] struct {
	Key   K
	Value V
}

func (e Entry[K, V]) String() string {
	return fmt.Sprintf("(%v -> %v)", e.Key, e.Value)
}

// node is a B-tree node. An internal node with e entries has e+1 children,
// a leaf has none. A node is owned by exactly one parent (or by the tree, if
// it is the root).
type node[K, V any] struct {
	cfg      *Config[K]
	leaf     bool
	entries  []Entry[K, V]
	children []*node[K, V]
}

func (n *node[K, V]) isLeaf() bool {
	return n.leaf
}

func (n *node[K, V]) size() int {
	return len(n.entries)
}

// isFull reports whether n holds the maximum of 2t-1 entries.
func (n *node[K, V]) isFull() bool {
	return len(n.entries) == n.cfg.maxEntries()
}

// hasMinimumKeys reports whether n holds at least t-1 entries.
func (n *node[K, V]) hasMinimumKeys() bool {
	return len(n.entries) >= n.cfg.minEntries()
}

// canLend reports whether n may give away one entry and still satisfy the
// minimum occupancy.
func (n *node[K, V]) canLend() bool {
	return len(n.entries) > n.cfg.minEntries()
}

// findKeyIndex performs a binary search for key.
//
// If key is present, its index is returned. Otherwise the result is
// -(insertionIndex)-1, where insertionIndex is the position key would have
// to be inserted at to keep the entries ordered. A single search thus serves
// lookup as well as positional insertion.
func (n *node[K, V]) findKeyIndex(key K) int {
	low, high := 0, len(n.entries)
	for low < high {
		mid := int(uint(low+high) >> 1)
		switch c := n.cfg.Compare(n.entries[mid].Key, key); {
		case c < 0:
			low = mid + 1
		case c > 0:
			high = mid
		default:
			return mid
		}
	}
	return -low - 1
}

// childIndexFor selects the child to descend into when searching for key.
// An exact match descends to the child immediately right of the match.
func (n *node[K, V]) childIndexFor(key K) int {
	i := n.findKeyIndex(key)
	if i >= 0 {
		return i + 1
	}
	return -(i + 1)
}

func (n *node[K, V]) child(i int) *node[K, V] {
	assert(i >= 0 && i < len(n.children), "child index out of range")
	return n.children[i]
}

func (n *node[K, V]) insertEntryAt(i int, e Entry[K, V]) {
	assert(i >= 0 && i <= len(n.entries), "insertEntryAt index out of range")
	n.entries = insertAt(n.entries, i, e)
}

func (n *node[K, V]) removeEntryAt(i int) Entry[K, V] {
	assert(i >= 0 && i < len(n.entries), "removeEntryAt index out of range")
	e := n.entries[i]
	n.entries = removeAt(n.entries, i)
	return e
}

func (n *node[K, V]) appendEntries(entries ...Entry[K, V]) {
	n.entries = append(n.entries, entries...)
}

func (n *node[K, V]) insertChildAt(i int, child *node[K, V]) {
	assert(!n.leaf, "insertChildAt called on leaf")
	assert(child != nil, "insertChildAt called with nil child")
	assert(i >= 0 && i <= len(n.children), "insertChildAt index out of range")
	n.children = insertAt(n.children, i, child)
}

func (n *node[K, V]) removeChildAt(i int) *node[K, V] {
	assert(i >= 0 && i < len(n.children), "removeChildAt index out of range")
	child := n.children[i]
	n.children = removeAt(n.children, i)
	return child
}

func (n *node[K, V]) appendChildren(children ...*node[K, V]) {
	assert(!n.leaf || len(children) == 0, "appendChildren called on leaf")
	n.children = append(n.children, children...)
}

// keys returns a copy of the keys of n, in order.
func (n *node[K, V]) keys() []K {
	keys := make([]K, len(n.entries))
	for i, e := range n.entries {
		keys[i] = e.Key
	}
	return keys
}

func (n *node[K, V]) String() string {
	var b strings.Builder
	b.WriteString("Node[")
	for i, e := range n.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", e.Key)
	}
	b.WriteString("]")
	if n.leaf {
		b.WriteString(" (leaf)")
	}
	return b.String()
}
