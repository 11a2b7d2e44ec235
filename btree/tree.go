package btree

import (
	"cmp"
	"fmt"
)

// Tree is a B-tree mapping keys of type K to values of type V.
//
// The zero value is not usable; create trees with New or NewWithConfig.
type Tree[K, V any] struct {
	cfg    Config[K]
	root   *node[K, V]
	size   int
	height int // 1 for a leaf root, including the empty tree
}

// New creates an empty tree for naturally ordered keys with minimum degree
// minDegree. It returns an error wrapping ErrInvalidConfig if minDegree < 2.
func New[K cmp.Ordered, V any](minDegree int) (*Tree[K, V], error) {
	cfg := DefaultConfig[K]()
	cfg.MinDegree = minDegree
	return NewWithConfig[K, V](cfg)
}

// NewWithConfig creates an empty tree with validated configuration.
func NewWithConfig[K, V any](cfg Config[K]) (*Tree[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &Tree[K, V]{cfg: cfg.normalized()}
	t.root = t.makeNode(true)
	t.height = 1
	return t, nil
}

// MinDegree returns the minimum degree t of the tree.
func (t *Tree[K, V]) MinDegree() int {
	return t.cfg.MinDegree
}

// Len returns the number of entries in the tree.
func (t *Tree[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// IsEmpty reports whether the tree holds no entries.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.Len() == 0
}

// Height returns the number of levels of the tree. A tree consisting of a
// single (possibly empty) leaf has height 1.
func (t *Tree[K, V]) Height() int {
	return t.height
}

func (t *Tree[K, V]) String() string {
	return fmt.Sprintf("BTree(minDegree=%d, size=%d)", t.cfg.MinDegree, t.size)
}

// Search returns the value stored for key. The boolean result reports
// whether key is present, which allows storing zero values.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	var zero V
	if t.IsEmpty() {
		return zero, false
	}
	for n := t.root; ; {
		i := n.findKeyIndex(key)
		if i >= 0 {
			return n.entries[i].Value, true
		}
		if n.isLeaf() {
			return zero, false
		}
		n = n.child(-(i + 1))
	}
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Search(key)
	return ok
}

// Insert stores value for key.
//
// If key has already been present, its value is overwritten and the previous
// value is returned together with true; the size of the tree does not
// change. Otherwise Insert returns the zero value and false.
//
// Nodes are split pre-emptively on the way down: before the walk descends
// into a full child, that child is split. Every node entered therefore has
// room for one more entry.
func (t *Tree[K, V]) Insert(key K, value V) (V, bool) {
	var zero V
	if t.IsEmpty() {
		t.root.insertEntryAt(0, Entry[K, V]{Key: key, Value: value})
		t.size++
		return zero, false
	}
	if t.root.isFull() {
		t.splitRoot()
	}
	n := t.root
	for {
		i := n.findKeyIndex(key)
		if i >= 0 {
			prev := n.entries[i].Value
			n.entries[i].Value = value
			return prev, true
		}
		pos := -(i + 1)
		if n.isLeaf() {
			n.insertEntryAt(pos, Entry[K, V]{Key: key, Value: value})
			t.size++
			return zero, false
		}
		if n.child(pos).isFull() {
			t.splitChild(n, pos)
			// The promoted median may be the key itself or change the direction.
			i = n.findKeyIndex(key)
			if i >= 0 {
				prev := n.entries[i].Value
				n.entries[i].Value = value
				return prev, true
			}
			pos = -(i + 1)
		}
		n = n.child(pos)
	}
}

// pathStep records one step of a root-to-leaf walk: the node visited and
// the index of the child taken from it.
type pathStep[K, V any] struct {
	node  *node[K, V]
	child int
}

// Delete removes key from the tree.
//
// If key has been present, its value is returned together with true and the
// size of the tree decreases by one. Otherwise Delete returns the zero value
// and false and the tree is left untouched.
//
// The walk down records the path taken. If the key lives in an internal node,
// it is replaced by its in-order successor, which is then removed from its
// leaf. Afterwards underflow is repaired bottom-up along the recorded path.
func (t *Tree[K, V]) Delete(key K) (V, bool) {
	var zero V
	if t.IsEmpty() {
		return zero, false
	}
	path := make([]pathStep[K, V], 0, t.height)
	n := t.root
	for {
		i := n.findKeyIndex(key)
		if i >= 0 {
			removed := n.entries[i].Value
			if n.isLeaf() {
				n.removeEntryAt(i)
			} else {
				path = append(path, pathStep[K, V]{node: n, child: i + 1})
				leaf := n.child(i + 1)
				for !leaf.isLeaf() {
					path = append(path, pathStep[K, V]{node: leaf, child: 0})
					leaf = leaf.child(0)
				}
				n.entries[i] = leaf.removeEntryAt(0)
			}
			t.size--
			t.repair(path)
			return removed, true
		}
		if n.isLeaf() {
			return zero, false
		}
		pos := -(i + 1)
		path = append(path, pathStep[K, V]{node: n, child: pos})
		n = n.child(pos)
	}
}

// repair restores minimum occupancy bottom-up along a recorded path. Each
// step names a parent and the child to check. Repair stops at the first
// child that does not underflow, as nodes above it are unchanged.
func (t *Tree[K, V]) repair(path []pathStep[K, V]) {
	for level := len(path) - 1; level >= 0; level-- {
		step := path[level]
		if !t.fixUnderflow(step.node, step.child) {
			break
		}
	}
	t.shrinkRoot()
}

// shrinkRoot replaces an empty internal root by its only child.
func (t *Tree[K, V]) shrinkRoot() {
	if t.root.size() > 0 || t.root.isLeaf() {
		return
	}
	assert(len(t.root.children) == 1, "empty internal root must have exactly one child")
	t.root = t.root.child(0)
	t.height--
	t.emit(EventShrink, nil)
}
