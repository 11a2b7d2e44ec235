package btree

// ForEach walks all entries in ascending key order.
//
// Iteration stops early if fn returns false. fn must not modify the tree.
func (t *Tree[K, V]) ForEach(fn func(key K, value V) bool) {
	if t.IsEmpty() || fn == nil {
		return
	}
	t.forEachInNode(t.root, fn)
}

func (t *Tree[K, V]) forEachInNode(n *node[K, V], fn func(K, V) bool) bool {
	assert(n != nil, "forEachInNode called with nil node")
	for i, e := range n.entries {
		if !n.isLeaf() && !t.forEachInNode(n.children[i], fn) {
			return false
		}
		if !fn(e.Key, e.Value) {
			return false
		}
	}
	if !n.isLeaf() {
		return t.forEachInNode(n.children[len(n.children)-1], fn)
	}
	return true
}

// Min returns the entry with the smallest key. The boolean result is false
// for an empty tree.
func (t *Tree[K, V]) Min() (Entry[K, V], bool) {
	if t.IsEmpty() {
		return Entry[K, V]{}, false
	}
	n := t.root
	for !n.isLeaf() {
		n = n.child(0)
	}
	return n.entries[0], true
}

// Max returns the entry with the largest key. The boolean result is false
// for an empty tree.
func (t *Tree[K, V]) Max() (Entry[K, V], bool) {
	if t.IsEmpty() {
		return Entry[K, V]{}, false
	}
	n := t.root
	for !n.isLeaf() {
		n = n.child(len(n.children) - 1)
	}
	return n.entries[n.size()-1], true
}

// NodeInfo is a read-only view of a tree node, handed out by EachNode.
type NodeInfo[K any] struct {
	Keys  []K  // copy of the node's keys, in order
	Leaf  bool // true for leaf nodes
	Depth int  // 0 for the root
	Index int  // position among its parent's children, 0 for the root
}

// EachNode visits all nodes in pre-order, i.e. a parent before its children
// and children from left to right.
//
// Iteration stops with the first error returned by fn, which is passed
// through to the caller.
func (t *Tree[K, V]) EachNode(fn func(info NodeInfo[K]) error) error {
	if fn == nil {
		return nil
	}
	return t.eachNode(t.root, 0, 0, fn)
}

func (t *Tree[K, V]) eachNode(n *node[K, V], depth, index int, fn func(NodeInfo[K]) error) error {
	info := NodeInfo[K]{
		Keys:  n.keys(),
		Leaf:  n.isLeaf(),
		Depth: depth,
		Index: index,
	}
	if err := fn(info); err != nil {
		return err
	}
	for i, child := range n.children {
		if err := t.eachNode(child, depth+1, i, fn); err != nil {
			return err
		}
	}
	return nil
}
