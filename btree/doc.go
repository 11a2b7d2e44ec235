/*
Package btree provides an in-memory B-tree mapping ordered keys to values.

The tree is parameterized by a minimum degree t (t >= 2). Every node other
than the root holds between t-1 and 2t-1 entries, internal nodes hold one
more child than entries, and all leaves live at the same depth. Entries are
stored in internal nodes as well as in leaves, i.e. this is a classic B-tree,
not a B+ tree.

Insertion splits full nodes pre-emptively on the way down, so a single
top-down pass suffices. Deletion walks down once, recording the path it took,
and then repairs underflowing nodes bottom-up along that path by borrowing
from a sibling or merging with one.

Current status:
  - generic keys via a comparison function (`New` uses cmp.Compare),
  - search, insert (with overwrite), delete (with successor replacement),
  - borrow-left, borrow-right, merge-left, merge-right rebalancing,
  - smallest and largest entry (`Min`, `Max`),
  - invariant checker (`Check`) for tests and diagnostics,
  - structural event hooks (`Config.Observer`),
  - Graphviz export (`ToDot`).

A Tree is not safe for concurrent use. Clients sharing a tree between
goroutines have to serialize access themselves.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package btree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
