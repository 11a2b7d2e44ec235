package btree

import "fmt"

// EventKind classifies structural changes of a tree.
type EventKind int8

const (
	// EventSplit: a full node has been split and its median promoted.
	EventSplit EventKind = iota
	// EventGrow: the root has been split and the tree gained one level.
	EventGrow
	// EventBorrowLeft: an underflowing node received an entry from its left sibling.
	EventBorrowLeft
	// EventBorrowRight: an underflowing node received an entry from its right sibling.
	EventBorrowRight
	// EventMerge: two siblings and their separator have been merged into one node.
	EventMerge
	// EventShrink: an empty root has been replaced by its only child.
	EventShrink
)

var eventNames = [...]string{
	EventSplit:       "split",
	EventGrow:        "grow",
	EventBorrowLeft:  "borrow-left",
	EventBorrowRight: "borrow-right",
	EventMerge:       "merge",
	EventShrink:      "shrink",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventNames[k]
}

// Event describes a single structural change.
//
// Separator is the entry key moved between levels by the change: the promoted
// median for splits, the new parent separator for borrows and the key pulled
// down for merges. It is not set for EventShrink. Height is the tree height
// after the change.
type Event struct {
	Kind      EventKind
	Separator any
	Height    int
}

func (e Event) String() string {
	if e.Kind == EventShrink {
		return fmt.Sprintf("%s (height=%d)", e.Kind, e.Height)
	}
	return fmt.Sprintf("%s %v (height=%d)", e.Kind, e.Separator, e.Height)
}

func (t *Tree[K, V]) emit(kind EventKind, separator any) {
	ev := Event{Kind: kind, Separator: separator, Height: t.height}
	T().Debugf("btree: %s", ev)
	if t.cfg.Observer != nil {
		t.cfg.Observer(ev)
	}
}
