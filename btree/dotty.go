package btree

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type nodeids[K, V any] struct {
	idTable map[*node[K, V]]int
	max     int
}

func newtable[K, V any]() nodeids[K, V] {
	return nodeids[K, V]{
		idTable: make(map[*node[K, V]]int),
		max:     1,
	}
}

func (ids nodeids[K, V]) find(n *node[K, V]) int {
	return ids.idTable[n]
}

func (ids *nodeids[K, V]) alloc(n *node[K, V]) int {
	if id := ids.find(n); id > 0 {
		return id
	}
	ids.idTable[n] = ids.max
	ids.max++
	return ids.max - 1
}

// ToDot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes).
//
// Every node is rendered as an HTML-like table with one cell per key and one
// port per child pointer. Keys are formatted with %v.
func (t *Tree[K, V]) ToDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString("strict digraph {\n")
	b.WriteString("\tnode [fontname=Arial,fontsize=12,shape=plaintext];\n")
	ids := newtable[K, V]()
	var nodelist, edgelist strings.Builder
	var walk func(n *node[K, V])
	walk = func(n *node[K, V]) {
		id := ids.alloc(n)
		fmt.Fprintf(&nodelist, "\t\"%d\" [label=<%s>];\n", id, dotLabel(n))
		for i, child := range n.children {
			cid := ids.alloc(child)
			fmt.Fprintf(&edgelist, "\t\"%d\":c%d -> \"%d\";\n", id, i, cid)
			walk(child)
		}
	}
	walk(t.root)
	b.WriteString(nodelist.String())
	b.WriteString(edgelist.String())
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	if err != nil {
		T().Errorf("btree DOT: %s", err.Error())
	}
	return err
}

func dotLabel[K, V any](n *node[K, V]) string {
	var b strings.Builder
	color := "lightblue"
	if n.isLeaf() {
		color = "palegreen"
	}
	fmt.Fprintf(&b, `<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" BGCOLOR="%s"><TR>`, color)
	for i, e := range n.entries {
		if !n.isLeaf() {
			fmt.Fprintf(&b, `<TD PORT="c%d"> </TD>`, i)
		}
		fmt.Fprintf(&b, "<TD>%s</TD>", html.EscapeString(fmt.Sprintf("%v", e.Key)))
	}
	if !n.isLeaf() {
		fmt.Fprintf(&b, `<TD PORT="c%d"> </TD>`, len(n.entries))
	} else if len(n.entries) == 0 {
		b.WriteString("<TD> </TD>")
	}
	b.WriteString("</TR></TABLE>")
	return b.String()
}
