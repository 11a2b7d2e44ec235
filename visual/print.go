package visual

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/npillmayer/kvtree/btree"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"github.com/xlab/treeprint"
	"golang.org/x/term"
)

// Options control the rendering of a tree.
type Options struct {
	Color       bool           // colorize node labels
	MaxKeyWidth int            // truncate keys wider than this many cells; 0 means no limit
	Context     *uax11.Context // width context for keys; nil means uax11.LatinContext
}

// Ellipsis is appended to truncated keys.
const Ellipsis = "…"

var (
	innerColor = color.New(color.FgBlue, color.Bold)
	leafColor  = color.New(color.FgGreen)
	setupOnce  sync.Once
)

func setup() {
	setupOnce.Do(func() {
		grapheme.SetupGraphemeClasses()
		innerColor.EnableColor()
		leafColor.EnableColor()
	})
}

// OptionsFromTerminal creates options by inspecting the terminal at file
// descriptor fd. Colors are used only for interactive terminals, and keys are
// limited to a quarter of the terminal width.
func OptionsFromTerminal(fd int) Options {
	opts := Options{
		MaxKeyWidth: 20,
		Context:     uax11.ContextFromEnvironment(),
	}
	if term.IsTerminal(fd) {
		opts.Color = !color.NoColor
		if w, _, err := term.GetSize(fd); err == nil && w >= 40 {
			opts.MaxKeyWidth = w / 4
		}
	}
	T().P("visual", "terminal").Debugf("color=%v, max key width=%d", opts.Color, opts.MaxKeyWidth)
	return opts
}

// Render returns a text rendering of tree, one node per line.
func Render[K, V any](tree *btree.Tree[K, V], opts Options) (string, error) {
	setup()
	if opts.Context == nil {
		opts.Context = uax11.LatinContext
	}
	root := treeprint.NewWithRoot(tree.String())
	// branches[d] is the most recent node at depth d, i.e. the parent of
	// the next node at depth d+1 in pre-order
	var branches []treeprint.Tree
	err := tree.EachNode(func(info btree.NodeInfo[K]) error {
		parent := root
		if info.Depth > 0 {
			if info.Depth > len(branches) {
				return fmt.Errorf("visual: node at depth %d without parent", info.Depth)
			}
			parent = branches[info.Depth-1]
		}
		label := nodeLabel(info, opts)
		var branch treeprint.Tree
		if info.Leaf {
			branch = parent.AddNode(label)
		} else {
			branch = parent.AddBranch(label)
		}
		branches = append(branches[:info.Depth], branch)
		return nil
	})
	if err != nil {
		T().Errorf("%v", err)
		return "", err
	}
	return root.String(), nil
}

// Print writes a text rendering of tree to w.
func Print[K, V any](w io.Writer, tree *btree.Tree[K, V], opts Options) error {
	s, err := Render(tree, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func nodeLabel[K any](info btree.NodeInfo[K], opts Options) string {
	keys := make([]string, len(info.Keys))
	for i, k := range info.Keys {
		keys[i] = Truncate(fmt.Sprintf("%v", k), opts.MaxKeyWidth, opts.Context)
	}
	label := "[" + strings.Join(keys, " ") + "]"
	if !opts.Color {
		return label
	}
	if info.Leaf {
		return leafColor.Sprint(label)
	}
	return innerColor.Sprint(label)
}

// Width returns the number of fixed-width terminal cells s occupies.
func Width(s string, ctx *uax11.Context) int {
	setup()
	if ctx == nil {
		ctx = uax11.LatinContext
	}
	return uax11.StringWidth(grapheme.StringFromString(s), ctx)
}

// Truncate shortens s to at most maxWidth cells, including a trailing
// Ellipsis. Strings that fit, and all strings if maxWidth <= 0, are returned
// unchanged.
func Truncate(s string, maxWidth int, ctx *uax11.Context) string {
	if maxWidth <= 0 || Width(s, ctx) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + Ellipsis
		if Width(t, ctx) <= maxWidth {
			return t
		}
	}
	return Ellipsis
}
