package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/kvtree/btree"
	"github.com/npillmayer/kvtree/visual"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

const prompt = "kvtree> "

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
	errExit           = errors.New("exit requested")
)

// Options configure a Shell.
type Options struct {
	MinDegree   int
	Color       bool // colorize tree output, if the terminal supports it
	Interactive bool // print a prompt and a welcome banner
	TerminalFD  int  // file descriptor to inspect for tree rendering options
}

// Shell reads commands line by line and applies them to a B-tree with
// string keys and values.
type Shell struct {
	tree   *btree.Tree[string, string]
	bus    *eventBus
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
	opts   Options
	render visual.Options
	errCol *color.Color
}

// NewShell creates a shell with an empty tree.
func NewShell(opts Options, in io.Reader, out, errOut io.Writer) (*Shell, error) {
	bus := newEventBus()
	cfg := btree.DefaultConfig[string]()
	cfg.MinDegree = opts.MinDegree
	cfg.Observer = bus.publish
	tree, err := btree.NewWithConfig[string, string](cfg)
	if err != nil {
		bus.close()
		return nil, err
	}
	render := visual.OptionsFromTerminal(opts.TerminalFD)
	render.Color = render.Color && opts.Color
	return &Shell{
		tree:   tree,
		bus:    bus,
		in:     bufio.NewScanner(in),
		out:    out,
		errOut: errOut,
		opts:   opts,
		render: render,
		errCol: color.New(color.FgRed),
	}, nil
}

// Close stops all event watchers.
func (sh *Shell) Close() {
	sh.bus.close()
}

// Run executes commands until input is exhausted, an exit command is read or
// ctx is done. Failing commands are reported and do not end the loop.
func (sh *Shell) Run(ctx context.Context) error {
	if sh.opts.Interactive {
		fmt.Fprintf(sh.out, "B-tree shell, minimum degree %d. Enter \"help\" for usage hints.\n",
			sh.tree.MinDegree())
	}
	for {
		if sh.opts.Interactive {
			fmt.Fprint(sh.out, prompt)
		}
		if !sh.in.Scan() {
			return sh.in.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := sh.Exec(ctx, sh.in.Text())
		if errors.Is(err, errExit) {
			return nil
		} else if err != nil {
			sh.errCol.Fprintf(sh.errOut, "error: %v\n", err)
		}
	}
}

// Exec executes a single command line, writing its output to the shell's
// output. An exit command is reported as errExit.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	return sh.exec(ctx, sh.out, line)
}

func (sh *Shell) exec(ctx context.Context, w io.Writer, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q, try \"help\"", errUnknownCommand, name)
	}
	if len(fields)-1 < cmd.minArgs || (cmd.maxArgs >= 0 && len(fields)-1 > cmd.maxArgs) {
		return fmt.Errorf("%w: %s", errUsage, cmd.usage)
	}
	T().Debugf("shell: %s", line)
	var buf bytes.Buffer
	err := cmd.run(ctx, sh, &buf, fields[1:])
	for _, ev := range sh.bus.flush() {
		fmt.Fprintln(w, ev)
	}
	if _, werr := w.Write(buf.Bytes()); werr != nil && err == nil {
		err = werr
	}
	return err
}
