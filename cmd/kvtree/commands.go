package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/npillmayer/kvtree/textfile"
	"github.com/npillmayer/kvtree/visual"
)

type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int // -1 for unlimited
	run     func(ctx context.Context, sh *Shell, w io.Writer, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"set":    {"set <key> <value>", "store value for key", 2, -1, cmdSet},
		"get":    {"get <key>", "print the value of key", 1, 1, cmdGet},
		"del":    {"del <key>", "delete key", 1, 1, cmdDel},
		"has":    {"has <key>", "report whether key is present", 1, 1, cmdHas},
		"len":    {"len", "print the number of keys", 0, 0, cmdLen},
		"list":   {"list", "list all entries in key order", 0, 0, cmdList},
		"min":    {"min", "print the entry with the smallest key", 0, 0, cmdMin},
		"max":    {"max", "print the entry with the largest key", 0, 0, cmdMax},
		"print":  {"print", "draw the tree structure", 0, 0, cmdPrint},
		"dot":    {"dot", "write the tree in Graphviz DOT format", 0, 0, cmdDot},
		"check":  {"check", "validate the tree invariants", 0, 0, cmdCheck},
		"seed":   {"seed <n>", "insert n random words", 1, 1, cmdSeed},
		"source": {"source <file>", "execute commands from a file", 1, 1, cmdSource},
		"watch":  {"watch on|off", "report splits, borrows and merges", 1, 1, cmdWatch},
		"help":   {"help", "show this text", 0, 0, cmdHelp},
		"exit":   {"exit", "leave the shell", 0, 0, cmdExit},
		"quit":   {"quit", "leave the shell", 0, 0, cmdExit},
	}
}

func cmdSet(_ context.Context, sh *Shell, w io.Writer, args []string) error {
	value := strings.Join(args[1:], " ")
	if prev, replaced := sh.tree.Insert(args[0], value); replaced {
		fmt.Fprintf(w, "updated %s (was %q)\n", args[0], prev)
		return nil
	}
	fmt.Fprintln(w, "ok")
	return nil
}

func cmdGet(_ context.Context, sh *Shell, w io.Writer, args []string) error {
	if v, ok := sh.tree.Search(args[0]); ok {
		fmt.Fprintln(w, v)
		return nil
	}
	fmt.Fprintln(w, "(not found)")
	return nil
}

func cmdDel(_ context.Context, sh *Shell, w io.Writer, args []string) error {
	if v, ok := sh.tree.Delete(args[0]); ok {
		fmt.Fprintf(w, "deleted %s (was %q)\n", args[0], v)
		return nil
	}
	fmt.Fprintln(w, "(not found)")
	return nil
}

func cmdHas(_ context.Context, sh *Shell, w io.Writer, args []string) error {
	fmt.Fprintln(w, sh.tree.Contains(args[0]))
	return nil
}

func cmdLen(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	fmt.Fprintln(w, sh.tree.Len())
	return nil
}

func cmdList(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	sh.tree.ForEach(func(k, v string) bool {
		fmt.Fprintf(w, "%s = %s\n", k, v)
		return true
	})
	return nil
}

func cmdMin(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	if e, ok := sh.tree.Min(); ok {
		fmt.Fprintf(w, "%s = %s\n", e.Key, e.Value)
		return nil
	}
	fmt.Fprintln(w, "(empty)")
	return nil
}

func cmdMax(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	if e, ok := sh.tree.Max(); ok {
		fmt.Fprintf(w, "%s = %s\n", e.Key, e.Value)
		return nil
	}
	fmt.Fprintln(w, "(empty)")
	return nil
}

func cmdPrint(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	return visual.Print(w, sh.tree, sh.render)
}

func cmdDot(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	return sh.tree.ToDot(w)
}

func cmdCheck(_ context.Context, sh *Shell, w io.Writer, _ []string) error {
	if err := sh.tree.Check(); err != nil {
		return err
	}
	fmt.Fprintf(w, "ok (%d keys, height %d)\n", sh.tree.Len(), sh.tree.Height())
	return nil
}

func cmdSeed(_ context.Context, sh *Shell, w io.Writer, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("%w: seed <n> needs a non-negative number, have %q", errUsage, args[0])
	}
	added := 0
	for i := 0; i < n; i++ {
		if _, replaced := sh.tree.Insert(faker.Word()+faker.Word(), faker.Word()); !replaced {
			added++
		}
	}
	fmt.Fprintf(w, "inserted %d new keys, %d total\n", added, sh.tree.Len())
	return nil
}

func cmdSource(ctx context.Context, sh *Shell, w io.Writer, args []string) error {
	return textfile.ReadLines(ctx, args[0], func(l textfile.Line) error {
		err := sh.exec(ctx, w, l.Text)
		if err != nil && !errors.Is(err, errExit) {
			return fmt.Errorf("%s:%d: %w", args[0], l.No, err)
		}
		return err
	})
}

func cmdWatch(_ context.Context, sh *Shell, w io.Writer, args []string) error {
	switch strings.ToLower(args[0]) {
	case "on":
		if err := sh.bus.watch("tree"); err != nil {
			return err
		}
		fmt.Fprintln(w, "watching structural changes")
	case "off":
		sh.bus.unwatch("tree")
		fmt.Fprintln(w, "stopped watching")
	default:
		return fmt.Errorf("%w: %s", errUsage, commands["watch"].usage)
	}
	return nil
}

func cmdHelp(_ context.Context, _ *Shell, w io.Writer, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Available commands:")
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-20s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func cmdExit(context.Context, *Shell, io.Writer, []string) error {
	return errExit
}
