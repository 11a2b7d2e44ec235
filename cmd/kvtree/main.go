/*
Command kvtree is an interactive shell for an in-memory B-tree with string
keys and values.

	kvtree --degree 2                     # interactive
	kvtree -e "seed 20" -e "print"        # batch mode
	KVTREE_TRACE=debug kvtree             # trace structural changes

Settings may be given as flags, as environment variables or in a `.env` file
in the working directory.
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/npillmayer/kvtree/btree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "kvtree",
		Usage:   "interactive shell for an in-memory B-tree",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "degree",
				Aliases: []string{"t"},
				Usage:   "minimum degree of the tree (>= 2)",
				Value:   btree.DefaultMinDegree,
				EnvVars: []string{"KVTREE_DEGREE"},
			},
			&cli.StringFlag{
				Name:    "trace",
				Usage:   "trace level: error, info or debug",
				Value:   "error",
				EnvVars: []string{"KVTREE_TRACE"},
			},
			&cli.BoolFlag{
				Name:    "color",
				Usage:   "colorize tree output on terminals",
				Value:   true,
				EnvVars: []string{"KVTREE_COLOR"},
			},
			&cli.StringSliceFlag{
				Name:    "exec",
				Aliases: []string{"e"},
				Usage:   "execute a shell command and exit (repeatable)",
			},
		},
		Action: runShell,
	}
	return app.Run(args)
}

func runShell(cctx *cli.Context) error {
	if err := setupTracing(cctx.String("trace")); err != nil {
		return err
	}
	fd := int(os.Stdout.Fd())
	sh, err := NewShell(Options{
		MinDegree:   cctx.Int("degree"),
		Color:       cctx.Bool("color"),
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		TerminalFD:  fd,
	}, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer sh.Close()
	if cmds := cctx.StringSlice("exec"); len(cmds) > 0 {
		for _, cmd := range cmds {
			err := sh.Exec(cctx.Context, cmd)
			if errors.Is(err, errExit) {
				return nil
			} else if err != nil {
				return err
			}
		}
		return nil
	}
	return sh.Run(cctx.Context)
}

func setupTracing(level string) error {
	gtrace.CoreTracer = gologadapter.New()
	switch strings.ToLower(level) {
	case "error", "":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	case "info":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	case "debug":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	default:
		return fmt.Errorf("unknown trace level %q", level)
	}
	return nil
}
