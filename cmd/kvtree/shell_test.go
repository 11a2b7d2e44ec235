package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/kvtree/btree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	os.Exit(m.Run())
}

func newTestShell(t *testing.T, degree int, input string) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	sh, err := NewShell(Options{MinDegree: degree, TerminalFD: -1}, strings.NewReader(input), out, errOut)
	require.NoError(t, err)
	t.Cleanup(sh.Close)
	return sh, out, errOut
}

// execOut executes a command and returns its output.
func execOut(t *testing.T, sh *Shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, sh.Exec(context.Background(), line), "command %q", line)
	return out.String()
}

func TestShellBasicCommands(t *testing.T) {
	sh, out, _ := newTestShell(t, 2, "")
	assert.Equal(t, "ok\n", execOut(t, sh, out, "set apple red fruit"))
	assert.Equal(t, "red fruit\n", execOut(t, sh, out, "get apple"))
	assert.Equal(t, "updated apple (was \"red fruit\")\n", execOut(t, sh, out, "set apple green"))
	assert.Equal(t, "true\n", execOut(t, sh, out, "has apple"))
	assert.Equal(t, "false\n", execOut(t, sh, out, "has pear"))
	assert.Equal(t, "(not found)\n", execOut(t, sh, out, "get pear"))
	assert.Equal(t, "1\n", execOut(t, sh, out, "len"))
	assert.Equal(t, "deleted apple (was \"green\")\n", execOut(t, sh, out, "DEL apple"))
	assert.Equal(t, "(not found)\n", execOut(t, sh, out, "del apple"))
	assert.Equal(t, "0\n", execOut(t, sh, out, "len"))
	assert.Equal(t, "", execOut(t, sh, out, "# just a comment"))
	assert.Equal(t, "", execOut(t, sh, out, "   "))
}

func TestShellErrors(t *testing.T) {
	sh, _, _ := newTestShell(t, 2, "")
	ctx := context.Background()
	assert.ErrorIs(t, sh.Exec(ctx, "frobnicate"), errUnknownCommand)
	assert.ErrorIs(t, sh.Exec(ctx, "set onlykey"), errUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "get a b"), errUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "seed many"), errUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "watch maybe"), errUsage)
	assert.ErrorIs(t, sh.Exec(ctx, "exit"), errExit)
}

func TestShellInvalidDegree(t *testing.T) {
	_, err := NewShell(Options{MinDegree: 1, TerminalFD: -1}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, btree.ErrInvalidConfig)
}

func TestShellOrderedQueries(t *testing.T) {
	sh, out, _ := newTestShell(t, 2, "")
	for _, k := range []string{"d", "b", "f", "a", "c", "e"} {
		execOut(t, sh, out, "set "+k+" "+strings.ToUpper(k))
	}
	assert.Equal(t, "a = A\nb = B\nc = C\nd = D\ne = E\nf = F\n", execOut(t, sh, out, "list"))
	assert.Equal(t, "a = A\n", execOut(t, sh, out, "min"))
	assert.Equal(t, "f = F\n", execOut(t, sh, out, "max"))
	assert.Contains(t, execOut(t, sh, out, "check"), "ok (6 keys")
}

func TestShellMinMaxOnEmptyTree(t *testing.T) {
	sh, out, _ := newTestShell(t, 3, "")
	assert.Equal(t, "(empty)\n", execOut(t, sh, out, "min"))
	assert.Equal(t, "(empty)\n", execOut(t, sh, out, "max"))
}

func TestShellSeedPrintDot(t *testing.T) {
	sh, out, _ := newTestShell(t, 2, "")
	assert.Contains(t, execOut(t, sh, out, "seed 50"), "inserted")
	assert.Greater(t, sh.tree.Len(), 0)
	assert.Contains(t, execOut(t, sh, out, "check"), "ok (")
	printed := execOut(t, sh, out, "print")
	assert.True(t, strings.HasPrefix(printed, "BTree(minDegree=2"), "unexpected print output %q", printed)
	assert.Contains(t, printed, "[")
	assert.Contains(t, execOut(t, sh, out, "dot"), "strict digraph {")
}

func TestShellWatch(t *testing.T) {
	sh, out, _ := newTestShell(t, 2, "")
	assert.Equal(t, "watching structural changes\n", execOut(t, sh, out, "watch on"))
	execOut(t, sh, out, "watch on") // idempotent
	execOut(t, sh, out, "set a 1")
	execOut(t, sh, out, "set b 2")
	execOut(t, sh, out, "set c 3")
	// the root [a b c] is full: inserting d splits it around b
	assert.Equal(t, "[tree] grow b (height=2)\nok\n", execOut(t, sh, out, "set d 4"))
	assert.Equal(t, "[tree] borrow-right c (height=2)\ndeleted a (was \"1\")\n", execOut(t, sh, out, "del a"))
	assert.Equal(t, "stopped watching\n", execOut(t, sh, out, "watch off"))
	assert.Equal(t, "deleted b (was \"2\")\n", execOut(t, sh, out, "del b"))
	assert.Contains(t, execOut(t, sh, out, "check"), "ok (2 keys, height 1)")
}

func TestShellWatchStopsPromptly(t *testing.T) {
	var trace bytes.Buffer
	prev := gtrace.CoreTracer
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetOutput(&trace)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	t.Cleanup(func() { gtrace.CoreTracer = prev })
	//
	sh, out, errOut := newTestShell(t, 2, "")
	execOut(t, sh, out, "watch on")
	execOut(t, sh, out, "set a 1")
	start := time.Now()
	assert.Equal(t, "stopped watching\n", execOut(t, sh, out, "watch off"))
	assert.Less(t, time.Since(start), flushTimeout/2, "watch off must not wait for a timeout")
	assert.Empty(t, sh.bus.watchers)
	//
	execOut(t, sh, out, "watch on")
	start = time.Now()
	sh.Close()
	assert.Less(t, time.Since(start), flushTimeout/2, "Close must not wait for a timeout")
	assert.Empty(t, errOut.String())
	assert.Empty(t, trace.String())
}

func TestShellSource(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.kv")
	require.NoError(t, os.WriteFile(script, []byte("# setup\nset x 10\nset y 20\nlist\n"), 0o644))
	sh, out, _ := newTestShell(t, 3, "")
	assert.Equal(t, "ok\nok\nx = 10\ny = 20\n", execOut(t, sh, out, "source "+script))

	broken := filepath.Join(dir, "broken.kv")
	require.NoError(t, os.WriteFile(broken, []byte("set z 30\nbogus\nset w 40\n"), 0o644))
	err := sh.Exec(context.Background(), "source "+broken)
	require.ErrorIs(t, err, errUnknownCommand)
	assert.Contains(t, err.Error(), "broken.kv:2")
	assert.True(t, sh.tree.Contains("z"))
	assert.False(t, sh.tree.Contains("w"), "script should stop at the first failing line")

	assert.Error(t, sh.Exec(context.Background(), "source "+filepath.Join(dir, "missing.kv")))
}

func TestShellSourceStopsLongScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "long.kv")
	lines := "set a 1\nbogus\n" + strings.Repeat("set b 2\n", 500)
	require.NoError(t, os.WriteFile(script, []byte(lines), 0o644))
	sh, _, _ := newTestShell(t, 2, "")
	for i := 0; i < 3; i++ {
		err := sh.Exec(context.Background(), "source "+script)
		require.ErrorIs(t, err, errUnknownCommand)
		assert.Contains(t, err.Error(), "long.kv:2")
	}
	assert.False(t, sh.tree.Contains("b"))
}

func TestShellRun(t *testing.T) {
	input := "set a 1\nbogus\nget a\nexit\nset b 2\n"
	sh, out, errOut := newTestShell(t, 2, input)
	require.NoError(t, sh.Run(context.Background()))
	assert.Equal(t, "ok\n1\n", out.String())
	assert.Contains(t, errOut.String(), "unknown command")
	assert.False(t, sh.tree.Contains("b"), "commands after exit must not run")
}

func TestShellRunInteractive(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	sh, err := NewShell(Options{MinDegree: 3, Interactive: true, TerminalFD: -1},
		strings.NewReader("len\n"), out, errOut)
	require.NoError(t, err)
	defer sh.Close()
	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "minimum degree 3")
	assert.Contains(t, out.String(), prompt+"0\n")
}

func TestShellHelp(t *testing.T) {
	sh, out, _ := newTestShell(t, 2, "")
	help := execOut(t, sh, out, "help")
	for name, cmd := range commands {
		assert.Contains(t, help, cmd.usage, "help lacks command %s", name)
	}
}

func TestSetupTracing(t *testing.T) {
	defer func() {
		gtrace.CoreTracer = gologadapter.New()
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	}()
	for _, level := range []string{"error", "INFO", "debug", ""} {
		assert.NoError(t, setupTracing(level), "level %q", level)
	}
	assert.Error(t, setupTracing("verbose"))
}

func TestRunBatchMode(t *testing.T) {
	defer func() {
		gtrace.CoreTracer = gologadapter.New()
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	}()
	require.NoError(t, run([]string{"kvtree", "-t", "2", "-e", "set a 1", "-e", "check", "-e", "exit", "-e", "bogus"}))
	assert.ErrorIs(t, run([]string{"kvtree", "-e", "bogus"}), errUnknownCommand)
	assert.ErrorIs(t, run([]string{"kvtree", "--degree", "1", "-e", "len"}), btree.ErrInvalidConfig)
	assert.Error(t, run([]string{"kvtree", "--trace", "loud", "-e", "len"}))
}
