// Package maincmd implements the command-line driver: flag parsing,
// dispatch between REPL and file-execution mode, and translating the
// three possible outcomes (success, compile-time error, runtime error)
// into the matching process exit code. Wraps mainer.Parser /
// mainer.Stdio / mainer.CancelOnSignal around a thin Cmd type.
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "lox"

// Exit codes follow the classic incorrect-usage / compile-time-error /
// runtime-error triad (64/65/70), per the sysexits.h convention.
const (
	exitUsageError   mainer.ExitCode = 64
	exitCompileError mainer.ExitCode = 65
	exitRuntimeError mainer.ExitCode = 70
)

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [script]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [script]
       %[1]s -h|--help
       %[1]s -v|--version

A tree-walking interpreter for the lox language.

With no arguments, %[1]s starts an interactive read-eval-print loop. With a
single script argument, it executes that file and exits.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the top-level command, populated by mainer.Parser from the
// process arguments.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("expected at most one script argument, got %d", len(c.args))
	}
	return nil
}

// Main is the entry point called from cmd/lox/main.go.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // kept disabled, ready for a future flag that wants env-var binding
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsageError
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if len(c.args) == 1 {
		return runFile(ctx, stdio, c.args[0])
	}
	return runREPL(ctx, stdio)
}
