package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/mainer"
)

// runFile scans, parses and executes the script at path: a compile-time
// error (scan or parse) exits 65, a runtime error exits 70, otherwise
// the program exits with success.
func runFile(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return exitUsageError
	}

	prog, exitCode, ok := compile(stdio, src)
	if !ok {
		return exitCode
	}

	in := interp.New(stdio.Stdout, stdio.Stderr, stdio.Stdin)
	if err := runWithContext(ctx, in, prog); err != nil {
		// Each failing statement was already reported to stdio.Stderr as
		// the interpreter caught it; only the exit status still needs to
		// reflect the failure.
		return exitRuntimeError
	}
	return mainer.Success
}

// compile scans and parses src, printing any diagnostics to stdio.Stderr.
// ok is false if either phase failed.
func compile(stdio mainer.Stdio, src []byte) (prog *ast.Program, exitCode mainer.ExitCode, ok bool) {
	toks, err := scanner.Scan(src)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return nil, exitCompileError, false
	}
	p, err := parser.Parse(toks)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return nil, exitCompileError, false
	}
	return p, mainer.Success, true
}

// runWithContext runs prog, unless ctx is already canceled when it is
// called, in which case it runs nothing and returns nil. A cancellation
// that happens once Run has started does not stop the program.
func runWithContext(ctx context.Context, in *interp.Interpreter, prog *ast.Program) error {
	if err := ctx.Err(); err != nil {
		return nil
	}
	return in.Run(prog)
}
