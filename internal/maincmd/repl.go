package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
	"github.com/mna/mainer"
)

const (
	replPrompt   = "> "
	replExitLine = "exit()"
)

// runREPL implements the interactive read-eval-print loop. Unlike file
// mode, a compile or runtime error on one line is reported but does not
// exit the process; the loop simply prompts again. A bare expression
// statement's value is also echoed to stdout, matching the convenience
// most interactive language shells offer.
func runREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	in := interp.New(stdio.Stdout, stdio.Stderr, stdio.Stdin)
	sc := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, replPrompt)
		if ctx.Err() != nil || !sc.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return mainer.Success
		}

		line := sc.Text()
		if line == "" {
			continue
		}
		if line == replExitLine {
			return mainer.Success
		}

		toks, err := scanner.Scan([]byte(line))
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			continue
		}
		prog, err := parser.Parse(toks)
		if err != nil {
			// interactive lines are commonly typed without the trailing ';'
			// a statement requires; retry with one inserted before EOF, and
			// report the original error if that doesn't help
			retry, retryErr := parser.Parse(withTrailingSemi(toks))
			if retryErr != nil {
				scanner.PrintError(stdio.Stderr, err)
				continue
			}
			prog = retry
		}

		execREPLProgram(in, prog, stdio)
	}
}

// execREPLProgram runs every statement in prog, echoing the result of a
// final bare expression statement instead of discarding it. Runtime
// errors from ordinary statements are reported by the interpreter itself
// as each failing statement is caught (see Interpreter.Run); only the
// bare-expression echo path below, which evaluates directly instead of
// going through Run, needs to print its own error here, and only when it
// is a *interp.RuntimeError: a failure inside a called function's body
// was already reported by the interpreter.
func execREPLProgram(in *interp.Interpreter, prog *ast.Program, stdio mainer.Stdio) {
	for i, s := range prog.Stmts {
		if i == len(prog.Stmts)-1 {
			if es, ok := s.(*ast.ExprStmt); ok {
				v, err := in.EvalExpr(es.Expression)
				if err != nil {
					if _, ok := err.(*interp.RuntimeError); ok {
						scanner.PrintError(stdio.Stderr, err)
					}
					return
				}
				fmt.Fprintln(stdio.Stdout, interp.Stringify(v))
				continue
			}
		}
		in.Run(&ast.Program{Stmts: []ast.Stmt{s}})
	}
}

// withTrailingSemi returns toks with a ';' token inserted before the final
// EOF, unless one is already there.
func withTrailingSemi(toks []scanner.TokenAndValue) []scanner.TokenAndValue {
	if len(toks) < 2 || toks[len(toks)-2].Token == token.SEMI {
		return toks
	}
	eof := toks[len(toks)-1]
	out := make([]scanner.TokenAndValue, 0, len(toks)+1)
	out = append(out, toks[:len(toks)-1]...)
	out = append(out, scanner.TokenAndValue{Token: token.SEMI, Pos: eof.Pos, Lexeme: ";"}, eof)
	return out
}
