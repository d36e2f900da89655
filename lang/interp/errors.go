package interp

import (
	"fmt"
	"strings"

	"github.com/mna/lox/lang/token"
)

// Frame is one line of a RuntimeError's context trace: the position and
// textual rendering of an enclosing binary/unary/call expression the
// error unwound through on its way to being reported.
type Frame struct {
	Pos  token.Pos
	Expr string
}

// RuntimeError is raised by the evaluator for any operation that fails
// against the dynamic type of its operands (e.g. adding a number to a
// string), or against an undefined name. It carries the source position of
// the expression or statement that failed, always with an accurate source
// position attached. Trace accumulates a
// line-tagged context of the enclosing expressions the error passed
// through as it unwound, printed alongside the message when reported.
type RuntimeError struct {
	Pos   token.Pos
	Msg   string
	Trace []Frame
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		fmt.Fprintf(&sb, "[line %d] %s", e.Pos.Line(), e.Msg)
	} else {
		sb.WriteString(e.Msg)
	}
	for _, f := range e.Trace {
		fmt.Fprintf(&sb, "\n[line %d] in %s", f.Pos.Line(), f.Expr)
	}
	return sb.String()
}

func newRuntimeError(pos token.Pos, format string, args ...any) error {
	return &RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// addTrace appends a context frame to err if it is a *RuntimeError,
// recording that it unwound through the expression at pos rendered as
// text; any other error (a returnSignal or a blockFailure) passes through
// unchanged, since only RuntimeError carries a reportable trace.
func addTrace(err error, pos token.Pos, expr string) error {
	if re, ok := err.(*RuntimeError); ok {
		re.Trace = append(re.Trace, Frame{Pos: pos, Expr: expr})
	}
	return err
}

// returnSignal is how a 'return' statement unwinds the Go call stack back
// to the enclosing Function.Call, without being mistaken for a
// RuntimeError anywhere in between. It is propagated as the error return
// value of the statement-execution methods and unwrapped at the function
// call boundary, never surfaced to a caller of the public Interpreter API.
type returnSignal struct {
	value Value
}

func (returnSignal) Error() string { return "return outside of a function call" }

// blockFailure signals that one or more statements in a block or function
// body already reported their own RuntimeError to stderr and were
// skipped; it propagates the resulting failure status to whatever
// statement contains that block (an if/while body, a call, ...) without
// being printed again. causes preserves the underlying errors so a
// caller of the public Interpreter API (e.g. Run) still gets a
// descriptive combined error.
type blockFailure struct {
	causes []error
}

func (b *blockFailure) Error() string {
	msgs := make([]string, len(b.causes))
	for i, c := range b.causes {
		msgs[i] = c.Error()
	}
	return strings.Join(msgs, "\n")
}
