// Package interp evaluates a resolved ast.Program directly, without
// compiling to bytecode: a tree-walking Interpreter type dispatches on the
// concrete ast.Expr/ast.Stmt type with a type switch, carrying its state
// (environment chain, injected stdio) on a single Interpreter value
// rather than package-level globals, and returning a positioned error
// from every evaluation step instead of panicking.
package interp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/token"
)

// Interpreter holds the state of one program execution: the global
// environment, the current environment frame, and the injected I/O used by
// 'print' and the 'input' built-in, carrying injectable stdio through a
// single mutable struct instead of relying on package-level globals.
type Interpreter struct {
	globals *Environment
	env     *Environment

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	stdinReader *bufio.Reader
	callPos     token.Pos
}

// New creates an Interpreter writing 'print' output to stdout, runtime
// diagnostics to stderr, and reading the 'input' built-in from stdin.
func New(stdout, stderr io.Writer, stdin io.Reader) *Interpreter {
	in := &Interpreter{
		globals: NewEnvironment(),
		stdout:  stdout,
		stderr:  stderr,
		stdin:   stdin,
	}
	in.env = in.globals
	defineBuiltins(in.globals, in)
	return in
}

// Run executes every top-level statement in prog. A RuntimeError in one
// top-level statement is reported to stderr immediately and does not
// prevent the remaining top-level statements from running; Run's
// returned error is non-nil if any statement failed, so the caller
// still exits with a failure status.
func (in *Interpreter) Run(prog *ast.Program) error {
	return in.executeStmts(prog.Stmts)
}

// executeStmts runs stmts in order, the shared recovery loop used for the
// top-level program, every block body and every function body. A
// RuntimeError surfacing from one statement is printed to stderr right
// away and does not stop the loop; a nested block's own already-reported
// failure is folded in without being printed again. A return signal
// always propagates immediately, uncaught, since it is not an error.
func (in *Interpreter) executeStmts(stmts []ast.Stmt) error {
	var failures []error
	for _, s := range stmts {
		err := in.execute(s)
		switch e := err.(type) {
		case nil:
		case returnSignal:
			return err
		case *blockFailure:
			failures = append(failures, e.causes...)
		default:
			fmt.Fprintln(in.stderr, err)
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &blockFailure{causes: failures}
}

// EvalExpr evaluates a single expression in the current top-level
// environment, used by the REPL to echo the value of a bare expression.
func (in *Interpreter) EvalExpr(e ast.Expr) (Value, error) {
	return in.eval(e)
}

// --- statement execution ---

func (in *Interpreter) execute(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExprStmt:
		_, err := in.eval(st.Expression)
		return err

	case *ast.PrintStmt:
		v, err := in.eval(st.Expression)
		if err != nil {
			return err
		}
		io.WriteString(in.stdout, Stringify(v)+"\n")
		return nil

	case *ast.VarStmt:
		var v Value
		if st.Initializer != nil {
			var err error
			v, err = in.eval(st.Initializer)
			if err != nil {
				return err
			}
		}
		in.env.Define(st.Name, v)
		return nil

	case *ast.Block:
		return in.executeBlock(st.Stmts, in.env.NewChild())

	case *ast.IfStmt:
		cond, err := in.eval(st.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.execute(st.Then)
		}
		if st.Else != nil {
			return in.execute(st.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.eval(st.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := in.execute(st.Body); err != nil {
				return err
			}
		}

	case *ast.FunStmt:
		fn := NewFunction(st, in.env)
		in.env.Define(st.Name, fn)
		return nil

	case *ast.ReturnStmt:
		var v Value
		if st.Value != nil {
			var err error
			v, err = in.eval(st.Value)
			if err != nil {
				return err
			}
		}
		return returnSignal{value: v}

	default:
		return newRuntimeError(s.Pos(), "unhandled statement type %T", s)
	}
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment on the way out regardless of how it returns (error, return
// signal, or falling off the end). Each statement gets the same
// catch-and-continue recovery as the top-level program (see
// executeStmts).
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	return in.executeStmts(stmts)
}

// --- expression evaluation ---

func (in *Interpreter) eval(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex.Value, nil

	case *ast.Grouping:
		return in.eval(ex.Expression)

	case *ast.Variable:
		return in.lookupVariable(ex.Name, ex.Scope, ex.TokPos)

	case *ast.Assign:
		v, err := in.eval(ex.Value)
		if err != nil {
			return nil, err
		}
		return v, in.assignVariable(ex.Name, ex.Scope, v, ex.TokPos)

	case *ast.Unary:
		return in.evalUnary(ex)

	case *ast.Binary:
		return in.evalBinary(ex)

	case *ast.Logical:
		return in.evalLogical(ex)

	case *ast.Call:
		return in.evalCall(ex)

	default:
		return nil, newRuntimeError(e.Pos(), "unhandled expression type %T", e)
	}
}

func (in *Interpreter) lookupVariable(name string, scope *ast.ScopeInfo, pos token.Pos) (Value, error) {
	if scope != nil && scope.Depth >= 0 {
		if v, ok := in.env.GetAt(scope.Depth, name); ok {
			return v, nil
		}
		return nil, newRuntimeError(pos, "Undefined variable '%s'.", name)
	}
	if v, ok := in.globals.Get(name); ok {
		return v, nil
	}
	return nil, newRuntimeError(pos, "Undefined variable '%s'.", name)
}

func (in *Interpreter) assignVariable(name string, scope *ast.ScopeInfo, v Value, pos token.Pos) error {
	if scope != nil && scope.Depth >= 0 {
		in.env.AssignAt(scope.Depth, name, v)
		return nil
	}
	if in.globals.Assign(name, v) {
		return nil
	}
	return newRuntimeError(pos, "Undefined variable '%s'.", name)
}

func (in *Interpreter) evalUnary(ex *ast.Unary) (Value, error) {
	right, err := in.eval(ex.Right)
	if err != nil {
		return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
	}
	switch ex.Operator {
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, newRuntimeError(ex.TokPos, "Operand must be a number.")
		}
		return -n, nil
	case token.BANG:
		return !IsTruthy(right), nil
	default:
		return nil, newRuntimeError(ex.TokPos, "unhandled unary operator %#v", ex.Operator)
	}
}

func (in *Interpreter) evalLogical(ex *ast.Logical) (Value, error) {
	left, err := in.eval(ex.Left)
	if err != nil {
		return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
	}
	if ex.Operator == token.OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}
	right, err := in.eval(ex.Right)
	return right, addTrace(err, ex.TokPos, ast.ExprText(ex))
}

func (in *Interpreter) evalBinary(ex *ast.Binary) (Value, error) {
	left, err := in.eval(ex.Left)
	if err != nil {
		return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
	}
	right, err := in.eval(ex.Right)
	if err != nil {
		return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
	}

	switch ex.Operator {
	case token.EQ_EQ:
		return IsEqual(left, right), nil
	case token.BANG_EQ:
		return !IsEqual(left, right), nil
	}

	switch ex.Operator {
	case token.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, newRuntimeError(ex.TokPos, "Operands must be two numbers or two strings.")
	}

	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return nil, newRuntimeError(ex.TokPos, "Operands must be numbers.")
	}
	switch ex.Operator {
	case token.MINUS:
		return ln - rn, nil
	case token.STAR:
		return ln * rn, nil
	case token.SLASH:
		if rn == 0 {
			return nil, newRuntimeError(ex.TokPos, "Division by zero.")
		}
		return ln / rn, nil
	case token.GT:
		return ln > rn, nil
	case token.GT_EQ:
		return ln >= rn, nil
	case token.LT:
		return ln < rn, nil
	case token.LT_EQ:
		return ln <= rn, nil
	default:
		return nil, newRuntimeError(ex.TokPos, "unhandled binary operator %#v", ex.Operator)
	}
}

func (in *Interpreter) evalCall(ex *ast.Call) (Value, error) {
	callee, err := in.eval(ex.Callee)
	if err != nil {
		return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(ex.TokPos, "Can only call functions.")
	}

	args := make([]Value, len(ex.Arguments))
	for i, a := range ex.Arguments {
		v, err := in.eval(a)
		if err != nil {
			return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
		}
		args[i] = v
	}

	if len(args) != fn.Arity() {
		return nil, newRuntimeError(ex.TokPos, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	prevPos := in.callPos
	in.callPos = ex.TokPos
	defer func() { in.callPos = prevPos }()

	v, err := fn.Call(in, args)
	if err != nil {
		return nil, addTrace(err, ex.TokPos, ast.ExprText(ex))
	}
	return v, nil
}
