package interp

import "github.com/mna/lox/lang/ast"

// Function is a user-defined function value: the declaration it was built
// from, plus the environment frame active at the point it was declared,
// captured by reference so the closure observes later writes to it.
type Function struct {
	decl    *ast.FunStmt
	closure *Environment
}

var _ Callable = (*Function)(nil)

// NewFunction wraps decl as a callable closing over env.
func NewFunction(decl *ast.FunStmt, env *Environment) *Function {
	return &Function{decl: decl, closure: env}
}

func (f *Function) Arity() int { return len(f.decl.Params) }

func (f *Function) String() string { return "<fn " + f.decl.Name + ">" }

// Call executes the function body in a fresh frame, enclosed by the
// closure environment captured at declaration time (not the caller's
// environment), giving lexical rather than dynamic scoping.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	callEnv := f.closure.NewChild()
	for i, name := range f.decl.Params {
		callEnv.Define(name, args[i])
	}

	err := in.executeBlock(f.decl.Body, callEnv)
	if err != nil {
		if rs, ok := err.(returnSignal); ok {
			return rs.value, nil
		}
		return nil, err
	}
	return nil, nil
}
