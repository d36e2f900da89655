package interp

// Callable is implemented by anything that can appear on the left of a
// call expression: user-defined functions and native built-ins.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// native wraps a Go function as a Callable, used for the fixed set of
// built-ins the language provides instead of a standard library.
type native struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

func (n *native) Arity() int { return n.arity }

// String never includes the built-in's name, unlike a user function's
// String, which does.
func (n *native) String() string { return "<native fn>" }
func (n *native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}
