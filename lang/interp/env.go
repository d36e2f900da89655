package interp

import (
	"github.com/dolthub/swiss"
)

// Environment is one frame of the lexical scope chain: a name-to-value
// mapping plus a link to the enclosing frame. Frames are shared, mutable
// cells rather than copies, so closures observe writes made after they
// captured the frame. The backing map uses a swiss-table Map as the
// name->value store for a scope frame.
type Environment struct {
	vars      *swiss.Map[string, Value]
	enclosing *Environment
}

// NewEnvironment creates a top-level (global) environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{vars: swiss.NewMap[string, Value](8)}
}

// NewChild creates a new frame enclosed by env, used to enter a
// block, a function call or a loop iteration.
func (env *Environment) NewChild() *Environment {
	return &Environment{vars: swiss.NewMap[string, Value](4), enclosing: env}
}

// Define binds name to value in this frame, shadowing any binding of the
// same name in an enclosing frame. Re-declaring an existing local name is a
// parse-time error (see the resolver), so Define always either creates a
// fresh binding or re-initializes one the parser already validated.
func (env *Environment) Define(name string, value Value) {
	env.vars.Put(name, value)
}

// Get looks up name starting at this frame and walking out through
// enclosing frames.
func (env *Environment) Get(name string) (Value, bool) {
	for e := env; e != nil; e = e.enclosing {
		if v, ok := e.vars.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// GetAt looks up name exactly depth frames out from this one, as computed
// by the resolver; it is the no-search counterpart to Get used for every
// resolved local reference.
func (env *Environment) GetAt(depth int, name string) (Value, bool) {
	e := env.ancestor(depth)
	return e.vars.Get(name)
}

// AssignAt assigns to an existing binding exactly depth frames out.
func (env *Environment) AssignAt(depth int, name string, value Value) {
	e := env.ancestor(depth)
	e.vars.Put(name, value)
}

// Assign sets an existing binding of name, searching outward through
// enclosing frames, without creating a new one. It reports whether the
// binding was found.
func (env *Environment) Assign(name string, value Value) bool {
	for e := env; e != nil; e = e.enclosing {
		if _, ok := e.vars.Get(name); ok {
			e.vars.Put(name, value)
			return true
		}
	}
	return false
}

func (env *Environment) ancestor(depth int) *Environment {
	e := env
	for i := 0; i < depth; i++ {
		e = e.enclosing
	}
	return e
}
