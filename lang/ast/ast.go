// Package ast defines the syntax tree produced by the parser and consumed
// by the interpreter. Nodes are plain structs dispatched on with a type
// switch rather than a Visitor interface.
package ast

import (
	"fmt"

	"github.com/mna/lox/lang/token"
)

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
	Pos() token.Pos
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	Pos() token.Pos
}

// ScopeInfo is filled in by the resolver on every Variable and Assign node:
// it records how many enclosing function/block scopes to walk, relative to
// the environment active when the node is evaluated, to reach the
// declaring scope's frame. A nil ScopeInfo (the zero value's pointer)
// means "not yet resolved"; Depth == -1 after resolution means global.
type ScopeInfo struct {
	// Depth is the number of environment hops from the scope where this
	// reference is evaluated to the scope that declares the name, or -1 if
	// the name is resolved as a global.
	Depth int
}

// Program is the root node: a sequence of top-level declarations.
type Program struct {
	Stmts []Stmt
}

// --- Expressions ---

// Literal is a boolean, nil, number or string constant.
type Literal struct {
	TokPos token.Pos
	Value  any // nil, bool, float64 or string
}

func (e *Literal) exprNode() {}
func (e *Literal) Pos() token.Pos   { return e.TokPos }

// Variable is a reference to a named binding.
type Variable struct {
	TokPos token.Pos
	Name   string
	Scope  *ScopeInfo
}

func (e *Variable) exprNode() {}
func (e *Variable) Pos() token.Pos { return e.TokPos }

// Assign assigns a new value to an already-declared binding.
type Assign struct {
	TokPos token.Pos
	Name   string
	Value  Expr
	Scope  *ScopeInfo
}

func (e *Assign) exprNode() {}
func (e *Assign) Pos() token.Pos { return e.TokPos }

// Unary is a prefix unary operation: '-' or '!'.
type Unary struct {
	TokPos   token.Pos
	Operator token.Token
	Right    Expr
}

func (e *Unary) exprNode() {}
func (e *Unary) Pos() token.Pos { return e.TokPos }

// Binary is an arithmetic, comparison or equality operation.
type Binary struct {
	TokPos   token.Pos
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (e *Binary) exprNode() {}
func (e *Binary) Pos() token.Pos { return e.TokPos }

// Logical is 'and'/'or', kept distinct from Binary because of
// short-circuiting.
type Logical struct {
	TokPos   token.Pos
	Left     Expr
	Operator token.Token // AND or OR
	Right    Expr
}

func (e *Logical) exprNode() {}
func (e *Logical) Pos() token.Pos { return e.TokPos }

// Grouping is a parenthesized expression.
type Grouping struct {
	TokPos     token.Pos
	Expression Expr
}

func (e *Grouping) exprNode() {}
func (e *Grouping) Pos() token.Pos { return e.TokPos }

// Call is a function call expression.
type Call struct {
	TokPos    token.Pos // position of the closing ')'
	Callee    Expr
	Arguments []Expr
}

func (e *Call) exprNode() {}
func (e *Call) Pos() token.Pos { return e.TokPos }

// --- Statements ---

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	TokPos     token.Pos
	Expression Expr
}

func (s *ExprStmt) stmtNode() {}
func (s *ExprStmt) Pos() token.Pos { return s.TokPos }

// PrintStmt evaluates an expression and writes its text form to stdout.
type PrintStmt struct {
	TokPos     token.Pos
	Expression Expr
}

func (s *PrintStmt) stmtNode() {}
func (s *PrintStmt) Pos() token.Pos { return s.TokPos }

// VarStmt declares a new binding, optionally with an initializer.
type VarStmt struct {
	TokPos      token.Pos
	Name        string
	Initializer Expr // nil if not provided; binding initializes to nil
}

func (s *VarStmt) stmtNode() {}
func (s *VarStmt) Pos() token.Pos { return s.TokPos }

// Block is a brace-delimited sequence of statements, introducing a new
// lexical scope.
type Block struct {
	TokPos token.Pos
	Stmts  []Stmt
}

func (s *Block) stmtNode() {}
func (s *Block) Pos() token.Pos { return s.TokPos }

// IfStmt is a conditional, with optional 'elif' clauses collapsed into
// nested Else branches by the parser and an optional final 'else'.
type IfStmt struct {
	TokPos    token.Pos
	Condition Expr
	Then      Stmt
	Else      Stmt // nil if absent; may be another *IfStmt for elif/else chains
}

func (s *IfStmt) stmtNode() {}
func (s *IfStmt) Pos() token.Pos { return s.TokPos }

// WhileStmt is a condition-checked loop. ForStmt is desugared into this by
// the parser, following the "for is syntactic sugar for while" design note.
type WhileStmt struct {
	TokPos    token.Pos
	Condition Expr
	Body      Stmt
}

func (s *WhileStmt) stmtNode() {}
func (s *WhileStmt) Pos() token.Pos { return s.TokPos }

// FunStmt declares a named function.
type FunStmt struct {
	TokPos token.Pos
	Name   string
	Params []string
	Body   []Stmt
}

func (s *FunStmt) stmtNode() {}
func (s *FunStmt) Pos() token.Pos { return s.TokPos }

// ReturnStmt returns from the innermost enclosing function.
type ReturnStmt struct {
	TokPos token.Pos
	Value  Expr // nil means return nil
}

func (s *ReturnStmt) stmtNode() {}
func (s *ReturnStmt) Pos() token.Pos { return s.TokPos }

// ExprText renders e as a short, human-readable approximation of its
// source text, used to label the context frames of a RuntimeError's
// trace with the expression at each failure point.
func ExprText(e Expr) string {
	switch v := e.(type) {
	case *Literal:
		if v.Value == nil {
			return "nil"
		}
		return fmt.Sprint(v.Value)
	case *Variable:
		return v.Name
	case *Assign:
		return v.Name + " = " + ExprText(v.Value)
	case *Unary:
		return v.Operator.String() + ExprText(v.Right)
	case *Binary:
		return ExprText(v.Left) + " " + v.Operator.String() + " " + ExprText(v.Right)
	case *Logical:
		return ExprText(v.Left) + " " + v.Operator.String() + " " + ExprText(v.Right)
	case *Grouping:
		return "(" + ExprText(v.Expression) + ")"
	case *Call:
		return ExprText(v.Callee) + "(...)"
	default:
		return "<expr>"
	}
}
