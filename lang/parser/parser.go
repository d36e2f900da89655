// Package parser implements a recursive-descent parser fused with scope
// resolution: every Variable and Assign node is annotated with its
// ast.ScopeInfo as it is parsed, so the interpreter never needs to search
// an environment chain by name. The structure (panic-mode error recovery
// via a sentinel panic value, token-list cursor, expect/error helpers) is
// a classic recursive-descent structure for an expression grammar with
// precedence climbing.
package parser

import (
	"fmt"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
)

// maxArgs is the maximum number of arguments a call expression, or
// parameters a function declaration, may have.
const maxArgs = 255

// errPanicMode is the sentinel panicked with to unwind to the nearest
// synchronization point after a parse error.
type errPanicMode struct{}

// Parse parses toks (as produced by scanner.Scan) into a Program, resolving
// every variable reference's scope along the way. All parse errors are
// accumulated and returned together as a scanner.ErrorList; on error the
// returned Program is nil.
func Parse(toks []scanner.TokenAndValue) (*ast.Program, error) {
	p := &parser{toks: toks}
	prog := p.parse()
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

type parser struct {
	toks []scanner.TokenAndValue
	cur  int
	errs scanner.ErrorList

	// scopes is the stack of block/function scopes currently open, used to
	// resolve local variable references; the global scope is not tracked
	// here (it has no static scope entry, looked up by name at run time).
	scopes []map[string]bool

	// funcDepth counts how many function bodies are currently being parsed,
	// used to validate that 'return' only appears inside a function.
	funcDepth int
}

func (p *parser) parse() *ast.Program {
	var prog ast.Program
	for !p.isAtEnd() {
		if s := p.declarationRecover(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
	}
	return &prog
}

// declarationRecover parses one top-level declaration, recovering to the
// next statement boundary if it panics with errPanicMode.
func (p *parser) declarationRecover() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errPanicMode); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()
	return p.declaration()
}

func (p *parser) declaration() ast.Stmt {
	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FUN):
		return p.funDecl("function")
	default:
		return p.statement()
	}
}

func (p *parser) varDecl() ast.Stmt {
	nameTok := p.expect(token.IDENT, "expected variable name")
	p.declare(nameTok)

	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	p.expect(token.SEMI, "expected ';' after variable declaration")
	p.define(nameTok.Lexeme)

	return &ast.VarStmt{TokPos: nameTok.Pos, Name: nameTok.Lexeme, Initializer: init}
}

func (p *parser) funDecl(kind string) ast.Stmt {
	nameTok := p.expect(token.IDENT, "expected "+kind+" name")
	p.declare(nameTok)
	p.define(nameTok.Lexeme) // defined before the body so it can recurse

	p.expect(token.LPAREN, "expected '(' after "+kind+" name")
	p.beginScope()
	p.funcDepth++

	var params []string
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxArgs))
			}
			pTok := p.expect(token.IDENT, "expected parameter name")
			p.declare(pTok)
			p.define(pTok.Lexeme)
			params = append(params, pTok.Lexeme)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, "expected ')' after parameters")
	p.expect(token.LBRACE, "expected '{' before "+kind+" body")
	body := p.block()

	p.funcDepth--
	p.endScope()

	return &ast.FunStmt{TokPos: nameTok.Pos, Name: nameTok.Lexeme, Params: params, Body: body}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.check(token.LBRACE):
		brace := p.advance()
		p.beginScope()
		stmts := p.block()
		p.endScope()
		return &ast.Block{TokPos: brace.Pos, Stmts: stmts}
	default:
		return p.exprStmt()
	}
}

// block parses declarations up to, and consuming, the closing '}'. The
// caller is responsible for pushing/popping the scope.
func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if s := p.declarationRecover(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBRACE, "expected '}' after block")
	return stmts
}

func (p *parser) printStmt() ast.Stmt {
	pos := p.previous().Pos
	val := p.expression()
	p.expect(token.SEMI, "expected ';' after value")
	return &ast.PrintStmt{TokPos: pos, Expression: val}
}

func (p *parser) returnStmt() ast.Stmt {
	tok := p.previous()
	if p.funcDepth == 0 {
		p.errorAt(tok, "can't return from top-level code")
	}
	var val ast.Expr
	if !p.check(token.SEMI) {
		val = p.expression()
	}
	p.expect(token.SEMI, "expected ';' after return value")
	return &ast.ReturnStmt{TokPos: tok.Pos, Value: val}
}

func (p *parser) whileStmt() ast.Stmt {
	pos := p.previous().Pos
	p.expect(token.LPAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.expect(token.RPAREN, "expected ')' after condition")
	body := p.statement()
	return &ast.WhileStmt{TokPos: pos, Condition: cond, Body: body}
}

// forStmt desugars the C-style for loop into a while loop wrapped in a
// block, matching the "for is syntactic sugar for while" design note.
func (p *parser) forStmt() ast.Stmt {
	pos := p.previous().Pos
	p.expect(token.LPAREN, "expected '(' after 'for'")

	p.beginScope()
	var init ast.Stmt
	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	p.expect(token.SEMI, "expected ';' after loop condition")

	// A post clause ends up sharing one runtime block (and so one resolved
	// scope level) with the loop body, since both run as the two statements
	// of the synthetic ast.Block built below; the extra scope must be
	// opened before either is parsed so their resolved hop counts agree
	// with that shape.
	hasPost := !p.check(token.RPAREN)
	if hasPost {
		p.beginScope()
	}
	var post ast.Expr
	if hasPost {
		post = p.expression()
	}
	p.expect(token.RPAREN, "expected ')' after for clauses")

	body := p.statement()

	if hasPost {
		p.endScope()
		body = &ast.Block{TokPos: pos, Stmts: []ast.Stmt{body, &ast.ExprStmt{TokPos: pos, Expression: post}}}
	}
	if cond == nil {
		cond = &ast.Literal{TokPos: pos, Value: true}
	}
	var whileStmt ast.Stmt = &ast.WhileStmt{TokPos: pos, Condition: cond, Body: body}

	// The outer scope is opened unconditionally above (it may need to hold
	// init's binding), so it must get a matching runtime frame unconditionally
	// too: wrap in a Block even when there is no initializer, otherwise a
	// variable resolved from inside the loop against this scope would resolve
	// one hop shallower than the frame chain the evaluator actually builds.
	var outerStmts []ast.Stmt
	if init != nil {
		outerStmts = append(outerStmts, init)
	}
	outerStmts = append(outerStmts, whileStmt)
	loop := &ast.Block{TokPos: pos, Stmts: outerStmts}
	p.endScope()

	return loop
}

// ifStmt parses 'if (cond) stmt ( elif (cond) stmt )* ( else stmt )?',
// folding the elif chain into nested Else branches.
func (p *parser) ifStmt() ast.Stmt {
	pos := p.previous().Pos
	p.expect(token.LPAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.expect(token.RPAREN, "expected ')' after condition")
	then := p.statement()

	stmt := &ast.IfStmt{TokPos: pos, Condition: cond, Then: then}
	tail := stmt
	for p.match(token.ELIF) {
		elifPos := p.previous().Pos
		p.expect(token.LPAREN, "expected '(' after 'elif'")
		elifCond := p.expression()
		p.expect(token.RPAREN, "expected ')' after condition")
		elifThen := p.statement()
		next := &ast.IfStmt{TokPos: elifPos, Condition: elifCond, Then: elifThen}
		tail.Else = next
		tail = next
	}
	if p.match(token.ELSE) {
		tail.Else = p.statement()
	}
	return stmt
}

func (p *parser) exprStmt() ast.Stmt {
	expr := p.expression()
	pos := expr.Pos()
	p.expect(token.SEMI, "expected ';' after expression")
	return &ast.ExprStmt{TokPos: pos, Expression: expr}
}

// --- token cursor helpers ---

func (p *parser) peek() scanner.TokenAndValue     { return p.toks[p.cur] }
func (p *parser) previous() scanner.TokenAndValue { return p.toks[p.cur-1] }
func (p *parser) isAtEnd() bool                   { return p.peek().Token == token.EOF }

func (p *parser) advance() scanner.TokenAndValue {
	if !p.isAtEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *parser) check(tok token.Token) bool {
	if p.isAtEnd() {
		return tok == token.EOF
	}
	return p.peek().Token == tok
}

func (p *parser) match(toks ...token.Token) bool {
	for _, tok := range toks {
		if p.check(tok) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches tok, otherwise records an
// error and panics into panic-mode recovery.
func (p *parser) expect(tok token.Token, msg string) scanner.TokenAndValue {
	if p.check(tok) {
		return p.advance()
	}
	p.errorAt(p.peek(), msg)
	panic(errPanicMode{})
}

// errorAt records a diagnostic in "Error at '<lexeme>': <msg>" /
// "Error at end: <msg>" format, without unwinding the stack.
func (p *parser) errorAt(tv scanner.TokenAndValue, msg string) {
	if tv.Token == token.EOF {
		p.errs.Addf(tv.Pos, "Error at end: %s", msg)
		return
	}
	p.errs.Addf(tv.Pos, "Error at '%s': %s", tv.Lexeme, msg)
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so a single parse error doesn't cascade into spurious follow-on errors.
// The token at which the error was reported is always discarded first, so
// recovery makes progress even when that token is itself a boundary.
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Token == token.SEMI {
			return
		}
		switch p.peek().Token {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --- scope resolution helpers ---

func (p *parser) beginScope() { p.scopes = append(p.scopes, map[string]bool{}) }

func (p *parser) endScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

// declare marks name as present but not yet initialized in the innermost
// scope, so it can be rejected if its own initializer refers to it. At the
// top level (no open scope) declarations are untracked; globals are
// resolved dynamically by name.
func (p *parser) declare(nameTok scanner.TokenAndValue) {
	if len(p.scopes) == 0 {
		return
	}
	scope := p.scopes[len(p.scopes)-1]
	if _, ok := scope[nameTok.Lexeme]; ok {
		p.errorAt(nameTok, "already a variable with this name in this scope")
	}
	scope[nameTok.Lexeme] = false
}

func (p *parser) define(name string) {
	if len(p.scopes) == 0 {
		return
	}
	p.scopes[len(p.scopes)-1][name] = true
}

// resolveVariable resolves a Variable reference, erroring if it reads a
// local variable from within its own initializer.
func (p *parser) resolveVariable(tv scanner.TokenAndValue, v *ast.Variable) {
	if n := len(p.scopes); n > 0 {
		if ready, ok := p.scopes[n-1][v.Name]; ok && !ready {
			p.errorAt(tv, "can't read local variable in its own initializer")
		}
	}
	p.resolveLocal(v.Name, &v.Scope)
}

func (p *parser) resolveAssign(a *ast.Assign) {
	p.resolveLocal(a.Name, &a.Scope)
}

func (p *parser) resolveLocal(name string, info **ast.ScopeInfo) {
	*info = &ast.ScopeInfo{Depth: -1}
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if _, ok := p.scopes[i][name]; ok {
			(*info).Depth = len(p.scopes) - 1 - i
			return
		}
	}
}
