package parser

import (
	"fmt"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/token"
)

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses 'IDENT = assignment | logicOr'. The left-hand side is
// parsed as a full expression first and then validated as an assignable
// target, matching the standard Lox parsing trick for resolving the
// ambiguity without extra lookahead.
func (p *parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQ) {
		eqTok := p.previous()
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			a := &ast.Assign{TokPos: v.TokPos, Name: v.Name, Value: value}
			p.resolveAssign(a)
			return a
		}
		p.errorAt(eqTok, "invalid assignment target")
		return expr
	}
	return expr
}

func (p *parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		opTok := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{TokPos: opTok.Pos, Left: expr, Operator: token.OR, Right: right}
	}
	return expr
}

func (p *parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		opTok := p.previous()
		right := p.equality()
		expr = &ast.Logical{TokPos: opTok.Pos, Left: expr, Operator: token.AND, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQ, token.EQ_EQ) {
		opTok := p.previous()
		right := p.comparison()
		expr = &ast.Binary{TokPos: opTok.Pos, Left: expr, Operator: opTok.Token, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GT, token.GT_EQ, token.LT, token.LT_EQ) {
		opTok := p.previous()
		right := p.term()
		expr = &ast.Binary{TokPos: opTok.Pos, Left: expr, Operator: opTok.Token, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		opTok := p.previous()
		right := p.factor()
		expr = &ast.Binary{TokPos: opTok.Pos, Left: expr, Operator: opTok.Token, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		opTok := p.previous()
		right := p.unary()
		expr = &ast.Binary{TokPos: opTok.Pos, Left: expr, Operator: opTok.Token, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		opTok := p.previous()
		right := p.unary()
		return &ast.Unary{TokPos: opTok.Pos, Operator: opTok.Token, Right: right}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for p.match(token.LPAREN) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	closeParen := p.expect(token.RPAREN, "expected ')' after arguments")
	return &ast.Call{TokPos: closeParen.Pos, Callee: callee, Arguments: args}
}

func (p *parser) primary() ast.Expr {
	tv := p.peek()
	switch tv.Token {
	case token.FALSE:
		p.advance()
		return &ast.Literal{TokPos: tv.Pos, Value: false}
	case token.TRUE:
		p.advance()
		return &ast.Literal{TokPos: tv.Pos, Value: true}
	case token.NIL:
		p.advance()
		return &ast.Literal{TokPos: tv.Pos, Value: nil}
	case token.NUMBER:
		p.advance()
		return &ast.Literal{TokPos: tv.Pos, Value: tv.Number}
	case token.STRING:
		p.advance()
		return &ast.Literal{TokPos: tv.Pos, Value: tv.Str}
	case token.IDENT:
		p.advance()
		v := &ast.Variable{TokPos: tv.Pos, Name: tv.Lexeme}
		p.resolveVariable(tv, v)
		return v
	case token.LPAREN:
		p.advance()
		inner := p.expression()
		p.expect(token.RPAREN, "expected ')' after expression")
		return &ast.Grouping{TokPos: tv.Pos, Expression: inner}
	default:
		p.errorAt(tv, "expected expression")
		panic(errPanicMode{})
	}
}
