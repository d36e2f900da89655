package ast_test

import (
	"testing"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestExprText(t *testing.T) {
	one := &ast.Literal{Value: 1.0}
	x := &ast.Variable{Name: "x"}

	cases := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{"literal number", one, "1"},
		{"literal nil", &ast.Literal{}, "nil"},
		{"variable", x, "x"},
		{"assign", &ast.Assign{Name: "x", Value: one}, "x = 1"},
		{"unary", &ast.Unary{Operator: token.MINUS, Right: x}, "-x"},
		{"binary", &ast.Binary{Left: one, Operator: token.PLUS, Right: x}, "1 + x"},
		{"logical", &ast.Logical{Left: x, Operator: token.OR, Right: one}, "x or 1"},
		{"grouping", &ast.Grouping{Expression: one}, "(1)"},
		{"call", &ast.Call{Callee: x, Arguments: []ast.Expr{one}}, "x(...)"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.ExprText(tt.expr))
		})
	}
}
