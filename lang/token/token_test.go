package token_test

import (
	"testing"

	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		lit  string
		want token.Token
	}{
		{"and", token.AND},
		{"elif", token.ELIF},
		{"while", token.WHILE},
		{"x", token.IDENT},
		{"printX", token.IDENT},
	}
	for _, tt := range cases {
		require.Equal(t, tt.want, token.LookupIdent(tt.lit), tt.lit)
	}
}

func TestTokenStringAndGoString(t *testing.T) {
	assert.Equal(t, "+", token.PLUS.String())
	assert.Equal(t, "'+'", token.PLUS.GoString())
	assert.Equal(t, "end of file", token.EOF.GoString())
}

func TestIsBinop(t *testing.T) {
	assert.True(t, token.PLUS.IsBinop())
	assert.True(t, token.EQ_EQ.IsBinop())
	assert.False(t, token.AND.IsBinop())
	assert.False(t, token.EQ.IsBinop())
}
