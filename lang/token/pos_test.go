package token_test

import (
	"testing"

	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestPos(t *testing.T) {
	p := token.MakePos(12, 5)
	line, col := p.LineCol()
	assert.Equal(t, 12, line)
	assert.Equal(t, 5, col)
	assert.True(t, p.IsValid())
	assert.Equal(t, "12:5", p.String())
}

func TestPosZeroIsUnknown(t *testing.T) {
	var p token.Pos
	assert.False(t, p.IsValid())
	assert.Equal(t, "-", p.String())
}
