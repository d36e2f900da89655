package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero", 0.0, true},
		{"number", 3.5, true},
		{"empty string", "", true},
		{"string", "x", true},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTruthy(tt.v))
		})
	}
}

func TestIsEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil other", nil, 0.0, false},
		{"numbers equal", 1.0, 1.0, true},
		{"numbers unequal", 1.0, 2.0, false},
		{"strings equal", "a", "a", true},
		{"bools equal", true, true, true},
		{"cross kind num str", 1.0, "1", false},
		{"cross kind bool num", true, 1.0, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, IsEqual(tt.b, tt.a))
		})
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"nil", nil, "nil"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"integral number drops decimal", 7.0, "7"},
		{"fractional number", 2.5, "2.5"},
		{"string unquoted", "hi", "hi"},
		{"negative zero", math.Copysign(0, -1), "-0"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.v))
		})
	}
}
