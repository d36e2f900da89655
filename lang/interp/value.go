package interp

import (
	"fmt"
	"strconv"
)

// Value is any runtime lox value: nil, bool, float64, string, or a
// Callable (a *Function or a built-in).
type Value = any

// IsTruthy implements lox's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements lox's '==' equality: values of different dynamic
// types are never equal, nil equals only nil, and numbers/strings/bools
// compare by value.
func IsEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders v the way 'print' and the REPL echo it.
func Stringify(v Value) string {
	switch vv := v.(type) {
	case nil:
		return "nil"
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(vv)
	case string:
		return vv
	case Callable:
		return vv.String()
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func formatNumber(f float64) string {
	// lox has a single number type; FormatFloat with 'f'/-1 already prints
	// the shortest exact decimal, with no ".0" suffix forced on integers.
	return strconv.FormatFloat(f, 'f', -1, 64)
}
