package lox

import (
	"fmt"
	"strconv"
)

// Object is a runtime Lox value. It is the closed sum type
// describes: nil, bool, float64, string, Callable (native function,
// user function/closure, or class), or *LoxInstance.
//
// An earlier design boxed every primitive in its own wrapper type
// (LoxNil/LoxBool/LoxNumber/LoxString). Generalized here to Go's own
// primitive types carried through an `any`, matching the representation
// other_examples/archevan-glox uses (`resultVal interface{}`) — it
// avoids an allocation and a type assertion per literal, and every
// consumer already has to type-switch regardless of boxing.
type Object = any

// IsTruthy: nil and false are false, every
// other value (including 0 and "") is true.
func IsTruthy(v Object) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual: nil == nil; otherwise
// strict same-type comparison, with numbers compared by IEEE-754
// equality and strings by contents.
func IsEqual(a, b Object) bool {
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

// Stringify renders a value the way the print statement does: nil -> "nil", bools -> "true"/"false", numbers -> shortest
// round-trip text with integer-valued doubles unsuffixed, strings ->
// raw contents, classes/instances/functions -> their own String().
func Stringify(v Object) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(val)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return "nil"
	}
}

// formatNumber produces the shortest round-trip text in Go's 'g' form:
// an integer-valued double has no trailing ".0" (3, not 3.0), and a
// value whose decimal exponent is below -4 or at least 6 is written in
// exponent form (1000000 prints as 1e+06).
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
