// Package calc evaluates arithmetic expressions for the solve intent.
package calc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Evaluator computes an arithmetic expression. The result is always a
// string: either the normalized value or a spoken-form error message.
type Evaluator struct{}

func (Evaluator) Evaluate(expression string) string {
	// The original grammar uses ^ for exponentiation.
	src := strings.ReplaceAll(strings.TrimSpace(expression), "^", "**")

	out, err := expr.Eval(src, nil)
	if err != nil {
		return "Ошибка при вычислении: " + err.Error()
	}
	return format(out)
}

func format(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
