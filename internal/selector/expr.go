package selector

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Expr selects the result of an expr-lang expression evaluated with the
// state's entries as variables.
//
// Keys that share a name with an expr built-in (count, len, all, any, filter,
// map, sum, ...) resolve to the built-in, not the entry. Read those through
// the environment instead: $env["count"] or $env.count.
type Expr[R any] struct {
	source  string
	program *exprvm.Program
}

// ByExpr compiles expression once. The result is converted to R where expr
// supports it (bool, int, int64, float64) and asserted otherwise.
func ByExpr[R any](expression string) (*Expr[R], error) {
	if expression == "" {
		return nil, fmt.Errorf("selector: expression must not be empty")
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	var zero R
	switch any(zero).(type) {
	case bool:
		options = append(options, exprlang.AsBool())
	case int:
		options = append(options, exprlang.AsInt())
	case int64:
		options = append(options, exprlang.AsInt64())
	case float64:
		options = append(options, exprlang.AsFloat64())
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("selector: compile %q: %w", expression, err)
	}
	return &Expr[R]{source: expression, program: program}, nil
}

// MustExpr is ByExpr for expressions known at compile time.
func MustExpr[R any](expression string) *Expr[R] {
	e, err := ByExpr[R](expression)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr[R]) Select(state map[string]any) (R, error) {
	var zero R
	env := state
	if env == nil {
		env = map[string]any{}
	}
	out, err := exprlang.Run(e.program, env)
	if err != nil {
		return zero, fmt.Errorf("selector: evaluate %q: %w", e.source, err)
	}
	if out == nil {
		return zero, nil
	}
	value, ok := out.(R)
	if !ok {
		return zero, fmt.Errorf("%w: %q returned %T, want %T", ErrResultType, e.source, out, zero)
	}
	return value, nil
}

func (e *Expr[R]) String() string {
	return fmt.Sprintf("expr(%s)", e.source)
}
