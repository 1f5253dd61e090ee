package validate

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	goschema "github.com/reoring/goschema"
)

// ExprValidator evaluates a boolean expression against the value. The
// environment exposes value and field.
//
//	validate.MustExpr(`value % 2 == 0`)
//	validate.MustExpr(`len(value) > 0 && value startsWith "sku-"`)
type ExprValidator struct {
	source  string
	program *vm.Program
	message string
}

type exprEnv struct {
	Value any    `expr:"value"`
	Field string `expr:"field"`
}

func newExprEnv(value any, field string) exprEnv {
	if n, ok := value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			value = i
		} else if f, err := n.Float64(); err == nil {
			value = f
		}
	}
	return exprEnv{Value: value, Field: field}
}

// Expr compiles source; it must evaluate to a boolean.
func Expr(source string) (ExprValidator, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return ExprValidator{}, fmt.Errorf("validate: compile expression %q: %w", source, err)
	}
	return ExprValidator{source: source, program: program}, nil
}

// MustExpr is like Expr but panics when source does not compile.
func MustExpr(source string) ExprValidator {
	v, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return v
}

// WithMessage overrides the failure text; {input} and {expr} are substituted.
func (e ExprValidator) WithMessage(msg string) ExprValidator {
	e.message = msg
	return e
}

// Source returns the expression text.
func (e ExprValidator) Source() string { return e.source }

func (e ExprValidator) Validate(value any, field string) (any, error) {
	params := map[string]any{"input": value, "expr": e.source}
	out, err := expr.Run(e.program, newExprEnv(value, field))
	if err != nil {
		ve := goschema.NewValidation("expr", params)
		ve.Cause = err
		return nil, ve
	}
	if ok, _ := out.(bool); ok {
		return value, nil
	}
	if e.message != "" {
		return nil, &goschema.Error{Kind: goschema.CodeValidation, Detail: substitute(e.message, params), Params: params}
	}
	return nil, goschema.NewValidation("expr", params)
}
