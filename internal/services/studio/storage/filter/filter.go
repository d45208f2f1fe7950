// Package filter translates AIP-160 product filters into SQL conditions.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ErrInvalid marks filter strings that fail to parse or reference unknown
// fields.
var ErrInvalid = errors.New("invalid filter")

// Condition is a SQL WHERE fragment with positional parameters.
type Condition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition matches everything.
func (c Condition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

// productColumns maps filter fields to product columns.
var productColumns = map[string]string{
	"name":             "name",
	"sku":              "sku",
	"draft_id":         "draft_id",
	"base_price_cents": "base_price_cents",
	"created_at":       "created_at",
}

// ProductDeclarations declares the fields a product filter may reference.
func ProductDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("sku", filtering.TypeString),
		filtering.DeclareIdent("draft_id", filtering.TypeString),
		filtering.DeclareIdent("base_price_cents", filtering.TypeInt),
		filtering.DeclareIdent("created_at", filtering.TypeTimestamp),
	)
}

// ParseProducts parses raw and returns the matching SQL condition. A blank
// filter yields an empty condition.
func ParseProducts(raw string) (Condition, error) {
	if strings.TrimSpace(raw) == "" {
		return Condition{}, nil
	}
	decls, err := ProductDeclarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	condition, err := translate(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return Condition{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return condition, nil
}

func translate(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return Condition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	args := call.CallExpr.Args
	switch call.CallExpr.Function {
	case filtering.FunctionAnd:
		return join(args, "AND")
	case filtering.FunctionOr:
		return join(args, "OR")
	case filtering.FunctionNot:
		if len(args) != 1 {
			return Condition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translate(args[0])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Clause: "NOT (" + inner.Clause + ")", Params: inner.Params}, nil
	case filtering.FunctionEquals:
		return compare(args, "=")
	case filtering.FunctionNotEquals:
		return compare(args, "!=")
	case filtering.FunctionLessThan:
		return compare(args, "<")
	case filtering.FunctionLessEquals:
		return compare(args, "<=")
	case filtering.FunctionGreaterThan:
		return compare(args, ">")
	case filtering.FunctionGreaterEquals:
		return compare(args, ">=")
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.CallExpr.Function)
	}
}

func join(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translate(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := translate(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func compare(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return Condition{}, fmt.Errorf("expected field on the left of %s", op)
	}
	column, ok := productColumns[ident.IdentExpr.GetName()]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := constant(args[1])
	if err != nil {
		return Condition{}, err
	}
	if column == "created_at" {
		if value, err = timestampMillis(value); err != nil {
			return Condition{}, err
		}
	}
	return Condition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func constant(e *expr.Expr) (any, error) {
	value, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := value.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// timestampMillis converts an RFC 3339 literal to the stored epoch millis.
func timestampMillis(value any) (int64, error) {
	raw, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("timestamp must be a string")
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", raw)
	}
	return parsed.UTC().UnixMilli(), nil
}
