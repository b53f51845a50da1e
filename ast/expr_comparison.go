package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// CompareOp is a comparison operator.
type CompareOp string

const (
	CmpEq  CompareOp = "eq"
	CmpNe  CompareOp = "ne"
	CmpGt  CompareOp = "gt"
	CmpGte CompareOp = "gte"
	CmpLt  CompareOp = "lt"
	CmpLte CompareOp = "lte"
	CmpIn  CompareOp = "in"
	CmpNin CompareOp = "nin"
)

var compareSymbols = map[CompareOp]string{
	CmpEq: "=", CmpNe: "<>", CmpGt: ">", CmpGte: ">=", CmpLt: "<", CmpLte: "<=",
}

// Comparison renders a binary comparison, with a three-valued rewrite
// for equality/inequality against NULL.
type Comparison struct {
	Op  CompareOp
	LHS Expr
	RHS Expr
}

func (Comparison) exprNode() {}

func (c Comparison) Render(ctx *render.Context, sc *Scope) (string, error) {
	lhs, err := c.LHS.Render(ctx, sc)
	if err != nil {
		return "", err
	}

	if isNullLiteral(c.RHS) {
		switch c.Op {
		case CmpEq:
			return fmt.Sprintf("%s IS NULL", lhs), nil
		case CmpNe:
			return fmt.Sprintf("%s IS NOT NULL", lhs), nil
		}
	}

	switch c.Op {
	case CmpIn, CmpNin:
		list, ok := c.RHS.(ArrayLiteral)
		if !ok || len(list.Items) == 0 {
			return "", &errkind.InvalidArgument{Operator: "$" + string(c.Op), Message: "requires a non-empty literal array"}
		}
		items := make([]string, len(list.Items))
		for i, it := range list.Items {
			s, err := it.Render(ctx, sc)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		kw := "IN"
		if c.Op == CmpNin {
			kw = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", lhs, kw, strings.Join(items, ", ")), nil
	}

	rhs, err := c.RHS.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	sym, ok := compareSymbols[c.Op]
	if !ok {
		return "", &errkind.InvalidArgument{Operator: "$" + string(c.Op), Message: "unknown comparison operator"}
	}
	return fmt.Sprintf("%s %s %s", lhs, sym, rhs), nil
}

func isNullLiteral(e Expr) bool {
	if lit, ok := e.(Literal); ok {
		return lit.IsNull || lit.Value == nil
	}
	return false
}

// ArrayLiteral is a literal array used as the right-hand side of $in/
// $nin and as the source for various array-valued operators below.
type ArrayLiteral struct {
	Items []Expr
}

func (ArrayLiteral) exprNode() {}

func (a ArrayLiteral) Render(ctx *render.Context, sc *Scope) (string, error) {
	items := make([]string, len(a.Items))
	for i, it := range a.Items {
		s, err := it.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		items[i] = s
	}
	return "(" + strings.Join(items, ", ") + ")", nil
}
