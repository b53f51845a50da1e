package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	for name, op := range map[string]ast.CompareOp{
		"eq": ast.CmpEq, "ne": ast.CmpNe, "gt": ast.CmpGt,
		"gte": ast.CmpGte, "lt": ast.CmpLt, "lte": ast.CmpLte,
		"in": ast.CmpIn, "nin": ast.CmpNin,
	} {
		op := op
		RegisterExpr(name, func(arg any, cfg Config) (ast.Expr, error) {
			items, err := asArray(name, arg)
			if err != nil {
				return nil, err
			}
			if len(items) != 2 {
				return nil, &errkind.InvalidArgument{Operator: "$" + name, Message: "requires exactly two operands"}
			}
			lhs, err := Expr(items[0], cfg)
			if err != nil {
				return nil, err
			}
			rhs, err := Expr(items[1], cfg)
			if err != nil {
				return nil, err
			}
			return ast.Comparison{Op: op, LHS: lhs, RHS: rhs}, nil
		})
	}
}
