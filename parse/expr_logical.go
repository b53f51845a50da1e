package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterExpr("and", logicalParser(ast.LogAnd))
	RegisterExpr("or", logicalParser(ast.LogOr))
	RegisterExpr("nor", logicalParser(ast.LogNor))

	RegisterExpr("not", func(arg any, cfg Config) (ast.Expr, error) {
		var operand ast.Expr
		var err error
		if items, ok := tryArray(arg); ok {
			if len(items) != 1 {
				return nil, &errkind.InvalidArgument{Operator: "$not", Message: "requires exactly one operand"}
			}
			operand, err = Expr(items[0], cfg)
		} else {
			operand, err = Expr(arg, cfg)
		}
		if err != nil {
			return nil, err
		}
		return ast.Logical{Op: ast.LogNot, Operands: []ast.Expr{operand}}, nil
	})
}

func logicalParser(op ast.LogicalOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$"+string(op), arg)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, &errkind.EmptyInput{Context: "$" + string(op)}
		}
		operands := make([]ast.Expr, len(items))
		for i, item := range items {
			e, err := Expr(item, cfg)
			if err != nil {
				return nil, err
			}
			operands[i] = e
		}
		return ast.Logical{Op: op, Operands: operands}, nil
	}
}

func tryArray(v any) ([]any, bool) {
	items, err := asArray("", v)
	if err != nil {
		return nil, false
	}
	return items, true
}
