package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterExpr("add", arithmeticParser(ast.ArithAdd))
	RegisterExpr("multiply", arithmeticParser(ast.ArithMul))
	RegisterExpr("subtract", arithmeticParser(ast.ArithSub))
	RegisterExpr("divide", arithmeticParser(ast.ArithDiv))
	RegisterExpr("mod", arithmeticParser(ast.ArithMod))

	RegisterExpr("abs", func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Arithmetic{Op: ast.ArithAbs, Operands: []ast.Expr{e}}, nil
	})
}

func arithmeticParser(op ast.ArithOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$"+string(op), arg)
		if err != nil {
			return nil, err
		}
		if len(items) < 2 {
			return nil, &errkind.InvalidArgument{Operator: "$" + string(op), Message: "requires at least two operands"}
		}
		operands := make([]ast.Expr, len(items))
		for i, item := range items {
			e, err := Expr(item, cfg)
			if err != nil {
				return nil, err
			}
			operands[i] = e
		}
		return ast.Arithmetic{Op: op, Operands: operands}, nil
	}
}
