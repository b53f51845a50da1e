package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
)

func init() {
	RegisterExpr("setUnion", setParser(ast.SetUnion))
	RegisterExpr("setIntersection", setParser(ast.SetIntersect))
	RegisterExpr("setDifference", setParser(ast.SetDifference))
	RegisterExpr("setEquals", setParser(ast.SetEquals))
	RegisterExpr("setIsSubset", setParser(ast.SetIsSubset))
}

func setParser(op ast.SetOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$"+string(op), arg)
		if err != nil {
			return nil, err
		}
		operands := make([]ast.Expr, len(items))
		for i, item := range items {
			e, err := Expr(item, cfg)
			if err != nil {
				return nil, err
			}
			operands[i] = e
		}
		return ast.Set{Op: op, Operands: operands}, nil
	}
}
