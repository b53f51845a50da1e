package parse

import "github.com/dwoolworth/sqlpipe/ast"

func init() {
	RegisterExpr("mergeObjects", func(arg any, cfg Config) (ast.Expr, error) {
		items, ok := tryArray(arg)
		if !ok {
			e, err := Expr(arg, cfg)
			if err != nil {
				return nil, err
			}
			return ast.MergeObjects{Operands: []ast.Expr{e}}, nil
		}
		operands := make([]ast.Expr, len(items))
		for i, item := range items {
			e, err := Expr(item, cfg)
			if err != nil {
				return nil, err
			}
			operands[i] = e
		}
		return ast.MergeObjects{Operands: operands}, nil
	})

	RegisterExpr("objectToArray", func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.ObjectToArray{Operand: e}, nil
	})

	RegisterExpr("arrayToObject", func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.ArrayToObject{Operand: e}, nil
	})
}
