package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterExpr("arrayElemAt", func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$arrayElemAt", arg)
		if err != nil {
			return nil, err
		}
		if len(items) != 2 {
			return nil, &errkind.InvalidArgument{Operator: "$arrayElemAt", Message: "requires (array, index)"}
		}
		operand, err := Expr(items[0], cfg)
		if err != nil {
			return nil, err
		}
		index, err := Expr(items[1], cfg)
		if err != nil {
			return nil, err
		}
		return ast.Array{Op: ast.ArrElemAt, Operand: operand, Index: index}, nil
	})

	RegisterExpr("first", arraySingleParser(ast.ArrFirst))
	RegisterExpr("last", arraySingleParser(ast.ArrLast))
	RegisterExpr("size", arraySingleParser(ast.ArrSize))
	RegisterExpr("reverseArray", arraySingleParser(ast.ArrReverse))

	RegisterExpr("concatArrays", func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$concatArrays", arg)
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
		return ast.Array{Op: ast.ArrConcat, Operands: operands}, nil
	})

	RegisterExpr("slice", func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$slice", arg)
		if err != nil {
			return nil, err
		}
		if len(items) == 2 {
			operand, err := Expr(items[0], cfg)
			if err != nil {
				return nil, err
			}
			count, err := Expr(items[1], cfg)
			if err != nil {
				return nil, err
			}
			return ast.Array{Op: ast.ArrSlice, Operand: operand, Count: count}, nil
		}
		if len(items) == 3 {
			operand, err := Expr(items[0], cfg)
			if err != nil {
				return nil, err
			}
			skip, err := Expr(items[1], cfg)
			if err != nil {
				return nil, err
			}
			count, err := Expr(items[2], cfg)
			if err != nil {
				return nil, err
			}
			return ast.Array{Op: ast.ArrSlice, Operand: operand, Skip: skip, Count: count}, nil
		}
		return nil, &errkind.InvalidArgument{Operator: "$slice", Message: "requires 2 or 3 arguments"}
	})

	RegisterExpr("filter", func(arg any, cfg Config) (ast.Expr, error) {
		doc, err := asDocument("$filter", arg)
		if err != nil {
			return nil, err
		}
		inputValue, err := requireField("$filter", doc, "input")
		if err != nil {
			return nil, err
		}
		condValue, err := requireField("$filter", doc, "cond")
		if err != nil {
			return nil, err
		}
		input, err := Expr(inputValue, cfg)
		if err != nil {
			return nil, err
		}
		cond, err := Expr(condValue, cfg)
		if err != nil {
			return nil, err
		}
		a := ast.Array{Op: ast.ArrFilter, Operand: input, Cond: cond}
		if asValue, ok := field(doc, "as"); ok {
			s, err := asString("$filter", asValue)
			if err != nil {
				return nil, err
			}
			a.Elem = "$$" + s
		}
		return a, nil
	})

	RegisterExpr("map", func(arg any, cfg Config) (ast.Expr, error) {
		doc, err := asDocument("$map", arg)
		if err != nil {
			return nil, err
		}
		inputValue, err := requireField("$map", doc, "input")
		if err != nil {
			return nil, err
		}
		inValue, err := requireField("$map", doc, "in")
		if err != nil {
			return nil, err
		}
		input, err := Expr(inputValue, cfg)
		if err != nil {
			return nil, err
		}
		in, err := Expr(inValue, cfg)
		if err != nil {
			return nil, err
		}
		a := ast.Array{Op: ast.ArrMap, Operand: input, MapIn: in}
		if asValue, ok := field(doc, "as"); ok {
			s, err := asString("$map", asValue)
			if err != nil {
				return nil, err
			}
			a.Elem = "$$" + s
		}
		return a, nil
	})

	RegisterExpr("indexOfArray", func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$indexOfArray", arg)
		if err != nil {
			return nil, err
		}
		if len(items) < 2 {
			return nil, &errkind.InvalidArgument{Operator: "$indexOfArray", Message: "requires (array, value)"}
		}
		operand, err := Expr(items[0], cfg)
		if err != nil {
			return nil, err
		}
		needle, err := Expr(items[1], cfg)
		if err != nil {
			return nil, err
		}
		return ast.Array{Op: ast.ArrIndexOf, Operand: operand, Cond: needle}, nil
	})

	RegisterExpr("sortArray", func(arg any, cfg Config) (ast.Expr, error) {
		doc, err := asDocument("$sortArray", arg)
		if err != nil {
			return nil, err
		}
		inputValue, err := requireField("$sortArray", doc, "input")
		if err != nil {
			return nil, err
		}
		input, err := Expr(inputValue, cfg)
		if err != nil {
			return nil, err
		}
		a := ast.Array{Op: ast.ArrSortArray, Operand: input}
		if sortByValue, ok := field(doc, "sortBy"); ok {
			if n, ok := asLiteralInt(sortByValue); ok && n < 0 {
				a.SortDescending = true
			}
		}
		return a, nil
	})
}

func arraySingleParser(op ast.ArrayOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Array{Op: op, Operand: e}, nil
	}
}
