package parse

import "github.com/dwoolworth/sqlpipe/ast"

func init() {
	RegisterExpr("reduce", func(arg any, cfg Config) (ast.Expr, error) {
		doc, err := asDocument("$reduce", arg)
		if err != nil {
			return nil, err
		}
		inputValue, err := requireField("$reduce", doc, "input")
		if err != nil {
			return nil, err
		}
		initialValue, err := requireField("$reduce", doc, "initialValue")
		if err != nil {
			return nil, err
		}
		inValue, err := requireField("$reduce", doc, "in")
		if err != nil {
			return nil, err
		}
		input, err := Expr(inputValue, cfg)
		if err != nil {
			return nil, err
		}
		initial, err := Expr(initialValue, cfg)
		if err != nil {
			return nil, err
		}
		in, err := Expr(inValue, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Reduce{Input: input, InitialValue: initial, In: in, Strict: cfg.StrictReduce}, nil
	})
}
