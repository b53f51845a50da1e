package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterExpr("cond", func(arg any, cfg Config) (ast.Expr, error) {
		if items, ok := tryArray(arg); ok {
			if len(items) != 3 {
				return nil, &errkind.InvalidArgument{Operator: "$cond", Message: "array form requires exactly 3 elements"}
			}
			ifE, err := Expr(items[0], cfg)
			if err != nil {
				return nil, err
			}
			thenE, err := Expr(items[1], cfg)
			if err != nil {
				return nil, err
			}
			elseE, err := Expr(items[2], cfg)
			if err != nil {
				return nil, err
			}
			return ast.Conditional{If: ifE, Then: thenE, Else: elseE}, nil
		}
		doc, err := asDocument("$cond", arg)
		if err != nil {
			return nil, err
		}
		ifValue, err := requireField("$cond", doc, "if")
		if err != nil {
			return nil, err
		}
		thenValue, err := requireField("$cond", doc, "then")
		if err != nil {
			return nil, err
		}
		elseValue, err := requireField("$cond", doc, "else")
		if err != nil {
			return nil, err
		}
		ifE, err := Expr(ifValue, cfg)
		if err != nil {
			return nil, err
		}
		thenE, err := Expr(thenValue, cfg)
		if err != nil {
			return nil, err
		}
		elseE, err := Expr(elseValue, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Conditional{If: ifE, Then: thenE, Else: elseE}, nil
	})

	RegisterExpr("ifNull", func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$ifNull", arg)
		if err != nil {
			return nil, err
		}
		if len(items) != 2 {
			return nil, &errkind.InvalidArgument{Operator: "$ifNull", Message: "requires exactly two operands"}
		}
		e, err := Expr(items[0], cfg)
		if err != nil {
			return nil, err
		}
		r, err := Expr(items[1], cfg)
		if err != nil {
			return nil, err
		}
		return ast.IfNull{Expr: e, Replacement: r}, nil
	})

	RegisterExpr("switch", func(arg any, cfg Config) (ast.Expr, error) {
		doc, err := asDocument("$switch", arg)
		if err != nil {
			return nil, err
		}
		branchesValue, err := requireField("$switch", doc, "branches")
		if err != nil {
			return nil, err
		}
		branchItems, err := asArray("$switch", branchesValue)
		if err != nil {
			return nil, err
		}
		if len(branchItems) == 0 {
			return nil, &errkind.EmptyInput{Context: "$switch branches"}
		}
		branches := make([]ast.SwitchBranch, len(branchItems))
		for i, item := range branchItems {
			branchDoc, err := asDocument("$switch", item)
			if err != nil {
				return nil, err
			}
			caseValue, err := requireField("$switch", branchDoc, "case")
			if err != nil {
				return nil, err
			}
			thenValue, err := requireField("$switch", branchDoc, "then")
			if err != nil {
				return nil, err
			}
			caseE, err := Expr(caseValue, cfg)
			if err != nil {
				return nil, err
			}
			thenE, err := Expr(thenValue, cfg)
			if err != nil {
				return nil, err
			}
			branches[i] = ast.SwitchBranch{Case: caseE, Then: thenE}
		}
		s := ast.Switch{Branches: branches}
		if defaultValue, ok := field(doc, "default"); ok {
			d, err := Expr(defaultValue, cfg)
			if err != nil {
				return nil, err
			}
			s.Default = d
		}
		return s, nil
	})
}
