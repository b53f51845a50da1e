package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
)

func init() {
	RegisterStage("redact", func(arg any, cfg Config) (ast.Stage, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Redact{Expr: e}, nil
	})

	RegisterStage("replaceWith", func(arg any, cfg Config) (ast.Stage, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.ReplaceRoot{NewRoot: e}, nil
	})
	RegisterStage("replaceRoot", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$replaceRoot", arg)
		if err != nil {
			return nil, err
		}
		newRootValue, err := requireField("$replaceRoot", doc, "newRoot")
		if err != nil {
			return nil, err
		}
		e, err := Expr(newRootValue, cfg)
		if err != nil {
			return nil, err
		}
		return ast.ReplaceRoot{NewRoot: e}, nil
	})

	RegisterStage("merge", func(arg any, cfg Config) (ast.Stage, error) {
		if s, ok := arg.(string); ok {
			return ast.Merge{Into: s, WhenMatched: ast.MergeReplace, WhenNotMatched: ast.MergeInsert}, nil
		}
		doc, err := asDocument("$merge", arg)
		if err != nil {
			return nil, err
		}
		intoValue, err := requireField("$merge", doc, "into")
		if err != nil {
			return nil, err
		}
		into, err := asString("$merge", intoValue)
		if err != nil {
			return nil, err
		}
		m := ast.Merge{Into: into, WhenMatched: ast.MergeReplace, WhenNotMatched: ast.MergeInsert}
		if onValue, ok := field(doc, "on"); ok {
			switch v := onValue.(type) {
			case string:
				m.OnFields = []string{v}
			default:
				items, err := asArray("$merge.on", onValue)
				if err != nil {
					return nil, err
				}
				for _, item := range items {
					s, err := asString("$merge.on", item)
					if err != nil {
						return nil, err
					}
					m.OnFields = append(m.OnFields, s)
				}
			}
		}
		if whenMatchedValue, ok := field(doc, "whenMatched"); ok {
			s, err := asString("$merge", whenMatchedValue)
			if err != nil {
				return nil, err
			}
			m.WhenMatched = ast.MergeAction(s)
		}
		if whenNotMatchedValue, ok := field(doc, "whenNotMatched"); ok {
			s, err := asString("$merge", whenNotMatchedValue)
			if err != nil {
				return nil, err
			}
			m.WhenNotMatched = ast.MergeAction(s)
		}
		return m, nil
	})
}
