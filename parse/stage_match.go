package parse

import "github.com/dwoolworth/sqlpipe/ast"

func init() {
	RegisterStage("match", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$match", arg)
		if err != nil {
			return nil, err
		}
		filter, err := Query(doc, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Match{Filter: filter}, nil
	})
}
