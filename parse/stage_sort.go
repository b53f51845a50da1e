package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterStage("sort", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$sort", arg)
		if err != nil {
			return nil, err
		}
		if len(doc) == 0 {
			return nil, &errkind.EmptyInput{Context: "$sort"}
		}
		keys, err := ParseSortKeys(doc, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Sort{Keys: keys}, nil
	})

	RegisterStage("skip", func(arg any, cfg Config) (ast.Stage, error) {
		n, err := asInt64("$skip", arg)
		if err != nil {
			return nil, err
		}
		return ast.SkipLimit{Skip: n, HasSkip: true}, nil
	})

	RegisterStage("limit", func(arg any, cfg Config) (ast.Stage, error) {
		n, err := asInt64("$limit", arg)
		if err != nil {
			return nil, err
		}
		return ast.SkipLimit{Limit: n, HasLimit: true}, nil
	})

	RegisterStage("count", func(arg any, cfg Config) (ast.Stage, error) {
		field, err := asString("$count", arg)
		if err != nil {
			return nil, err
		}
		return ast.Count{Field: field}, nil
	})

	RegisterStage("sample", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$sample", arg)
		if err != nil {
			return nil, err
		}
		sizeValue, err := requireField("$sample", doc, "size")
		if err != nil {
			return nil, err
		}
		size, err := asInt64("$sample", sizeValue)
		if err != nil {
			return nil, err
		}
		return ast.Sample{Size: size}, nil
	})
}
