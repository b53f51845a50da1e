package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterStage("project", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$project", arg)
		if err != nil {
			return nil, err
		}
		if len(doc) == 0 {
			return nil, &errkind.EmptyInput{Context: "$project"}
		}

		var fields ast.OrderedMap[ast.ProjectionSpec]
		excludeID := false
		for _, el := range doc {
			if el.Key == "_id" {
				if n, ok := asLiteralInt(el.Value); ok && n == 0 {
					excludeID = true
					continue
				}
			}
			spec, err := projectionSpec(el.Value, cfg)
			if err != nil {
				return nil, err
			}
			fields = fields.Append(el.Key, spec)
		}
		return ast.Project{Fields: fields, ExcludeID: excludeID}, nil
	})

	RegisterStage("addFields", addFieldsParser)
	RegisterStage("set", addFieldsParser)
}

func addFieldsParser(arg any, cfg Config) (ast.Stage, error) {
	doc, err := asDocument("$addFields", arg)
	if err != nil {
		return nil, err
	}
	var fields ast.OrderedMap[ast.Expr]
	for _, el := range doc {
		e, err := Expr(el.Value, cfg)
		if err != nil {
			return nil, err
		}
		fields = fields.Append(el.Key, e)
	}
	return ast.AddFields{Fields: fields}, nil
}

func projectionSpec(value any, cfg Config) (ast.ProjectionSpec, error) {
	if n, ok := asLiteralInt(value); ok {
		if n == 0 {
			return ast.ProjectionSpec{Kind: ast.ProjectExclude}, nil
		}
		return ast.ProjectionSpec{Kind: ast.ProjectInclude}, nil
	}
	if b, ok := value.(bool); ok {
		if b {
			return ast.ProjectionSpec{Kind: ast.ProjectInclude}, nil
		}
		return ast.ProjectionSpec{Kind: ast.ProjectExclude}, nil
	}
	e, err := Expr(value, cfg)
	if err != nil {
		return ast.ProjectionSpec{}, err
	}
	return ast.ProjectionSpec{Kind: ast.ProjectComputed, Computed: e}, nil
}

func asLiteralInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
