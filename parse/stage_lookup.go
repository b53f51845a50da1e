package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	RegisterStage("lookup", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$lookup", arg)
		if err != nil {
			return nil, err
		}
		fromValue, err := requireField("$lookup", doc, "from")
		if err != nil {
			return nil, err
		}
		from, err := asString("$lookup", fromValue)
		if err != nil {
			return nil, err
		}
		asValue, err := requireField("$lookup", doc, "as")
		if err != nil {
			return nil, err
		}
		asField, err := asString("$lookup", asValue)
		if err != nil {
			return nil, err
		}

		if pipelineValue, ok := field(doc, "pipeline"); ok {
			stages, err := parseSubPipelineStages(pipelineValue)
			if err != nil {
				return nil, err
			}
			sub, err := Pipeline(from, stages, cfg)
			if err != nil {
				return nil, err
			}
			var lets []ast.LookupLet
			if letValue, ok := field(doc, "let"); ok {
				letDoc, err := asDocument("$lookup.let", letValue)
				if err != nil {
					return nil, err
				}
				for _, el := range letDoc {
					e, err := Expr(el.Value, cfg)
					if err != nil {
						return nil, err
					}
					lets = append(lets, ast.LookupLet{Name: el.Key, Expr: e})
				}
			}
			return ast.Lookup{From: from, As: asField, Let: lets, SubPipeline: sub}, nil
		}

		localValue, err := requireField("$lookup", doc, "localField")
		if err != nil {
			return nil, err
		}
		local, err := asString("$lookup", localValue)
		if err != nil {
			return nil, err
		}
		foreignValue, err := requireField("$lookup", doc, "foreignField")
		if err != nil {
			return nil, err
		}
		foreign, err := asString("$lookup", foreignValue)
		if err != nil {
			return nil, err
		}
		return ast.Lookup{From: from, As: asField, LocalField: local, ForeignField: foreign}, nil
	})

	RegisterStage("unwind", func(arg any, cfg Config) (ast.Stage, error) {
		if s, ok := arg.(string); ok {
			return ast.Unwind{Path: trimFieldPrefix(s)}, nil
		}
		doc, err := asDocument("$unwind", arg)
		if err != nil {
			return nil, err
		}
		pathValue, err := requireField("$unwind", doc, "path")
		if err != nil {
			return nil, err
		}
		path, err := asString("$unwind", pathValue)
		if err != nil {
			return nil, err
		}
		u := ast.Unwind{Path: trimFieldPrefix(path)}
		if idxValue, ok := field(doc, "includeArrayIndex"); ok {
			idx, err := asString("$unwind", idxValue)
			if err != nil {
				return nil, err
			}
			u.IncludeArrayIndex = idx
		}
		if preserveValue, ok := field(doc, "preserveNullAndEmptyArrays"); ok {
			preserve, err := asBool("$unwind", preserveValue)
			if err != nil {
				return nil, err
			}
			u.PreserveNullAndEmptyArrays = preserve
		}
		return u, nil
	})

	RegisterStage("unionWith", func(arg any, cfg Config) (ast.Stage, error) {
		if s, ok := arg.(string); ok {
			return ast.UnionWith{From: s}, nil
		}
		doc, err := asDocument("$unionWith", arg)
		if err != nil {
			return nil, err
		}
		collValue, err := requireField("$unionWith", doc, "coll")
		if err != nil {
			return nil, err
		}
		coll, err := asString("$unionWith", collValue)
		if err != nil {
			return nil, err
		}
		u := ast.UnionWith{From: coll}
		if pipelineValue, ok := field(doc, "pipeline"); ok {
			stages, err := parseSubPipelineStages(pipelineValue)
			if err != nil {
				return nil, err
			}
			sub, err := Pipeline(coll, stages, cfg)
			if err != nil {
				return nil, err
			}
			u.SubPipeline = sub
		}
		return u, nil
	})

	RegisterStage("graphLookup", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$graphLookup", arg)
		if err != nil {
			return nil, err
		}
		fromValue, err := requireField("$graphLookup", doc, "from")
		if err != nil {
			return nil, err
		}
		from, err := asString("$graphLookup", fromValue)
		if err != nil {
			return nil, err
		}
		startWithValue, err := requireField("$graphLookup", doc, "startWith")
		if err != nil {
			return nil, err
		}
		startWith, err := Expr(startWithValue, cfg)
		if err != nil {
			return nil, err
		}
		connectFromValue, err := requireField("$graphLookup", doc, "connectFromField")
		if err != nil {
			return nil, err
		}
		connectFrom, err := asString("$graphLookup", connectFromValue)
		if err != nil {
			return nil, err
		}
		connectToValue, err := requireField("$graphLookup", doc, "connectToField")
		if err != nil {
			return nil, err
		}
		connectTo, err := asString("$graphLookup", connectToValue)
		if err != nil {
			return nil, err
		}
		asValue, err := requireField("$graphLookup", doc, "as")
		if err != nil {
			return nil, err
		}
		asField, err := asString("$graphLookup", asValue)
		if err != nil {
			return nil, err
		}

		g := ast.GraphLookup{
			From: from, StartWith: startWith,
			ConnectFromField: connectFrom, ConnectToField: connectTo, As: asField,
		}
		if maxDepthValue, ok := field(doc, "maxDepth"); ok {
			n, err := asInt64("$graphLookup", maxDepthValue)
			if err != nil {
				return nil, err
			}
			g.MaxDepth = n
			g.HasMaxDepth = true
		}
		if depthFieldValue, ok := field(doc, "depthField"); ok {
			s, err := asString("$graphLookup", depthFieldValue)
			if err != nil {
				return nil, err
			}
			g.DepthField = s
		}
		if restrictValue, ok := field(doc, "restrictSearchWithMatch"); ok {
			restrictDoc, err := asDocument("$graphLookup", restrictValue)
			if err != nil {
				return nil, err
			}
			restrict, err := Query(restrictDoc, cfg)
			if err != nil {
				return nil, err
			}
			g.RestrictSearchWithMatch = restrict
		}
		return g, nil
	})
}

func trimFieldPrefix(s string) string {
	if len(s) > 0 && s[0] == '$' {
		return s[1:]
	}
	return s
}

func parseSubPipelineStages(value any) ([]bson.D, error) {
	items, err := asArray("pipeline", value)
	if err != nil {
		return nil, err
	}
	stages := make([]bson.D, len(items))
	for i, item := range items {
		doc, err := asDocument("pipeline", item)
		if err != nil {
			return nil, err
		}
		stages[i] = doc
	}
	return stages, nil
}
