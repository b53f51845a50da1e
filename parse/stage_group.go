package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	RegisterStage("group", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$group", arg)
		if err != nil {
			return nil, err
		}
		idValue, err := requireField("$group", doc, "_id")
		if err != nil {
			return nil, err
		}
		id, err := parseGroupID(idValue, cfg)
		if err != nil {
			return nil, err
		}

		var accumulators ast.OrderedMap[ast.Accumulator]
		for _, el := range doc {
			if el.Key == "_id" {
				continue
			}
			acc, err := Accumulator(el.Value, cfg, nil)
			if err != nil {
				return nil, err
			}
			accumulators = accumulators.Append(el.Key, acc)
		}
		return ast.Group{ID: id, Accumulators: accumulators}, nil
	})
}

func parseGroupID(value any, cfg Config) (ast.GroupID, error) {
	if doc, ok := value.(bson.D); ok {
		if len(doc) == 0 || !isOperatorDoc(doc) {
			var compound ast.OrderedMap[ast.Expr]
			for _, el := range doc {
				e, err := Expr(el.Value, cfg)
				if err != nil {
					return ast.GroupID{}, err
				}
				compound = compound.Append(el.Key, e)
			}
			return ast.GroupID{Compound: compound}, nil
		}
	}
	e, err := Expr(value, cfg)
	if err != nil {
		return ast.GroupID{}, err
	}
	return ast.GroupID{Expr: e}, nil
}

// isOperatorDoc reports whether doc is a single "$operator"-keyed
// document rather than a plain field-name-keyed compound key document.
func isOperatorDoc(doc bson.D) bool {
	return len(doc) == 1 && len(doc[0].Key) > 0 && doc[0].Key[0] == '$'
}
