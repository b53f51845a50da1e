package parse

import (
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Expr parses a single expression-position value decoded from BSON: a
// field path string ("$field"), a literal scalar, a literal array (each
// element itself parsed as an expression), an operator-keyed document
// ({"$add": [...]}), or a plain document constructing a new object. v is
// whatever bson.Unmarshal/UnmarshalExtJSON produced for a generic
// interface{} target: bson.D for documents, bson.A or []interface{} for
// arrays, and Go primitives/bson.ObjectID/bson.DateTime for scalars.
func Expr(v any, cfg Config) (ast.Expr, error) {
	switch val := v.(type) {
	case nil:
		return ast.Literal{IsNull: true}, nil
	case string:
		if strings.HasPrefix(val, "$$") {
			return parseSystemVariable(val)
		}
		if strings.HasPrefix(val, "$") {
			return ast.FieldPath{Path: strings.TrimPrefix(val, "$")}, nil
		}
		return ast.Literal{Value: val}, nil
	case bson.D:
		return parseDocumentExpr(val, cfg)
	case bson.M:
		return parseDocumentExprUnordered(val, cfg)
	case map[string]any:
		return parseDocumentExprUnordered(val, cfg)
	case bson.A:
		return parseArrayExpr([]any(val), cfg)
	case []any:
		return parseArrayExpr(val, cfg)
	case bson.ObjectID:
		return ast.Literal{Value: val.Hex()}, nil
	case bson.DateTime:
		return ast.Literal{Value: val.Time()}, nil
	case bson.Decimal128:
		return ast.Literal{Value: val.String()}, nil
	case int, int32, int64, float32, float64, bool:
		return ast.Literal{Value: val}, nil
	default:
		return ast.Literal{Value: val}, nil
	}
}

func parseArrayExpr(items []any, cfg Config) (ast.Expr, error) {
	out := make([]ast.Expr, len(items))
	for i, item := range items {
		e, err := Expr(item, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return ast.ArrayLiteral{Items: out}, nil
}

// parseSystemVariable resolves a "$$NAME"-form system variable. "$$ROOT"
// and "$$CURRENT" both address the whole current document. Every other
// name — "$$this" and any custom binding a $filter/$map "as" clause
// introduces — addresses an enclosing array operator's element binding
// and is represented as a sentinel field-path whose leading segment the
// compiler resolves via Scope.JoinAliases (ast/scope.go, ast/expr_array.go).
func parseSystemVariable(s string) (ast.Expr, error) {
	name := strings.TrimPrefix(s, "$$")
	if name == "ROOT" || name == "CURRENT" {
		return ast.FieldPath{Path: ""}, nil
	}
	return ast.FieldPath{Path: "$$" + name}, nil
}

// parseDocumentExpr dispatches a document-form expression: a single
// "$operator" key routes to the expression registry; anything else
// (zero or multiple keys, or a key not starting with "$") constructs a
// literal object whose fields are themselves parsed as expressions.
func parseDocumentExpr(doc bson.D, cfg Config) (ast.Expr, error) {
	if len(doc) == 1 && strings.HasPrefix(doc[0].Key, "$") {
		parser, ok := lookupExpr(strings.TrimPrefix(doc[0].Key, "$"))
		if !ok {
			return nil, &errkind.UnsupportedOperator{Kind: "expression", Name: doc[0].Key}
		}
		return parser(doc[0].Value, cfg)
	}

	var fields ast.OrderedMap[ast.Expr]
	for _, el := range doc {
		e, err := Expr(el.Value, cfg)
		if err != nil {
			return nil, err
		}
		fields = fields.Append(el.Key, e)
	}
	return ast.ObjectLiteral{Fields: fields}, nil
}

// parseDocumentExprUnordered handles a map-typed document value. Field
// order is not meaningful for an unordered Go map, so this path is only
// reachable for documents the driver decoded without order preservation;
// the parser's own entry points always decode into bson.D.
func parseDocumentExprUnordered(doc map[string]any, cfg Config) (ast.Expr, error) {
	if len(doc) == 1 {
		for k, v := range doc {
			if strings.HasPrefix(k, "$") {
				parser, ok := lookupExpr(strings.TrimPrefix(k, "$"))
				if !ok {
					return nil, &errkind.UnsupportedOperator{Kind: "expression", Name: k}
				}
				return parser(v, cfg)
			}
		}
	}
	var fields ast.OrderedMap[ast.Expr]
	for k, v := range doc {
		e, err := Expr(v, cfg)
		if err != nil {
			return nil, err
		}
		fields = fields.Append(k, e)
	}
	return ast.ObjectLiteral{Fields: fields}, nil
}
