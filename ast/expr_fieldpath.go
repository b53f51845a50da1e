package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/render"
)

// FieldPath is a dotted descent into the base row's JSON document (or,
// once JoinAliases recognizes its leading segment, into the JSON data
// expression registered for that alias — a joined row's data column, or
// a JSON_TABLE row variable inside an array operator's enumeration). A
// leading "$" in source syntax is stripped on ingest by the parser;
// Path never carries it.
type FieldPath struct {
	Path          string
	ReturningType ReturningType
}

func (FieldPath) exprNode() {}

func (f FieldPath) Render(ctx *render.Context, sc *Scope) (string, error) {
	if sc.Scoped {
		return renderScopedField(ctx, f.Path), nil
	}

	base := ctx.BaseData()
	if f.Path == "" {
		// $$ROOT / $$CURRENT with no further descent: the whole document.
		return base, nil
	}

	segs := strings.Split(f.Path, ".")
	if dataExpr, ok := sc.JoinAliases[segs[0]]; ok {
		if len(segs) == 1 {
			// A bare reference to the joined alias itself (e.g. "$reviews")
			// selects the whole joined document.
			return dataExpr, nil
		}
		base = dataExpr
		segs = segs[1:]
	}

	jsonPath := "$." + strings.Join(segs, ".")

	if sc.Dialect.SupportsNestedPath {
		expr := base + "." + strings.Join(segs, ".")
		if f.ReturningType != ReturnDefault {
			return fmt.Sprintf("CAST(%s AS %s)", expr, oracleType(f.ReturningType)), nil
		}
		return expr, nil
	}

	if f.ReturningType != ReturnDefault && sc.Dialect.SupportsJSONValueReturning {
		return fmt.Sprintf("JSON_VALUE(%s, '%s' RETURNING %s)", base, jsonPath, oracleType(f.ReturningType)), nil
	}

	expr := fmt.Sprintf("JSON_VALUE(%s, '%s')", base, jsonPath)
	if f.ReturningType != ReturnDefault {
		expr = fmt.Sprintf("CAST(%s AS %s)", expr, oracleType(f.ReturningType))
	}
	return expr, nil
}

// renderScopedField resolves a field path against a previously
// projected output column rather than a raw JSON path
// the "scoped" field-path mode entered after $group).
// Only the leading segment addresses a real output column; any
// remaining segments are rendered as an informal dotted suffix since a
// projected scalar column has no further JSON structure to descend
// into except when the prior stage itself projected nested JSON.
func renderScopedField(ctx *render.Context, path string) string {
	segs := strings.Split(path, ".")
	out := ctx.Identifier(segs[0])
	if len(segs) > 1 {
		out += "." + strings.Join(segs[1:], ".")
	}
	return out
}
