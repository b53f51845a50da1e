package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/render"
)

// ObjectLiteral constructs a new JSON object from an ordered set of
// named sub-expressions — the expression-position document form (e.g.
// a $group accumulator's compound key, or a literal object used as a
// $project computed value). Rendered as JSON_OBJECT(...).
type ObjectLiteral struct {
	Fields OrderedMap[Expr]
}

func (ObjectLiteral) exprNode() {}

func (o ObjectLiteral) Render(ctx *render.Context, sc *Scope) (string, error) {
	if len(o.Fields) == 0 {
		return "JSON_OBJECT()", nil
	}
	var parts []string
	for _, p := range o.Fields {
		v, err := p.Value.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s VALUE %s", quoteObjectKey(p.Name), v))
	}
	return fmt.Sprintf("JSON_OBJECT(%s)", strings.Join(parts, ", ")), nil
}

func quoteObjectKey(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
