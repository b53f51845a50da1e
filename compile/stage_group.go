package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileGroup collapses rows sharing the same _id into one row per
// group, materializing real SQL columns (_id plus one per accumulator)
// instead of re-wrapping into JSON, so GROUP BY can reference them
// directly and every subsequent stage's field paths resolve against
// named output columns until something re-establishes a JSON row (the
// "scoped" field-path mode).
func compileGroup(b *builder, s ast.Group) error {
	b.ensureJSON()

	groupExprs, idSelect, err := renderGroupID(b, s.ID)
	if err != nil {
		return err
	}

	cols := []string{"_id"}
	selects := []string{idSelect + " AS " + b.ctx.Identifier("_id")}
	for _, p := range s.Accumulators {
		v, err := p.Value.Render(b.ctx, b.sc)
		if err != nil {
			return err
		}
		cols = append(cols, p.Name)
		selects = append(selects, v+" AS "+b.ctx.Identifier(p.Name))
	}

	body := "SELECT " + strings.Join(selects, ", ") + "\n" + b.from()
	if len(groupExprs) > 0 {
		body += "\nGROUP BY " + strings.Join(groupExprs, ", ")
	}
	b.addCTE(body)
	b.mode = "scoped"
	b.cols = cols
	b.sc = b.sc.WithScoped()
	return nil
}

// renderGroupID renders _id's select-list expression plus the raw
// grouping expressions GROUP BY must repeat. A literal/constant _id
// (Compound nil, Expr a non-field literal) collapses the whole input
// into a single group, matching Mongo's _id: null idiom, and contributes
// no GROUP BY expression at all.
func renderGroupID(b *builder, id ast.GroupID) ([]string, string, error) {
	if len(id.Compound) > 0 {
		var groupExprs []string
		var parts []string
		for _, p := range id.Compound {
			v, err := p.Value.Render(b.ctx, b.sc)
			if err != nil {
				return nil, "", err
			}
			groupExprs = append(groupExprs, v)
			parts = append(parts, fmt.Sprintf("%s VALUE %s", quoteKey(p.Name), v))
		}
		return groupExprs, fmt.Sprintf("JSON_OBJECT(%s)", strings.Join(parts, ", ")), nil
	}

	if id.Expr == nil {
		return nil, "NULL", nil
	}
	v, err := id.Expr.Render(b.ctx, b.sc)
	if err != nil {
		return nil, "", err
	}
	if _, isLiteral := id.Expr.(ast.Literal); isLiteral {
		return nil, v, nil
	}
	return []string{v}, v, nil
}
