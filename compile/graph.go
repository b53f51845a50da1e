package compile

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileGraphLookup performs a recursive traversal from StartWith,
// following ConnectFromField to ConnectToField, via a recursive CTE
// seeded from the foreign collection and bounded by MaxDepth (or
// Config.MaxGraphDepth when the stage itself declares none) to guard
// against cyclic graphs the source database has no native cycle
// detection for
// decision). RestrictSearchWithMatch, when set, filters candidates at
// every recursive step.
func compileGraphLookup(b *builder, s ast.GraphLookup) error {
	b.ensureJSON()
	foreignTable := qualifyTable(b.cfg, s.From)
	recurseName := fmt.Sprintf("graph%d", b.n+1)

	startExpr, err := s.StartWith.Render(b.ctx, b.sc)
	if err != nil {
		return err
	}

	restrict := ""
	if s.RestrictSearchWithMatch != nil {
		cond, err := s.RestrictSearchWithMatch.Render(b.ctx, b.sc.WithJoinAlias("__candidate__", "f.data"))
		if err != nil {
			return err
		}
		restrict = " AND " + cond
	}

	maxDepth := s.MaxDepth
	if !s.HasMaxDepth {
		maxDepth = b.cfg.MaxGraphDepth
	}
	depthGuard := ""
	if s.HasMaxDepth || b.cfg.MaxGraphDepth > 0 {
		depthGuard = fmt.Sprintf(" AND p.graph_depth < %d", maxDepth)
	}

	recursiveCTE := fmt.Sprintf(
		"%s (data, graph_depth) AS (\n"+
			"  SELECT f.data, 0 FROM %s f WHERE JSON_VALUE(f.data, '$.%s') = %s%s\n"+
			"  UNION ALL\n"+
			"  SELECT f.data, p.graph_depth + 1 FROM %s f JOIN %s p ON JSON_VALUE(f.data, '$.%s') = JSON_VALUE(p.data, '$.%s')%s\n"+
			")",
		recurseName,
		foreignTable, s.ConnectToField, startExpr, restrict,
		foreignTable, recurseName, s.ConnectToField, s.ConnectFromField, depthGuard,
	)
	b.ctes = append(b.ctes, recursiveCTE)

	rowExpr := "r.data"
	if s.DepthField != "" {
		rowExpr = fmt.Sprintf("JSON_MERGEPATCH(r.data, JSON_OBJECT(%s VALUE r.graph_depth))", quoteKey(s.DepthField))
	}
	joined := fmt.Sprintf("(SELECT JSON_ARRAYAGG(%s) FROM %s r)", rowExpr, recurseName)
	body := fmt.Sprintf(
		"SELECT JSON_MERGEPATCH(t.data, JSON_OBJECT(%s VALUE NVL(%s, JSON_ARRAY()))) AS data\n%s",
		quoteKey(s.As), joined, b.from(),
	)
	b.addCTE(body)
	return nil
}
