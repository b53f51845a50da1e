package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileSetWindowFields computes one or more analytic values per row
// over a partition without collapsing rows, embedding each OVER(...)
// analytic expression directly as a JSON_OBJECT value rather than
// materializing separate scoped columns — Oracle permits analytic
// functions anywhere a scalar expression is legal, so no extra wrap/
// rescope step is needed the way $group's real GROUP BY requires.
func compileSetWindowFields(b *builder, s ast.SetWindowFields) error {
	b.ensureJSON()

	partitionClause := ""
	if s.PartitionBy != nil {
		p, err := s.PartitionBy.Render(b.ctx, b.sc)
		if err != nil {
			return err
		}
		partitionClause = "PARTITION BY " + p
	}
	orderClause, err := orderByClause(b, s.SortBy)
	if err != nil {
		return err
	}
	orderClause = strings.TrimPrefix(orderClause, " ")

	var windowParts []string
	if partitionClause != "" {
		windowParts = append(windowParts, partitionClause)
	}
	if orderClause != "" {
		windowParts = append(windowParts, orderClause)
	}

	var parts []string
	for _, p := range s.Output {
		acc, err := p.Value.Accumulator.Render(b.ctx, b.sc)
		if err != nil {
			return err
		}
		frame := windowFrame(p.Value.Window)
		parts = append(parts, fmt.Sprintf("%s VALUE %s OVER (%s%s)", quoteKey(p.Name), acc, strings.Join(windowParts, " "), frame))
	}

	body := fmt.Sprintf(
		"SELECT JSON_MERGEPATCH(t.data, JSON_OBJECT(%s)) AS data\n%s",
		strings.Join(parts, ", "), b.from(),
	)
	b.addCTE(body)
	return nil
}

// windowFrame renders $setWindowFields' documents/range bounds as a SQL
// ROWS BETWEEN frame clause, or the empty string for an unbounded
// whole-partition window.
func windowFrame(w ast.WindowSpec) string {
	if !w.HasBounds {
		return ""
	}
	lower := frameBound(w.LowerUnbounded, w.LowerOffset, true)
	upper := frameBound(w.UpperUnbounded, w.UpperOffset, false)
	return fmt.Sprintf(" ROWS BETWEEN %s AND %s", lower, upper)
}

func frameBound(unbounded bool, offset int64, isLower bool) string {
	if unbounded {
		if isLower {
			return "UNBOUNDED PRECEDING"
		}
		return "UNBOUNDED FOLLOWING"
	}
	if offset == 0 {
		return "CURRENT ROW"
	}
	if offset < 0 {
		return fmt.Sprintf("%d PRECEDING", -offset)
	}
	return fmt.Sprintf("%d FOLLOWING", offset)
}
