package compile

import "github.com/dwoolworth/sqlpipe/ast"

// compileMatch emits a WHERE filter over the current row source. After
// $group (scoped mode), field paths resolve to the group's real output
// columns, so a $match immediately following $group reads exactly like a
// SQL HAVING clause without needing a dedicated HAVING rendering path.
func compileMatch(b *builder, s ast.Match) error {
	cond, err := s.Filter.Render(b.ctx, b.sc)
	if err != nil {
		return err
	}
	body := "SELECT " + selectListFor(b) + "\n" + b.from() + "\nWHERE " + cond
	b.addCTE(body)
	return nil
}
