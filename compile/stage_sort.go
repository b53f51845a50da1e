package compile

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileSort renders $sort as an ORDER BY clause over the current row
// source, passing the row through unchanged in every other respect.
func compileSort(b *builder, s ast.Sort) error {
	order, err := orderByClause(b, s.Keys)
	if err != nil {
		return err
	}
	b.addCTE("SELECT " + selectListFor(b) + "\n" + b.from() + order)
	return nil
}

// compileSkipLimit lowers Mongo's separate $skip/$limit stages to
// Oracle's OFFSET/FETCH FIRST clause. A bare $limit
// needs no OFFSET keyword; a bare $skip needs no FETCH FIRST bound.
func compileSkipLimit(b *builder, s ast.SkipLimit) error {
	clause := ""
	if s.HasSkip {
		clause += fmt.Sprintf(" OFFSET %d ROWS", s.Skip)
	}
	if s.HasLimit {
		clause += fmt.Sprintf(" FETCH FIRST %d ROWS ONLY", s.Limit)
	}
	b.addCTE("SELECT " + selectListFor(b) + "\n" + b.from() + clause)
	return nil
}

// compileCount replaces the row set with a single document holding the
// input row count under Field.
func compileCount(b *builder, s ast.Count) error {
	b.ensureJSON()
	body := fmt.Sprintf("SELECT JSON_OBJECT(%s VALUE COUNT(*)) AS data\n%s", quoteKey(s.Field), b.from())
	b.addCTE(body)
	return nil
}

// compileSample lowers $sample to a random-order FETCH FIRST cap rather
// than Oracle's block-level SAMPLE clause, since SAMPLE returns an
// approximate percentage of rows, not the exact count $sample requires.
func compileSample(b *builder, s ast.Sample) error {
	body := fmt.Sprintf("SELECT %s\n%s\nORDER BY DBMS_RANDOM.VALUE\nFETCH FIRST %d ROWS ONLY", selectListFor(b), b.from(), s.Size)
	b.addCTE(body)
	return nil
}
