package compile

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

// Compile lowers p into a single SQL statement and its positional bind
// list. Each stage contributes one named subquery to a WITH chain; the
// final SELECT reads the last one.
func Compile(p *ast.Pipeline, cfg Config) (string, []any, error) {
	if p == nil {
		return "", nil, &errkind.EmptyInput{Context: "pipeline"}
	}
	stages := fuseMatchRuns(p.Stages)
	b := newBuilder(p.Collection, cfg)
	for i, stage := range stages {
		if err := compileStage(b, stage); err != nil {
			return "", nil, fmt.Errorf("stage %d: %w", i, err)
		}
	}
	sql, binds := b.finish()
	return sql, binds, nil
}

// fuseMatchRuns is the preflight match-fusion pass: every run of
// consecutive $match stages (whether pre-pivot or the post-group/
// post-window run that immediately follows a pivot) collapses into one
// $match whose filter is the AND of the run's filters, so it renders as
// a single WHERE with a single conjunction instead of one CTE per
// $match. A run of length one passes through unchanged. Matches
// separated by an intervening stage are not hoisted past it — only
// adjacent runs fuse, since reordering a $match across a stage that
// changes the row shape (e.g. $addFields, $project) is not sound in
// general.
func fuseMatchRuns(stages []ast.Stage) []ast.Stage {
	out := make([]ast.Stage, 0, len(stages))
	for i := 0; i < len(stages); {
		m, ok := stages[i].(ast.Match)
		if !ok {
			out = append(out, stages[i])
			i++
			continue
		}
		filters := []ast.Expr{m.Filter}
		j := i + 1
		for j < len(stages) {
			next, ok := stages[j].(ast.Match)
			if !ok {
				break
			}
			filters = append(filters, next.Filter)
			j++
		}
		if len(filters) == 1 {
			out = append(out, m)
		} else {
			out = append(out, ast.Match{Filter: ast.Logical{Op: ast.LogAnd, Operands: filters}})
		}
		i = j
	}
	return out
}

func compileStage(b *builder, stage ast.Stage) error {
	switch s := stage.(type) {
	case ast.Match:
		return compileMatch(b, s)
	case ast.Project:
		return compileProject(b, s)
	case ast.AddFields:
		return compileAddFields(b, s)
	case ast.Group:
		return compileGroup(b, s)
	case ast.Sort:
		return compileSort(b, s)
	case ast.SkipLimit:
		return compileSkipLimit(b, s)
	case ast.Count:
		return compileCount(b, s)
	case ast.Sample:
		return compileSample(b, s)
	case ast.Lookup:
		return compileLookup(b, s)
	case ast.Unwind:
		return compileUnwind(b, s)
	case ast.UnionWith:
		return compileUnionWith(b, s)
	case ast.GraphLookup:
		return compileGraphLookup(b, s)
	case ast.Bucket:
		return compileBucket(b, s)
	case ast.BucketAuto:
		return compileBucketAuto(b, s)
	case ast.Facet:
		return compileFacet(b, s)
	case ast.SetWindowFields:
		return compileSetWindowFields(b, s)
	case ast.Redact:
		return compileRedact(b, s)
	case ast.ReplaceRoot:
		return compileReplaceRoot(b, s)
	case ast.Merge:
		return compileMerge(b, s)
	}
	return &errkind.TranslationError{Stage: fmt.Sprintf("%T", stage), Message: "no compiler lowering registered for this stage type"}
}

func orderByClause(b *builder, keys []ast.SortKey) (string, error) {
	if len(keys) == 0 {
		return "", nil
	}
	clause := " ORDER BY "
	for i, k := range keys {
		if i > 0 {
			clause += ", "
		}
		expr, err := k.Expr.Render(b.ctx, b.sc)
		if err != nil {
			return "", err
		}
		clause += expr
		if k.Descending {
			clause += " DESC"
		}
	}
	return clause, nil
}
