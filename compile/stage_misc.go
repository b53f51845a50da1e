package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

// compileRedact implements the root-document-only subset of $redact: the
// expression decides whether the row survives, not field-level
// descend/prune (ast.Redact doc comment, recorded Open Question
// decision).
func compileRedact(b *builder, s ast.Redact) error {
	b.ensureJSON()
	cond, err := s.Expr.Render(b.ctx, b.sc)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("SELECT t.data AS data\n%s\nWHERE %s", b.from(), cond)
	b.addCTE(body)
	return nil
}

// compileReplaceRoot replaces the row with NewRoot's value ($replaceRoot
// / $replaceWith).
func compileReplaceRoot(b *builder, s ast.ReplaceRoot) error {
	b.ensureJSON()
	root, err := s.NewRoot.Render(b.ctx, b.sc)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("SELECT %s AS data\n%s", root, b.from())
	b.addCTE(body)
	return nil
}

// compileMerge lowers $merge to a MERGE INTO statement matched on
// OnFields, with WhenMatched/WhenNotMatched selecting its UPDATE/INSERT
// clauses (no DELETE clause is emitted). Unlike every other stage, $merge
// is a terminal write and its compiled form replaces the accumulated
// SELECT rather than adding another CTE to the chain: compileStage
// dispatches it like any other stage, this function stores the statement
// on builder.merge, and finish() emits it in place of the final SELECT.
func compileMerge(b *builder, s ast.Merge) error {
	b.ensureJSON()
	if len(s.OnFields) == 0 {
		return &errkind.InvalidArgument{Operator: "$merge", Message: "requires at least one on-field"}
	}
	target := qualifyTable(b.cfg, s.Into)

	var onConds []string
	for _, f := range s.OnFields {
		onConds = append(onConds, fmt.Sprintf("JSON_VALUE(tgt.data, '$.%s') = JSON_VALUE(src.data, '$.%s')", f, f))
	}

	var whenMatched, whenNotMatched string
	switch s.WhenMatched {
	case ast.MergeReplace:
		whenMatched = "WHEN MATCHED THEN UPDATE SET tgt.data = src.data"
	case ast.MergeFail:
		whenMatched = "" // enforced at the application layer; MERGE has no native "raise" clause
	case ast.MergeKeepExisting:
		whenMatched = ""
	default:
		whenMatched = "WHEN MATCHED THEN UPDATE SET tgt.data = src.data"
	}
	switch s.WhenNotMatched {
	case ast.MergeInsert:
		whenNotMatched = "WHEN NOT MATCHED THEN INSERT (data) VALUES (src.data)"
	case ast.MergeDiscard:
		whenNotMatched = ""
	default:
		whenNotMatched = "WHEN NOT MATCHED THEN INSERT (data) VALUES (src.data)"
	}

	merge := fmt.Sprintf(
		"MERGE INTO %s tgt\nUSING (SELECT data FROM %s t) src\nON (%s)\n%s\n%s",
		target, b.prev, strings.Join(onConds, " AND "), whenMatched, whenNotMatched,
	)
	b.merge = merge
	return nil
}
