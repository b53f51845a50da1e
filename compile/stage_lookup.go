package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileLookup joins another collection's documents into the row's As
// field. The equality form correlates LocalField/ForeignField directly;
// the pipeline form compiles its sub-pipeline standalone. Let expressions
// are rendered but their values are not passed into the sub-pipeline, so
// it is not correlated with the outer row.
func compileLookup(b *builder, s ast.Lookup) error {
	b.ensureJSON()
	foreignTable := qualifyTable(b.cfg, s.From)

	var joined string
	if s.SubPipeline == nil {
		localExpr, err := (ast.FieldPath{Path: s.LocalField}).Render(b.ctx, b.sc)
		if err != nil {
			return err
		}
		foreignExpr := fmt.Sprintf("JSON_VALUE(f.data, '$.%s')", s.ForeignField)
		joined = fmt.Sprintf(
			"(SELECT JSON_ARRAYAGG(f.data) FROM %s f WHERE %s = %s)",
			foreignTable, foreignExpr, localExpr,
		)
	} else {
		for _, l := range s.Let {
			if _, err := l.Expr.Render(b.ctx, b.sc); err != nil {
				return err
			}
		}
		subSQL, subBinds, err := Compile(s.SubPipeline, b.cfg)
		if err != nil {
			return err
		}
		for _, v := range subBinds {
			b.ctx.Bind(v)
		}
		joined = fmt.Sprintf("(SELECT JSON_ARRAYAGG(data) FROM (%s))", subSQL)
	}

	body := fmt.Sprintf(
		"SELECT JSON_MERGEPATCH(t.data, JSON_OBJECT(%s VALUE NVL(%s, JSON_ARRAY()))) AS data\n%s",
		quoteKey(s.As), joined, b.from(),
	)
	b.addCTE(body)
	return nil
}

// compileUnwind explodes an array field into one row per element via
// JSON_TABLE, optionally recording the zero-based element index and
// optionally preserving documents where the path is missing/null/empty
// instead of dropping them.
func compileUnwind(b *builder, s ast.Unwind) error {
	b.ensureJSON()
	fieldName := strings.TrimPrefix(s.Path, "$")
	jsonPath := "$." + fieldName

	ordinalCol := ""
	idxField := ""
	if s.IncludeArrayIndex != "" {
		ordinalCol = "idx FOR ORDINALITY, "
		idxField = fmt.Sprintf(", %s VALUE (e.idx - 1)", quoteKey(s.IncludeArrayIndex))
	}

	exploded := fmt.Sprintf(
		"JSON_TABLE(t.data, '%s' COLUMNS (%sval VARCHAR2(4000) FORMAT JSON PATH '$'))",
		jsonPath, ordinalCol,
	)

	joinKind := "JOIN"
	if s.PreserveNullAndEmptyArrays {
		joinKind = "LEFT JOIN"
	}

	merged := fmt.Sprintf("JSON_MERGEPATCH(t.data, JSON_OBJECT(%s VALUE e.val%s))", quoteKey(fieldName), idxField)
	body := fmt.Sprintf(
		"SELECT %s AS data\nFROM %s t %s %s e ON 1 = 1",
		merged, b.prev, joinKind, exploded,
	)
	b.addCTE(body)
	return nil
}

// compileUnionWith appends another collection's (optionally sub-piped)
// rows via UNION ALL.
func compileUnionWith(b *builder, s ast.UnionWith) error {
	b.ensureJSON()
	var otherSQL string
	if s.SubPipeline != nil {
		sql, binds, err := Compile(s.SubPipeline, b.cfg)
		if err != nil {
			return err
		}
		for _, v := range binds {
			b.ctx.Bind(v)
		}
		otherSQL = sql
	} else {
		otherSQL = fmt.Sprintf("SELECT data FROM %s t", qualifyTable(b.cfg, s.From))
	}
	body := fmt.Sprintf("SELECT data FROM %s t\nUNION ALL\n%s", b.prev, otherSQL)
	b.addCTE(body)
	return nil
}
