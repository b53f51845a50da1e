package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/render"
)

// builder accumulates one Compile call's named-subquery chain. Every
// stage consumes the previous stage's row source (aliased "t" uniformly)
// and either stays in json mode — a single JSON data column, the steady
// state for nearly every stage — or scoped mode, entered only by
// $group, whose GROUP BY requires real SQL columns instead of JSON path
// expressions.
type builder struct {
	ctx  *render.Context
	sc   *ast.Scope
	cfg  Config
	ctes []string
	n    int
	prev string // qualified table name, or the previous CTE's name

	mode string // "json" or "scoped"
	cols []string

	// merge holds a terminal $merge stage's MERGE INTO statement text,
	// set only when the pipeline's last stage is $merge. finish() emits
	// it in place of a trailing SELECT.
	merge string
}

func newBuilder(collection string, cfg Config) *builder {
	ctx := render.New(render.Config{Inline: cfg.Inline, SchemaPrefix: cfg.SchemaPrefix, BaseAlias: "t"})
	return &builder{
		ctx:  ctx,
		sc:   ast.NewScope(cfg.Dialect),
		cfg:  cfg,
		prev: qualifyTable(cfg, collection),
		mode: "json",
	}
}

func qualifyTable(cfg Config, collection string) string {
	if cfg.SchemaPrefix == "" {
		return collection
	}
	return cfg.SchemaPrefix + "." + collection
}

// from renders the "FROM <source> t" clause consuming the chain's
// current row source.
func (b *builder) from() string {
	return fmt.Sprintf("FROM %s t", b.prev)
}

// addCTE appends a fully-formed SELECT body as the next named subquery
// and makes it the chain's new source.
func (b *builder) addCTE(body string) string {
	b.n++
	name := fmt.Sprintf("stage%d", b.n)
	b.ctes = append(b.ctes, name+" AS (\n"+body+"\n)")
	b.prev = name
	return name
}

// ensureJSON collapses scoped mode back to a single JSON data column,
// needed before any stage whose semantics assume a whole-document JSON
// row ($lookup, $unwind, $graphLookup, $unionWith, $redact, $replaceRoot,
// $bucket/$bucketAuto, $setWindowFields, $merge).
func (b *builder) ensureJSON() {
	if b.mode == "json" {
		return
	}
	var parts []string
	for _, c := range b.cols {
		parts = append(parts, fmt.Sprintf("%s VALUE %s", quoteKey(c), b.ctx.Identifier(c)))
	}
	body := fmt.Sprintf("SELECT JSON_OBJECT(%s) AS data\n%s", strings.Join(parts, ", "), b.from())
	b.addCTE(body)
	b.mode = "json"
	b.cols = nil
	b.sc = ast.NewScope(b.cfg.Dialect)
}

func quoteKey(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// finish returns the complete WITH ... SELECT statement and bind list.
// An empty pipeline (no stages ever added) degenerates to a bare
// SELECT over the base table.
func (b *builder) finish() (string, []any) {
	var out strings.Builder
	if len(b.ctes) > 0 {
		out.WriteString("WITH ")
		out.WriteString(strings.Join(b.ctes, ",\n"))
		out.WriteString("\n")
		if b.merge != "" {
			out.WriteString(b.merge)
		} else {
			out.WriteString(fmt.Sprintf("SELECT %s FROM %s t", selectListFor(b), b.prev))
		}
	} else if b.merge != "" {
		out.WriteString(b.merge)
	} else {
		out.WriteString(fmt.Sprintf("SELECT data FROM %s t", b.prev))
	}
	return out.String(), b.ctx.Binds()
}

func selectListFor(b *builder) string {
	if b.mode == "scoped" {
		var parts []string
		for _, c := range b.cols {
			parts = append(parts, b.ctx.Identifier(c))
		}
		return strings.Join(parts, ", ")
	}
	return "t.data AS data"
}
