package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileFacet runs each named sub-pipeline independently over the
// current row set and assembles one output document with a field per
// name, each holding its sub-pipeline's full result array
// $facet). Every sub-pipeline reads from the same upstream row source,
// so its Collection placeholder ("$facet:<name>", set by the parser) is
// swapped for the real current CTE name before compiling.
func compileFacet(b *builder, s ast.Facet) error {
	b.ensureJSON()
	source := b.prev

	subCfg := b.cfg
	subCfg.SchemaPrefix = "" // source is a local CTE name or the already-qualified base table

	var parts []string
	for _, p := range s.Pipelines {
		sub := &ast.Pipeline{Collection: source, Stages: p.Value.Stages}
		sql, binds, err := Compile(sub, subCfg)
		if err != nil {
			return fmt.Errorf("facet %q: %w", p.Name, err)
		}
		for _, v := range binds {
			b.ctx.Bind(v)
		}
		parts = append(parts, fmt.Sprintf("%s VALUE (SELECT JSON_ARRAYAGG(data) FROM (%s))", quoteKey(p.Name), sql))
	}

	body := fmt.Sprintf("SELECT JSON_OBJECT(%s) AS data FROM DUAL", strings.Join(parts, ", "))
	b.addCTE(body)
	return nil
}
