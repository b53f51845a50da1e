package compile

import "github.com/dwoolworth/sqlpipe/ast"

// Statement is one compiled pipeline's SQL text and bind list, tagged
// with the name it was submitted under in a CompileMany batch.
type Statement struct {
	Name  string
	SQL   string
	Binds []any
}

// CompileMany compiles a named batch of pipelines independently — the
// same named-batch shape as the CLI's {pipelines: [...]} container input,
// which the CLI itself compiles one pipeline at a time — and
// reports every failure rather than stopping at the first one, so a
// single bad pipeline in a large batch doesn't hide sibling errors.
func CompileMany(pipelines map[string]*ast.Pipeline, order []string, cfg Config) ([]Statement, []error) {
	var stmts []Statement
	var errs []error
	for _, name := range order {
		p := pipelines[name]
		sql, binds, err := Compile(p, cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stmts = append(stmts, Statement{Name: name, SQL: sql, Binds: binds})
	}
	return stmts, errs
}
