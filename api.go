package sqlpipe

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/compile"
	"github.com/dwoolworth/sqlpipe/parse"
)

// Parse decodes a collection name plus an ordered list of BSON stage
// documents into an ast.Pipeline.
func Parse(collection string, stages []bson.D, cfg parse.Config) (*ast.Pipeline, error) {
	return parse.Pipeline(collection, stages, cfg)
}

// Compile lowers a parsed pipeline into a single SQL statement and its
// positional bind list.
func Compile(p *ast.Pipeline, cfg compile.Config) (string, []any, error) {
	return compile.Compile(p, cfg)
}

// CompileMany compiles a named batch of pipelines, collecting every
// per-pipeline error instead of stopping at the first
// multi-pipeline CLI input container).
func CompileMany(pipelines map[string]*ast.Pipeline, order []string, cfg compile.Config) ([]compile.Statement, []error) {
	return compile.CompileMany(pipelines, order, cfg)
}

// Explain renders p with inline literals instead of bind placeholders
// alongside a human-readable PlanSummary, for reviewing a translation
// before running it against a real connection.
func Explain(p *ast.Pipeline, cfg compile.Config) (string, compile.PlanSummary, error) {
	return compile.Explain(p, cfg)
}
