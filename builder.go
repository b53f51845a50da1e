// Package sqlpipe translates MongoDB aggregation pipelines into a
// single SQL statement against a JSON-aware Oracle-family relational
// database. The root package exposes a fluent Pipeline builder and the
// top-level Parse/Compile/CompileMany entry points; the stage and
// expression AST lives in ast, parsing in parse, and SQL emission in
// compile.
package sqlpipe

import "github.com/dwoolworth/sqlpipe/ast"

// Builder accumulates stages for a single collection's pipeline, in the
// chained-method style of pipeline.go's stage builder methods,
// generalized here to every stage kind.
type Builder struct {
	collection string
	stages     []ast.Stage
}

// NewBuilder starts a Builder over collection.
func NewBuilder(collection string) *Builder {
	return &Builder{collection: collection}
}

func (b *Builder) add(s ast.Stage) *Builder {
	b.stages = append(b.stages, s)
	return b
}

// Match appends a $match stage.
func (b *Builder) Match(filter ast.Expr) *Builder { return b.add(ast.Match{Filter: filter}) }

// Project appends a $project stage.
func (b *Builder) Project(fields ast.OrderedMap[ast.ProjectionSpec], excludeID bool) *Builder {
	return b.add(ast.Project{Fields: fields, ExcludeID: excludeID})
}

// AddFields appends an $addFields stage.
func (b *Builder) AddFields(fields ast.OrderedMap[ast.Expr]) *Builder {
	return b.add(ast.AddFields{Fields: fields})
}

// Group appends a $group stage.
func (b *Builder) Group(id ast.GroupID, accumulators ast.OrderedMap[ast.Accumulator]) *Builder {
	return b.add(ast.Group{ID: id, Accumulators: accumulators})
}

// Sort appends a $sort stage.
func (b *Builder) Sort(keys ...ast.SortKey) *Builder { return b.add(ast.Sort{Keys: keys}) }

// Skip appends a $skip stage.
func (b *Builder) Skip(n int64) *Builder { return b.add(ast.SkipLimit{Skip: n, HasSkip: true}) }

// Limit appends a $limit stage.
func (b *Builder) Limit(n int64) *Builder { return b.add(ast.SkipLimit{Limit: n, HasLimit: true}) }

// Lookup appends a $lookup stage.
func (b *Builder) Lookup(l ast.Lookup) *Builder { return b.add(l) }

// Unwind appends an $unwind stage.
func (b *Builder) Unwind(u ast.Unwind) *Builder { return b.add(u) }

// UnionWith appends a $unionWith stage.
func (b *Builder) UnionWith(u ast.UnionWith) *Builder { return b.add(u) }

// GraphLookup appends a $graphLookup stage.
func (b *Builder) GraphLookup(g ast.GraphLookup) *Builder { return b.add(g) }

// Bucket appends a $bucket stage.
func (b *Builder) Bucket(bk ast.Bucket) *Builder { return b.add(bk) }

// BucketAuto appends a $bucketAuto stage.
func (b *Builder) BucketAuto(bk ast.BucketAuto) *Builder { return b.add(bk) }

// Facet appends a $facet stage.
func (b *Builder) Facet(f ast.Facet) *Builder { return b.add(f) }

// SetWindowFields appends a $setWindowFields stage.
func (b *Builder) SetWindowFields(s ast.SetWindowFields) *Builder { return b.add(s) }

// Count appends a $count stage.
func (b *Builder) Count(field string) *Builder { return b.add(ast.Count{Field: field}) }

// Sample appends a $sample stage.
func (b *Builder) Sample(size int64) *Builder { return b.add(ast.Sample{Size: size}) }

// Redact appends a $redact stage.
func (b *Builder) Redact(expr ast.Expr) *Builder { return b.add(ast.Redact{Expr: expr}) }

// ReplaceRoot appends a $replaceRoot stage.
func (b *Builder) ReplaceRoot(newRoot ast.Expr) *Builder {
	return b.add(ast.ReplaceRoot{NewRoot: newRoot})
}

// Merge appends a $merge stage.
func (b *Builder) Merge(m ast.Merge) *Builder { return b.add(m) }

// Build finalizes the accumulated stages into an immutable Pipeline.
func (b *Builder) Build() *ast.Pipeline {
	return ast.NewPipeline(b.collection, b.stages...)
}
