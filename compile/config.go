// Package compile lowers an ast.Pipeline into a single SQL statement: a
// chain of named subqueries (one per stage) over an Oracle-family
// JSON-relational table, each producing a single JSON "data" column
// (except after $group, which emits named columns) that the next stage's
// renderer consumes the same way the base table's documents are
// consumed. Grounded on goodm's
// crud.go (one function per SQL operation, Options-struct configuration,
// %w-wrapped errors) and middleware.go (an ordered pass chain).
package compile

import "github.com/dwoolworth/sqlpipe/dialect"

// Config fixes a single Compile call's behavior, adapted from goodm's
// per-call Options pattern rather than a package-level global.
type Config struct {
	// Dialect selects the target SQL capability profile.
	Dialect dialect.Descriptor

	// SchemaPrefix, if set, qualifies every collection-to-table reference
	// (schema.collection).
	SchemaPrefix string

	// Inline renders literal values in place instead of as bind
	// variables — useful for human-readable Explain output, never for
	// a statement meant to be executed directly.
	Inline bool

	// StrictReduce is not consulted by Compile. Whether a $reduce renders
	// as NULL or fails with a TranslationError is fixed at parse time by
	// parse.Config.StrictReduce, recorded on each ast.Reduce as Strict.
	StrictReduce bool

	// MaxGraphDepth bounds every $graphLookup recursion that does not
	// itself declare a maxDepth, guarding against runaway recursive CTEs
	// over cyclic graphs
	// no maxDepth relies on the database's native cycle detection").
	// Zero means unbounded.
	MaxGraphDepth int64
}

// DefaultConfig returns Config defaulted to the required Oracle23ai
// profile with bind-variable rendering.
func DefaultConfig() Config {
	return Config{Dialect: dialect.Oracle23ai}
}
