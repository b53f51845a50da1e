package ast

import "github.com/dwoolworth/sqlpipe/dialect"

// Scope carries the per-node rendering context the compiler threads
// through expression rendering: which dialect capabilities are
// available, whether field-path access has degraded to "scoped" mode
// after a $group, and which top-level field
// prefixes belong to a $lookup/$graphLookup alias rather than the base
// row
// into a scoped mode for those nested contexts").
type Scope struct {
	Dialect dialect.Descriptor

	// Scoped is true once a field path must resolve to a previously
	// projected output column (after $group) instead of a raw JSON path
	// on the base row.
	Scoped bool

	// JoinAliases maps a field path's leading segment to the JSON data
	// expression it should be read from instead of the base row's data
	// column — e.g. "reviews" -> "reviews.data" for a $lookup alias, or
	// "$$this" -> "t.val" for a JSON_TABLE row variable inside an array
	// operator's element-wise enumeration.
	JoinAliases map[string]string
}

// NewScope constructs a root (unscoped, raw-mode) Scope for d.
func NewScope(d dialect.Descriptor) *Scope {
	return &Scope{Dialect: d, JoinAliases: map[string]string{}}
}

// WithScoped returns a copy of s with Scoped set to true.
func (s *Scope) WithScoped() *Scope {
	cp := *s
	cp.Scoped = true
	return &cp
}

// WithJoinAlias returns a copy of s with an additional field-prefix to
// join-alias mapping.
func (s *Scope) WithJoinAlias(prefix, alias string) *Scope {
	cp := *s
	cp.JoinAliases = make(map[string]string, len(s.JoinAliases)+1)
	for k, v := range s.JoinAliases {
		cp.JoinAliases[k] = v
	}
	cp.JoinAliases[prefix] = alias
	return &cp
}
