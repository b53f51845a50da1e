// Package render provides the SQL rendering context shared by the ast
// and compile packages: fragment appending, bind-variable numbering,
// identifier quoting, and inline-literal formatting.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var bareIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config fixes a Context's behavior at construction time.
type Config struct {
	// Inline renders literals in place instead of binding them.
	Inline bool
	// SchemaPrefix, if set, qualifies the base table (schema.collection).
	SchemaPrefix string
	// BaseAlias is the alias used for the base collection table so JSON
	// accesses can be qualified (e.g. base.data). May be empty.
	BaseAlias string
}

// Context accumulates a single SQL statement's text and bind list. It is
// not safe for concurrent use by multiple goroutines; independent
// translations must each construct their own Context.
type Context struct {
	cfg   Config
	buf   strings.Builder
	binds []any
}

// New constructs a Context from cfg.
func New(cfg Config) *Context {
	return &Context{cfg: cfg}
}

// SQL appends a raw SQL fragment verbatim.
func (c *Context) SQL(fragment string) {
	c.buf.WriteString(fragment)
}

// SQLf appends a formatted SQL fragment verbatim.
func (c *Context) SQLf(format string, args ...any) {
	fmt.Fprintf(&c.buf, format, args...)
}

// Bind records a host value and returns the SQL token that should be
// composed in its place: a positional placeholder ":N" in bind mode, or
// the literal's inline SQL text in inline mode. It never
// writes to the context's own buffer — callers (expression Render
// methods) compose the returned fragment into a larger string and the
// top-level caller appends the finished statement with SQL/SQLf.
func (c *Context) Bind(value any) string {
	if c.cfg.Inline {
		return FormatLiteral(value)
	}
	c.binds = append(c.binds, value)
	return ":" + strconv.Itoa(len(c.binds))
}

// Identifier renders name bare if it matches the unquoted-identifier
// grammar, else double-quoted with embedded quotes doubled.
func (c *Context) Identifier(name string) string {
	if bareIdentifier.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BaseAlias returns the configured base table alias, possibly empty.
func (c *Context) BaseAlias() string {
	return c.cfg.BaseAlias
}

// SchemaPrefix returns the configured schema prefix, possibly empty.
func (c *Context) SchemaPrefix() string {
	return c.cfg.SchemaPrefix
}

// Inline reports whether the context is in inline-literal mode.
func (c *Context) Inline() bool {
	return c.cfg.Inline
}

// BaseData renders a qualified reference to the base table's JSON data
// column, e.g. "base.data" or bare "data" when no alias is configured.
func (c *Context) BaseData() string {
	if c.cfg.BaseAlias == "" {
		return "data"
	}
	return c.cfg.BaseAlias + ".data"
}

// String returns the accumulated SQL text.
func (c *Context) String() string {
	return c.buf.String()
}

// Binds returns the ordered bind list. Empty (never nil-vs-empty
// meaningful) in inline mode.
func (c *Context) Binds() []any {
	return c.binds
}

// FormatLiteral renders value as an inline SQL literal: strings single
// quoted with embedded quotes doubled, nil as the bare NULL keyword,
// numbers as decimal text, and booleans as true/false.
func FormatLiteral(value any) string {
	if value == nil {
		return "NULL"
	}
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return strconv.FormatFloat(toFloat(v), 'f', -1, 64)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", v), "'", "''") + "'"
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
