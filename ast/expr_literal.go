package ast

import "github.com/dwoolworth/sqlpipe/render"

// Literal is a constant scalar value. IsNull distinguishes an explicit
// BSON null from a zero Go value (e.g. an empty string literal).
type Literal struct {
	Value  any
	IsNull bool
}

func (Literal) exprNode() {}

// Render emits the bare NULL keyword for a null literal, otherwise
// binds the value (or inlines it, in inline mode).
func (l Literal) Render(ctx *render.Context, _ *Scope) (string, error) {
	if l.IsNull || l.Value == nil {
		return "NULL", nil
	}
	return ctx.Bind(l.Value), nil
}
