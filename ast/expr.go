// Package ast defines the tagged-variant Expression and Stage AST
// shared by the parser and the compiler. Each variant is a
// small struct implementing Expr or Stage; rendering is pattern-matched
// over the tagged variants instead of dispatched through inheritance —
// each becomes a sum type and render is pattern-matched.
package ast

import "github.com/dwoolworth/sqlpipe/render"

// Expr is implemented by every expression AST variant. Render produces
// a syntactically complete SQL sub-expression; it never writes a
// trailing/leading delimiter of its own — callers compose the returned
// fragment into a larger statement.
type Expr interface {
	exprNode()
	Render(ctx *render.Context, sc *Scope) (string, error)
}

// ReturningType forces a FieldPath access to a typed SQL return.
type ReturningType string

const (
	ReturnDefault ReturningType = ""
	ReturnNumber  ReturningType = "number"
	ReturnVarchar ReturningType = "varchar"
	ReturnDate    ReturningType = "date"
	ReturnBool    ReturningType = "bool"
)

// oracleType maps a ReturningType to its Oracle SQL type name.
func oracleType(rt ReturningType) string {
	switch rt {
	case ReturnNumber:
		return "NUMBER"
	case ReturnVarchar:
		return "VARCHAR2(4000)"
	case ReturnDate:
		return "TIMESTAMP WITH TIME ZONE"
	case ReturnBool:
		return "NUMBER(1)"
	default:
		return "VARCHAR2(4000)"
	}
}
