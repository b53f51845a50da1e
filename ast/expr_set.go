package ast

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// SetOp is a set-algebra operator over two (or more) arrays.
type SetOp string

const (
	SetUnion     SetOp = "setUnion"
	SetIntersect SetOp = "setIntersection"
	SetDifference SetOp = "setDifference"
	SetEquals    SetOp = "setEquals"
	SetIsSubset  SetOp = "setIsSubset"
)

// Set renders array set-algebra by enumerating each operand through a
// JSON_TABLE and combining the row sets with the matching SQL set
// operator (UNION/INTERSECT/MINUS).
type Set struct {
	Op       SetOp
	Operands []Expr
}

func (Set) exprNode() {}

func (s Set) Render(ctx *render.Context, sc *Scope) (string, error) {
	switch s.Op {
	case SetUnion:
		return s.combine(ctx, sc, "UNION")
	case SetIntersect:
		return s.combine(ctx, sc, "INTERSECT")
	case SetDifference:
		if len(s.Operands) != 2 {
			return "", &errkind.InvalidArgument{Operator: "$setDifference", Message: "requires exactly two arrays"}
		}
		return s.combine(ctx, sc, "MINUS")
	case SetEquals:
		return s.renderComparison(ctx, sc, true)
	case SetIsSubset:
		if len(s.Operands) != 2 {
			return "", &errkind.InvalidArgument{Operator: "$setIsSubset", Message: "requires exactly two arrays"}
		}
		return s.renderComparison(ctx, sc, false)
	}
	return "", &errkind.UnsupportedOperator{Kind: "expression", Name: "$" + string(s.Op)}
}

func (s Set) combine(ctx *render.Context, sc *Scope, op string) (string, error) {
	if len(s.Operands) < 2 {
		return "", &errkind.InvalidArgument{Operator: "$" + string(s.Op), Message: "requires at least two arrays"}
	}
	var parts []string
	a := Array{}
	for _, operand := range s.Operands {
		sub, err := a.elementSubquery(ctx, sc, operand, "val")
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("SELECT val FROM %s", sub))
	}
	combined := parts[0]
	for _, p := range parts[1:] {
		combined += " " + op + " " + p
	}
	return fmt.Sprintf("(SELECT JSON_ARRAYAGG(val) FROM (%s))", combined), nil
}

// renderComparison emits a boolean comparison between the two operands'
// row sets: equalSets checks a symmetric MINUS difference is empty both
// ways, isSubset checks only the left-minus-right direction.
func (s Set) renderComparison(ctx *render.Context, sc *Scope, symmetric bool) (string, error) {
	a := Array{}
	left, err := a.elementSubquery(ctx, sc, s.Operands[0], "val")
	if err != nil {
		return "", err
	}
	right, err := a.elementSubquery(ctx, sc, s.Operands[1], "val")
	if err != nil {
		return "", err
	}
	leftMinusRight := fmt.Sprintf("(SELECT val FROM %s MINUS SELECT val FROM %s)", left, right)
	if !symmetric {
		return fmt.Sprintf("(CASE WHEN NOT EXISTS (%s) THEN 1 ELSE 0 END)", leftMinusRight), nil
	}
	rightMinusLeft := fmt.Sprintf("(SELECT val FROM %s MINUS SELECT val FROM %s)", right, left)
	return fmt.Sprintf(
		"(CASE WHEN NOT EXISTS (%s) AND NOT EXISTS (%s) THEN 1 ELSE 0 END)",
		leftMinusRight, rightMinusLeft,
	), nil
}
