package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/render"
)

// LogicalOp is AND/OR/NOT/NOR.
type LogicalOp string

const (
	LogAnd LogicalOp = "and"
	LogOr  LogicalOp = "or"
	LogNot LogicalOp = "not"
	LogNor LogicalOp = "nor"
)

// Logical renders n-ary AND/OR as parenthesized infix, NOR as a negated
// OR, and NOT by pushing the negation inside a comparison when possible.
type Logical struct {
	Op       LogicalOp
	Operands []Expr
}

func (Logical) exprNode() {}

func (l Logical) Render(ctx *render.Context, sc *Scope) (string, error) {
	switch l.Op {
	case LogAnd, LogOr:
		parts := make([]string, len(l.Operands))
		for i, op := range l.Operands {
			s, err := op.Render(ctx, sc)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		joiner := " AND "
		if l.Op == LogOr {
			joiner = " OR "
		}
		return "(" + strings.Join(parts, joiner) + ")", nil

	case LogNor:
		parts := make([]string, len(l.Operands))
		for i, op := range l.Operands {
			s, err := op.Render(ctx, sc)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "NOT (" + strings.Join(parts, " OR ") + ")", nil

	case LogNot:
		inner := l.Operands[0]
		if cmp, ok := inner.(Comparison); ok {
			if negated, ok := negateComparison(cmp); ok {
				return negated.Render(ctx, sc)
			}
		}
		s, err := inner.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT (%s)", s), nil
	}
	return "", fmt.Errorf("ast: unknown logical operator %q", l.Op)
}

var negatedOp = map[CompareOp]CompareOp{
	CmpEq: CmpNe, CmpNe: CmpEq,
	CmpGt: CmpLte, CmpLte: CmpGt,
	CmpGte: CmpLt, CmpLt: CmpGte,
	CmpIn: CmpNin, CmpNin: CmpIn,
}

func negateComparison(c Comparison) (Comparison, bool) {
	op, ok := negatedOp[c.Op]
	if !ok {
		return Comparison{}, false
	}
	return Comparison{Op: op, LHS: c.LHS, RHS: c.RHS}, true
}
