package ast

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// AccumOp is a $group/$bucket/$setWindowFields accumulator operator.
type AccumOp string

const (
	AccumSum      AccumOp = "sum"
	AccumAvg      AccumOp = "avg"
	AccumMin      AccumOp = "min"
	AccumMax      AccumOp = "max"
	AccumCount    AccumOp = "count"
	AccumFirst    AccumOp = "first"
	AccumLast     AccumOp = "last"
	AccumPush     AccumOp = "push"
	AccumAddToSet AccumOp = "addToSet"

	// Window-only ranking ops ($setWindowFields): no argument, meaningful
	// only inside an OVER(...) clause the compiler supplies separately.
	AccumRank           AccumOp = "rank"
	AccumDenseRank      AccumOp = "denseRank"
	AccumDocumentNumber AccumOp = "documentNumber"
)

// Accumulator renders a group/bucket accumulator expression. Sort, when
// non-nil, supplies the correlated ORDER BY that makes First/Last
// deterministic via the KEEP (DENSE_RANK FIRST|LAST ORDER BY ...) form;
// when nil the Open Question decision documented in the design ledger
// applies: first/last falls back to MIN/MAX, which is well-defined but
// not order-preserving, and the caller is expected to have surfaced that
// nondeterminism during compilation.
type Accumulator struct {
	Op   AccumOp
	Arg  Expr // nil for $count
	Sort []SortKey
}

// SortKey is a single (expr, descending) ORDER BY term, shared with the
// Sort stage and used here for First/Last's KEEP clause.
type SortKey struct {
	Expr       Expr
	Descending bool
}

func (Accumulator) exprNode() {}

func (a Accumulator) Render(ctx *render.Context, sc *Scope) (string, error) {
	switch a.Op {
	case AccumCount:
		return "COUNT(*)", nil
	case AccumSum:
		return a.renderSum(ctx, sc)
	case AccumAvg:
		return a.renderSimple(ctx, sc, "AVG")
	case AccumMin:
		return a.renderSimple(ctx, sc, "MIN")
	case AccumMax:
		return a.renderSimple(ctx, sc, "MAX")
	case AccumFirst:
		return a.renderFirstLast(ctx, sc, "FIRST")
	case AccumLast:
		return a.renderFirstLast(ctx, sc, "LAST")
	case AccumPush:
		return a.renderSimpleWrap(ctx, sc, "JSON_ARRAYAGG")
	case AccumAddToSet:
		return a.renderSimpleWrap(ctx, sc, "JSON_ARRAYAGG", "DISTINCT")
	case AccumRank:
		return "RANK()", nil
	case AccumDenseRank:
		return "DENSE_RANK()", nil
	case AccumDocumentNumber:
		return "ROW_NUMBER()", nil
	}
	return "", &errkind.UnsupportedOperator{Kind: "expression", Name: "$" + string(a.Op)}
}

// renderSum collapses $sum over a constant literal (including the
// ubiquitous "$sum: 1" row-counting idiom) to COUNT(*); any other
// argument renders as SUM(expr).
func (a Accumulator) renderSum(ctx *render.Context, sc *Scope) (string, error) {
	if a.Arg == nil {
		return "", &errkind.InvalidArgument{Operator: "$sum", Message: "requires an argument"}
	}
	if lit, ok := a.Arg.(Literal); ok && !lit.IsNull {
		return "COUNT(*)", nil
	}
	return a.renderSimple(ctx, sc, "SUM")
}

func (a Accumulator) renderSimple(ctx *render.Context, sc *Scope, fn string) (string, error) {
	if a.Arg == nil {
		return "", &errkind.InvalidArgument{Operator: fn, Message: "requires an argument"}
	}
	arg, err := a.Arg.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fn, arg), nil
}

func (a Accumulator) renderSimpleWrap(ctx *render.Context, sc *Scope, fn string, modifier ...string) (string, error) {
	if a.Arg == nil {
		return "", &errkind.InvalidArgument{Operator: fn, Message: "requires an argument"}
	}
	arg, err := a.Arg.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	if len(modifier) > 0 {
		return fmt.Sprintf("%s(%s %s)", fn, modifier[0], arg), nil
	}
	return fmt.Sprintf("%s(%s)", fn, arg), nil
}

// renderFirstLast prefers the deterministic KEEP form when a correlated
// Sort is available; otherwise it falls back to MIN/MAX per the
// documented Open Question decision.
func (a Accumulator) renderFirstLast(ctx *render.Context, sc *Scope, which string) (string, error) {
	if a.Arg == nil {
		return "", &errkind.InvalidArgument{Operator: "$" + string(a.Op), Message: "requires an argument"}
	}
	arg, err := a.Arg.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	if len(a.Sort) == 0 {
		fallback := "MIN"
		if which == "LAST" {
			fallback = "MAX"
		}
		return fmt.Sprintf("%s(%s) /* nondeterministic: no correlated sort */", fallback, arg), nil
	}

	var order string
	for i, k := range a.Sort {
		if i > 0 {
			order += ", "
		}
		keyExpr, err := k.Expr.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		order += keyExpr
		if k.Descending {
			order += " DESC"
		}
	}
	return fmt.Sprintf("MAX(%s) KEEP (DENSE_RANK %s ORDER BY %s)", arg, which, order), nil
}
