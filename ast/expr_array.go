package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// ArrayOp is an array-expression operator.
type ArrayOp string

const (
	ArrElemAt     ArrayOp = "arrayElemAt"
	ArrSize       ArrayOp = "size"
	ArrFirst      ArrayOp = "first"
	ArrLast       ArrayOp = "last"
	ArrConcat     ArrayOp = "concatArrays"
	ArrSlice      ArrayOp = "slice"
	ArrFilter     ArrayOp = "filter"
	ArrMap        ArrayOp = "map"
	ArrIndexOf    ArrayOp = "indexOfArray"
	ArrReverse    ArrayOp = "reverse"
	ArrSortArray  ArrayOp = "sortArray"
)

// Array renders an array-expression operator. On a raw field path it
// uses JSON path expressions directly; on a nested/computed operand it
// falls back to a JSON_TABLE enumeration re-aggregated with
// JSON_ARRAYAGG.
type Array struct {
	Op ArrayOp

	// Operand is the primary array-valued expression.
	Operand Expr
	// Operands holds every array for $concatArrays (including Operand
	// as its first element).
	Operands []Expr

	// Index is the (required-literal) element index for arrayElemAt.
	Index Expr

	// Skip/Count are $slice's optional skip and required count.
	Skip  Expr
	Count Expr

	// Elem names the per-element binding ("$$this"-equivalent) used by
	// Cond ($filter's predicate) and MapIn ($map's "in" expression).
	Elem    string
	Cond    Expr
	MapIn   Expr

	// SortDescending controls $sortArray's single-key numeric/string sort.
	SortDescending bool
}

func (Array) exprNode() {}

func (a Array) Render(ctx *render.Context, sc *Scope) (string, error) {
	switch a.Op {
	case ArrElemAt, ArrFirst, ArrLast:
		return a.renderElemAt(ctx, sc)
	case ArrSize:
		return a.renderSize(ctx, sc)
	case ArrConcat:
		return a.renderConcat(ctx, sc)
	case ArrSlice:
		return a.renderSlice(ctx, sc)
	case ArrFilter:
		return a.renderFilter(ctx, sc)
	case ArrMap:
		return a.renderMap(ctx, sc)
	case ArrIndexOf:
		return a.renderIndexOf(ctx, sc)
	case ArrReverse, ArrSortArray:
		return a.renderReorder(ctx, sc)
	}
	return "", &errkind.UnsupportedOperator{Kind: "expression", Name: "$" + string(a.Op)}
}

// rawJSONPath returns the "$.a.b" JSON path and data-column expression
// for Operand when it is an unscoped raw field path, so index/size
// operators can use the cheap JSON_VALUE form instead of JSON_TABLE.
func rawJSONPath(e Expr, ctx *render.Context, sc *Scope) (data, path string, ok bool) {
	fp, isPath := e.(FieldPath)
	if !isPath || sc.Scoped {
		return "", "", false
	}
	segs := strings.Split(fp.Path, ".")
	base := ctx.BaseData()
	if d, aliased := sc.JoinAliases[segs[0]]; aliased {
		base = d
		segs = segs[1:]
	}
	return base, "$." + strings.Join(segs, "."), true
}

func (a Array) renderElemAt(ctx *render.Context, sc *Scope) (string, error) {
	suffix := "[0]"
	switch a.Op {
	case ArrLast:
		suffix = "[last]"
	case ArrElemAt:
		lit, ok := a.Index.(Literal)
		if !ok {
			return "", &errkind.InvalidArgument{Operator: "$arrayElemAt", Message: "index must be a literal"}
		}
		n, isInt := toInt(lit.Value)
		if !isInt {
			return "", &errkind.InvalidArgument{Operator: "$arrayElemAt", Message: "index must be an integer literal"}
		}
		if n < 0 {
			if n == -1 {
				suffix = "[last]"
			} else {
				suffix = fmt.Sprintf("[last-%d]", -n-1)
			}
		} else {
			suffix = fmt.Sprintf("[%d]", n)
		}
	}

	if data, path, ok := rawJSONPath(a.Operand, ctx, sc); ok {
		return fmt.Sprintf("JSON_VALUE(%s, '%s%s')", data, path, suffix), nil
	}
	return a.enumerateAndPick(ctx, sc, suffix)
}

func (a Array) renderSize(ctx *render.Context, sc *Scope) (string, error) {
	if data, path, ok := rawJSONPath(a.Operand, ctx, sc); ok {
		return fmt.Sprintf("JSON_VALUE(%s, '%s.size()' RETURNING NUMBER)", data, path), nil
	}
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s)", sub), nil
}

func (a Array) enumerateAndPick(ctx *render.Context, sc *Scope, suffix string) (string, error) {
	// Non-path operand: enumerate then pick by ordinal position. Only
	// literal [N] / [last] / [last-K] suffixes are supported here
	// (matching the literal-index requirement above).
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	if suffix == "[last]" {
		return fmt.Sprintf("(SELECT val FROM %s ORDER BY ord DESC FETCH FIRST 1 ROWS ONLY)", sub), nil
	}
	var k int
	if _, err := fmt.Sscanf(suffix, "[last-%d]", &k); err == nil {
		return fmt.Sprintf("(SELECT val FROM %s ORDER BY ord DESC OFFSET %d ROWS FETCH FIRST 1 ROWS ONLY)", sub, k), nil
	}
	fmt.Sscanf(suffix, "[%d]", &k)
	return fmt.Sprintf("(SELECT val FROM %s ORDER BY ord OFFSET %d ROWS FETCH FIRST 1 ROWS ONLY)", sub, k), nil
}

func (a Array) renderConcat(ctx *render.Context, sc *Scope) (string, error) {
	operands := a.Operands
	if len(operands) == 0 && a.Operand != nil {
		operands = []Expr{a.Operand}
	}
	if len(operands) == 0 {
		return "", &errkind.InvalidArgument{Operator: "$concatArrays", Message: "requires at least one array"}
	}
	var parts []string
	for i, op := range operands {
		sub, err := a.elementSubquery(ctx, sc, op, "val")
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("SELECT %d AS src, ord, val FROM %s", i+1, sub))
	}
	return fmt.Sprintf("(SELECT JSON_ARRAYAGG(val ORDER BY src, ord) FROM (%s))", strings.Join(parts, " UNION ALL ")), nil
}

func (a Array) renderSlice(ctx *render.Context, sc *Scope) (string, error) {
	if a.Count == nil {
		return "", &errkind.InvalidArgument{Operator: "$slice", Message: "requires a count"}
	}
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	count, err := a.Count.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	skip := "0"
	if a.Skip != nil {
		skip, err = a.Skip.Render(ctx, sc)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf(
		"(SELECT JSON_ARRAYAGG(val ORDER BY ord) FROM %s WHERE ord > (%s) AND ord <= (%s) + (%s))",
		sub, skip, skip, count,
	), nil
}

func (a Array) renderFilter(ctx *render.Context, sc *Scope) (string, error) {
	if a.Cond == nil {
		return "", &errkind.InvalidArgument{Operator: "$filter", Message: "requires a cond expression"}
	}
	elemScope := a.elemScope(sc, "t")
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	cond, err := a.Cond.Render(ctx, elemScope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(SELECT JSON_ARRAYAGG(val ORDER BY ord) FROM %s t WHERE %s)", sub, cond), nil
}

func (a Array) renderMap(ctx *render.Context, sc *Scope) (string, error) {
	if a.MapIn == nil {
		return "", &errkind.InvalidArgument{Operator: "$map", Message: "requires an in expression"}
	}
	elemScope := a.elemScope(sc, "t")
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	mapped, err := a.MapIn.Render(ctx, elemScope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(SELECT JSON_ARRAYAGG(%s ORDER BY ord) FROM %s t)", mapped, sub), nil
}

func (a Array) renderIndexOf(ctx *render.Context, sc *Scope) (string, error) {
	if a.Cond == nil {
		return "", &errkind.InvalidArgument{Operator: "$indexOfArray", Message: "requires a search value"}
	}
	elemScope := a.elemScope(sc, "t")
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	needle, err := a.Cond.Render(ctx, elemScope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"(SELECT MIN(ord) - 1 FROM %s t WHERE %s = %s)",
		sub, "t.val", needle,
	), nil
}

func (a Array) renderReorder(ctx *render.Context, sc *Scope) (string, error) {
	sub, err := a.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	order := "ord"
	if a.Op == ArrReverse || a.SortDescending {
		order += " DESC"
	}
	return fmt.Sprintf("(SELECT JSON_ARRAYAGG(val ORDER BY %s) FROM %s)", order, sub), nil
}

// elementSubquery emits a JSON_TABLE enumeration of arr's elements as
// (ord, val) rows, using rawJSONPath when possible and falling back to
// rendering arr as a nested expression otherwise.
func (a Array) elementSubquery(ctx *render.Context, sc *Scope, arr Expr, valCol string) (string, error) {
	var arrSQL string
	if data, path, ok := rawJSONPath(arr, ctx, sc); ok {
		arrSQL = fmt.Sprintf("%s, '%s'", data, path)
	} else {
		rendered, err := arr.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		arrSQL = fmt.Sprintf("%s, '$'", rendered)
	}
	return fmt.Sprintf(
		"JSON_TABLE(%s COLUMNS (ord FOR ORDINALITY, %s VARCHAR2(4000) PATH '$'))",
		arrSQL, valCol,
	), nil
}

// elemScope binds a's Elem name (or "$$this" if unset) to the
// JSON_TABLE row alias so the element-wise predicate/mapper expression
// can reference the current array element.
func (a Array) elemScope(sc *Scope, rowAlias string) *Scope {
	name := a.Elem
	if name == "" {
		name = "$$this"
	}
	return sc.WithJoinAlias(name, rowAlias+".val")
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
