package ast

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// MergeObjects renders $mergeObjects as a left-to-right JSON_MERGEPATCH
// fold: each later document's fields win over earlier ones, matching
// Mongo's last-write-wins merge order.
type MergeObjects struct {
	Operands []Expr
}

func (MergeObjects) exprNode() {}

func (m MergeObjects) Render(ctx *render.Context, sc *Scope) (string, error) {
	if len(m.Operands) == 0 {
		return "", &errkind.EmptyInput{Context: "$mergeObjects"}
	}
	acc, err := m.Operands[0].Render(ctx, sc)
	if err != nil {
		return "", err
	}
	for _, op := range m.Operands[1:] {
		r, err := op.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		acc = fmt.Sprintf("JSON_MERGEPATCH(%s, %s)", acc, r)
	}
	return acc, nil
}

// ObjectToArray renders $objectToArray: each top-level key/value pair of
// Operand becomes a {"k": key, "v": value} element, reaggregated with
// JSON_ARRAYAGG over a JSON_TABLE NESTED PATH '$.*' enumeration.
type ObjectToArray struct {
	Operand Expr
}

func (ObjectToArray) exprNode() {}

func (o ObjectToArray) Render(ctx *render.Context, sc *Scope) (string, error) {
	obj, err := o.Operand.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"(SELECT JSON_ARRAYAGG(JSON_OBJECT('k' VALUE k, 'v' VALUE v)) "+
			"FROM JSON_TABLE(%s, '$' COLUMNS (NESTED PATH '$.*' COLUMNS ("+
			"k VARCHAR2(4000) PATH '$.key()', v VARCHAR2(4000) PATH '$'))))",
		obj,
	), nil
}

// ArrayToObject renders $arrayToObject: the inverse of ObjectToArray,
// folding an array of {k, v} (or [k, v]) pairs into one JSON_OBJECTAGG.
// Only the {"k":..., "v":...} document form is read: each element's key
// and value come from its $.k and $.v members. Elements in the two-
// element-array pair form are not recognized and are not rejected.
type ArrayToObject struct {
	Operand Expr
}

func (ArrayToObject) exprNode() {}

func (a ArrayToObject) Render(ctx *render.Context, sc *Scope) (string, error) {
	arr := Array{}
	sub, err := arr.elementSubquery(ctx, sc, a.Operand, "val")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"(SELECT JSON_OBJECTAGG(JSON_VALUE(val, '$.k') VALUE JSON_VALUE(val, '$.v')) FROM %s)",
		sub,
	), nil
}
