package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/render"
)

// ArithOp is an arithmetic operator.
type ArithOp string

const (
	ArithAdd ArithOp = "add"
	ArithSub ArithOp = "sub"
	ArithMul ArithOp = "mul"
	ArithDiv ArithOp = "div"
	ArithMod ArithOp = "mod"
	ArithAbs ArithOp = "abs"
)

var arithSymbols = map[ArithOp]string{
	ArithAdd: "+", ArithSub: "-", ArithMul: "*", ArithDiv: "/",
}

// Arithmetic renders n-ary +/* as left-folded infix, binary -// as
// infix, $mod as MOD(a,b), and $abs as ABS(a).
type Arithmetic struct {
	Op       ArithOp
	Operands []Expr
}

func (Arithmetic) exprNode() {}

func (a Arithmetic) Render(ctx *render.Context, sc *Scope) (string, error) {
	parts := make([]string, len(a.Operands))
	for i, op := range a.Operands {
		s, err := op.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}

	switch a.Op {
	case ArithMod:
		return fmt.Sprintf("MOD(%s, %s)", parts[0], parts[1]), nil
	case ArithAbs:
		return fmt.Sprintf("ABS(%s)", parts[0]), nil
	case ArithAdd, ArithMul:
		sym := arithSymbols[a.Op]
		return "(" + strings.Join(parts, " "+sym+" ") + ")", nil
	case ArithSub, ArithDiv:
		sym := arithSymbols[a.Op]
		return "(" + strings.Join(parts, " "+sym+" ") + ")", nil
	}
	return "", fmt.Errorf("ast: unknown arithmetic operator %q", a.Op)
}
