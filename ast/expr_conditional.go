package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// Conditional renders $cond as CASE WHEN ... THEN ... ELSE ... END.
type Conditional struct {
	If   Expr
	Then Expr
	Else Expr
}

func (Conditional) exprNode() {}

func (c Conditional) Render(ctx *render.Context, sc *Scope) (string, error) {
	ifs, err := c.If.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	thens, err := c.Then.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	elses, err := c.Else.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CASE WHEN %s THEN %s ELSE %s END", ifs, thens, elses), nil
}

// IfNull renders $ifNull as NVL(expr, replacement).
type IfNull struct {
	Expr        Expr
	Replacement Expr
}

func (IfNull) exprNode() {}

func (n IfNull) Render(ctx *render.Context, sc *Scope) (string, error) {
	e, err := n.Expr.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	r, err := n.Replacement.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("NVL(%s, %s)", e, r), nil
}

// SwitchBranch is one (case, then) arm of a Switch.
type SwitchBranch struct {
	Case Expr
	Then Expr
}

// Switch renders $switch as a multi-branch CASE WHEN ... THEN ... [ELSE
// ...] END; a missing Default omits ELSE.
type Switch struct {
	Branches []SwitchBranch
	Default  Expr // nil if absent
}

func (Switch) exprNode() {}

func (s Switch) Render(ctx *render.Context, sc *Scope) (string, error) {
	if len(s.Branches) == 0 {
		return "", &errkind.EmptyInput{Context: "$switch branches"}
	}

	var b strings.Builder
	b.WriteString("CASE")
	for _, br := range s.Branches {
		cond, err := br.Case.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		then, err := br.Then.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " WHEN %s THEN %s", cond, then)
	}
	if s.Default != nil {
		d, err := s.Default.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " ELSE %s", d)
	}
	b.WriteString(" END")
	return b.String(), nil
}
