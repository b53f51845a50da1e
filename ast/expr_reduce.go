package ast

import (
	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// Reduce represents $reduce. A single SQL expression cannot fold a
// JSON_TABLE row set with an arbitrary accumulator expression without a
// recursive WITH clause scoped to the individual expression position, so
// full $reduce support is left unrealized (recorded Open Question
// decision): it renders as NULL annotated with a SQL comment, and
// Strict (set from parse.Config.StrictReduce) upgrades its use to a compile-time
// TranslationError instead.
type Reduce struct {
	Input        Expr
	InitialValue Expr
	In           Expr
	Strict       bool
}

func (Reduce) exprNode() {}

func (r Reduce) Render(_ *render.Context, _ *Scope) (string, error) {
	if r.Strict {
		return "", &errkind.TranslationError{
			Stage:   "$reduce",
			Message: "$reduce has no supported SQL lowering under strict mode",
		}
	}
	return "NULL /* $reduce: unsupported, rendered as NULL */", nil
}
