package parse

import "github.com/dwoolworth/sqlpipe/ast"

func init() {
	for name, op := range map[string]ast.DateOp{
		"year": ast.DateYear, "month": ast.DateMonth, "dayOfMonth": ast.DateDayOfMon,
		"hour": ast.DateHour, "minute": ast.DateMinute, "second": ast.DateSecond,
		"dayOfWeek": ast.DateDayOfWeek, "dayOfYear": ast.DateDayOfYear,
	} {
		op := op
		RegisterExpr(name, func(arg any, cfg Config) (ast.Expr, error) {
			e, err := Expr(dateArg(arg), cfg)
			if err != nil {
				return nil, err
			}
			return ast.Date{Op: op, Arg: e}, nil
		})
	}
}

// dateArg unwraps the {"date": expr} document form some date operators
// accept alongside the bare-expression form.
func dateArg(arg any) any {
	if doc, err := asDocument("", arg); err == nil {
		if v, ok := field(doc, "date"); ok {
			return v
		}
	}
	return arg
}
