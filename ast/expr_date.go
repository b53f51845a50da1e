package ast

import (
	"fmt"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// DateOp is a date-part extraction operator.
type DateOp string

const (
	DateYear      DateOp = "year"
	DateMonth     DateOp = "month"
	DateDayOfMon  DateOp = "dayOfMonth"
	DateHour      DateOp = "hour"
	DateMinute    DateOp = "minute"
	DateSecond    DateOp = "second"
	DateDayOfWeek DateOp = "dayOfWeek"
	DateDayOfYear DateOp = "dayOfYear"
)

var dateExtractField = map[DateOp]string{
	DateYear: "YEAR", DateMonth: "MONTH", DateDayOfMon: "DAY",
	DateHour: "HOUR", DateMinute: "MINUTE", DateSecond: "SECOND",
}

// Date renders a date-part extraction over the Oracle-family timestamp
// functions.
type Date struct {
	Op  DateOp
	Arg Expr
}

func (Date) exprNode() {}

func (d Date) Render(ctx *render.Context, sc *Scope) (string, error) {
	arg, err := d.Arg.Render(ctx, sc)
	if err != nil {
		return "", err
	}
	ts := fmt.Sprintf("TO_TIMESTAMP_TZ(%s)", arg)

	if field, ok := dateExtractField[d.Op]; ok {
		return fmt.Sprintf("EXTRACT(%s FROM %s)", field, ts), nil
	}

	switch d.Op {
	case DateDayOfWeek:
		return fmt.Sprintf("TO_NUMBER(TO_CHAR(%s, 'D'))", ts), nil
	case DateDayOfYear:
		return fmt.Sprintf("TO_NUMBER(TO_CHAR(%s, 'DDD'))", ts), nil
	}
	return "", &errkind.UnsupportedOperator{Kind: "expression", Name: "$" + string(d.Op)}
}
