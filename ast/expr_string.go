package ast

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/render"
)

// StringOp is a string-expression operator.
type StringOp string

const (
	StrConcat     StringOp = "concat"
	StrSubstr     StringOp = "substr"
	StrSplit      StringOp = "split"
	StrRegexMatch StringOp = "regexMatch"
	StrRegexFind  StringOp = "regexFind"
	StrReplaceOne StringOp = "replaceOne"
	StrReplaceAll StringOp = "replaceAll"
	StrIndexOfCP  StringOp = "indexOfCP"
	StrTrim       StringOp = "trim"
	StrLTrim      StringOp = "ltrim"
	StrRTrim      StringOp = "rtrim"
	StrLength     StringOp = "strLenCP"
	StrToUpper    StringOp = "toUpper"
	StrToLower    StringOp = "toLower"
)

// String renders a string-expression operator to its Oracle-family
// built-in.
type String struct {
	Op   StringOp
	Args []Expr
}

func (String) exprNode() {}

func (s String) Render(ctx *render.Context, sc *Scope) (string, error) {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		v, err := a.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		args[i] = v
	}

	switch s.Op {
	case StrConcat:
		if len(args) == 0 {
			return "", &errkind.InvalidArgument{Operator: "$concat", Message: "requires at least one argument"}
		}
		return "(" + strings.Join(args, " || ") + ")", nil

	case StrSubstr:
		if len(args) != 3 {
			return "", &errkind.InvalidArgument{Operator: "$substr", Message: "requires (string, start, length)"}
		}
		// Mongo's start index is 0-based; Oracle's SUBSTR is 1-based.
		startBind := ctx.Bind(1)
		return fmt.Sprintf("SUBSTR(%s, %s + %s, %s)", args[0], args[1], startBind, args[2]), nil

	case StrSplit:
		if len(args) != 2 {
			return "", &errkind.InvalidArgument{Operator: "$split", Message: "requires (string, delimiter)"}
		}
		return fmt.Sprintf("REGEXP_SUBSTR(%s, '[^' || %s || ']+', 1, 1)", args[0], args[1]), nil

	case StrRegexMatch:
		if len(args) != 2 {
			return "", &errkind.InvalidArgument{Operator: "$regexMatch", Message: "requires (input, regex)"}
		}
		return fmt.Sprintf("REGEXP_LIKE(%s, %s)", args[0], args[1]), nil

	case StrRegexFind:
		if len(args) != 2 {
			return "", &errkind.InvalidArgument{Operator: "$regexFind", Message: "requires (input, regex)"}
		}
		return fmt.Sprintf("REGEXP_INSTR(%s, %s)", args[0], args[1]), nil

	case StrReplaceOne:
		if len(args) != 3 {
			return "", &errkind.InvalidArgument{Operator: "$replaceOne", Message: "requires (input, find, replacement)"}
		}
		one := ctx.Bind(1)
		return fmt.Sprintf("REGEXP_REPLACE(%s, %s, %s, 1, %s)", args[0], args[1], args[2], one), nil

	case StrReplaceAll:
		if len(args) != 3 {
			return "", &errkind.InvalidArgument{Operator: "$replaceAll", Message: "requires (input, find, replacement)"}
		}
		return fmt.Sprintf("REGEXP_REPLACE(%s, %s, %s)", args[0], args[1], args[2]), nil

	case StrIndexOfCP:
		if len(args) != 2 {
			return "", &errkind.InvalidArgument{Operator: "$indexOfCP", Message: "requires (string, substring)"}
		}
		one := ctx.Bind(1)
		return fmt.Sprintf("(INSTR(%s, %s) - %s)", args[0], args[1], one), nil

	case StrTrim:
		return fmt.Sprintf("TRIM(%s)", args[0]), nil
	case StrLTrim:
		return fmt.Sprintf("LTRIM(%s)", args[0]), nil
	case StrRTrim:
		return fmt.Sprintf("RTRIM(%s)", args[0]), nil
	case StrLength:
		return fmt.Sprintf("LENGTH(%s)", args[0]), nil
	case StrToUpper:
		return fmt.Sprintf("UPPER(%s)", args[0]), nil
	case StrToLower:
		return fmt.Sprintf("LOWER(%s)", args[0]), nil
	}

	return "", &errkind.UnsupportedOperator{Kind: "expression", Name: "$" + string(s.Op)}
}
