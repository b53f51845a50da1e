package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	for name, op := range map[string]ast.ConvertOp{
		"toInt": ast.ConvInt, "toLong": ast.ConvLong, "toDouble": ast.ConvDouble,
		"toDecimal": ast.ConvDecimal, "toString": ast.ConvString, "toBool": ast.ConvBool,
		"toDate": ast.ConvDate, "toObjectId": ast.ConvObjectID,
	} {
		op := op
		RegisterExpr(name, func(arg any, cfg Config) (ast.Expr, error) {
			e, err := Expr(arg, cfg)
			if err != nil {
				return nil, err
			}
			return ast.Convert{Op: op, Input: e}, nil
		})
	}

	RegisterExpr("convert", func(arg any, cfg Config) (ast.Expr, error) {
		doc, err := asDocument("$convert", arg)
		if err != nil {
			return nil, err
		}
		inputValue, err := requireField("$convert", doc, "input")
		if err != nil {
			return nil, err
		}
		toValue, err := requireField("$convert", doc, "to")
		if err != nil {
			return nil, err
		}
		toName, err := asString("$convert", toValue)
		if err != nil {
			return nil, err
		}
		op, ok := convertTargetOps[toName]
		if !ok {
			return nil, &errkind.InvalidArgument{Operator: "$convert", Message: "unsupported target type " + toName}
		}
		input, err := Expr(inputValue, cfg)
		if err != nil {
			return nil, err
		}
		c := ast.Convert{Op: op, Input: input}
		if onErrorValue, ok := field(doc, "onError"); ok {
			e, err := Expr(onErrorValue, cfg)
			if err != nil {
				return nil, err
			}
			c.OnError = e
		}
		if onNullValue, ok := field(doc, "onNull"); ok {
			e, err := Expr(onNullValue, cfg)
			if err != nil {
				return nil, err
			}
			c.OnNull = e
		}
		return c, nil
	})

	RegisterExpr("type", func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.TypeOf{Arg: e}, nil
	})

	RegisterExpr("isNumber", typeCheckParser(ast.IsNumber))
	RegisterExpr("isString", typeCheckParser(ast.IsString))
}

var convertTargetOps = map[string]ast.ConvertOp{
	"int": ast.ConvInt, "long": ast.ConvLong, "double": ast.ConvDouble,
	"decimal": ast.ConvDecimal, "string": ast.ConvString, "bool": ast.ConvBool,
	"date": ast.ConvDate, "objectId": ast.ConvObjectID,
}

func typeCheckParser(op ast.TypeCheckOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.TypeCheck{Op: op, Arg: e}, nil
	}
}
