package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
)

func init() {
	RegisterExpr("concat", stringArrayParser(ast.StrConcat))
	RegisterExpr("substr", stringArrayParser(ast.StrSubstr))
	RegisterExpr("substrCP", stringArrayParser(ast.StrSubstr))
	RegisterExpr("split", stringArrayParser(ast.StrSplit))
	RegisterExpr("regexMatch", stringDocParser(ast.StrRegexMatch, "input", "regex"))
	RegisterExpr("regexFind", stringDocParser(ast.StrRegexFind, "input", "regex"))
	RegisterExpr("replaceOne", stringDocParser(ast.StrReplaceOne, "input", "find", "replacement"))
	RegisterExpr("replaceAll", stringDocParser(ast.StrReplaceAll, "input", "find", "replacement"))
	RegisterExpr("indexOfCP", stringArrayParser(ast.StrIndexOfCP))
	RegisterExpr("trim", stringSingleParser(ast.StrTrim))
	RegisterExpr("ltrim", stringSingleParser(ast.StrLTrim))
	RegisterExpr("rtrim", stringSingleParser(ast.StrRTrim))
	RegisterExpr("strLenCP", stringSingleParser(ast.StrLength))
	RegisterExpr("toUpper", stringSingleParser(ast.StrToUpper))
	RegisterExpr("toLower", stringSingleParser(ast.StrToLower))
}

func stringSingleParser(op ast.StringOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		e, err := Expr(arg, cfg)
		if err != nil {
			return nil, err
		}
		return ast.String{Op: op, Args: []ast.Expr{e}}, nil
	}
}

func stringArrayParser(op ast.StringOp) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		items, err := asArray("$"+string(op), arg)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, len(items))
		for i, item := range items {
			e, err := Expr(item, cfg)
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return ast.String{Op: op, Args: args}, nil
	}
}

// stringDocParser parses the {input:, regex:, ...}-style document form
// some string operators accept, in addition to the positional array
// form, projecting named fields into Args in the given order.
func stringDocParser(op ast.StringOp, keys ...string) ExprParser {
	return func(arg any, cfg Config) (ast.Expr, error) {
		if items, ok := tryArray(arg); ok {
			args := make([]ast.Expr, len(items))
			for i, item := range items {
				e, err := Expr(item, cfg)
				if err != nil {
					return nil, err
				}
				args[i] = e
			}
			return ast.String{Op: op, Args: args}, nil
		}
		doc, err := asDocument("$"+string(op), arg)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(keys))
		for _, k := range keys {
			v, ok := field(doc, k)
			if !ok {
				continue
			}
			e, err := Expr(v, cfg)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		return ast.String{Op: op, Args: args}, nil
	}
}
