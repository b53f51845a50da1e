package parse

import (
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var queryCompareOps = map[string]ast.CompareOp{
	"$eq": ast.CmpEq, "$ne": ast.CmpNe, "$gt": ast.CmpGt,
	"$gte": ast.CmpGte, "$lt": ast.CmpLt, "$lte": ast.CmpLte,
	"$in": ast.CmpIn, "$nin": ast.CmpNin,
}

// Query parses a $match-style filter document — Mongo's query mini-
// language, distinct from the aggregation expression language Expr
// handles: {field: value}, {field: {$gt: v}}, {$and: [...]}, {$expr:
// <aggregation expression>}. Multiple top-level keys
// combine with an implicit AND, matching Mongo's query semantics.
func Query(doc bson.D, cfg Config) (ast.Expr, error) {
	if len(doc) == 0 {
		return nil, &errkind.EmptyInput{Context: "$match filter"}
	}
	var clauses []ast.Expr
	for _, el := range doc {
		clause, err := queryClause(el.Key, el.Value, cfg)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return ast.Logical{Op: ast.LogAnd, Operands: clauses}, nil
}

func queryClause(key string, value any, cfg Config) (ast.Expr, error) {
	switch key {
	case "$and":
		return queryLogicalArray(ast.LogAnd, value, cfg)
	case "$or":
		return queryLogicalArray(ast.LogOr, value, cfg)
	case "$nor":
		return queryLogicalArray(ast.LogNor, value, cfg)
	case "$expr":
		return Expr(value, cfg)
	}
	return queryFieldPredicate(key, value, cfg)
}

func queryLogicalArray(op ast.LogicalOp, value any, cfg Config) (ast.Expr, error) {
	items, err := asArray(string(op), value)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &errkind.EmptyInput{Context: "$" + string(op)}
	}
	operands := make([]ast.Expr, len(items))
	for i, item := range items {
		doc, err := asDocument(string(op), item)
		if err != nil {
			return nil, err
		}
		e, err := Query(doc, cfg)
		if err != nil {
			return nil, err
		}
		operands[i] = e
	}
	return ast.Logical{Op: op, Operands: operands}, nil
}

// queryFieldPredicate parses one {field: value-or-operator-doc} entry.
func queryFieldPredicate(field string, value any, cfg Config) (ast.Expr, error) {
	path := ast.FieldPath{Path: field}

	opDoc, isOpDoc := value.(bson.D)
	if isOpDoc && len(opDoc) > 0 && strings.HasPrefix(opDoc[0].Key, "$") {
		var clauses []ast.Expr
		for _, el := range opDoc {
			clause, err := queryOperator(path, el.Key, el.Value, cfg)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
		}
		if len(clauses) == 1 {
			return clauses[0], nil
		}
		return ast.Logical{Op: ast.LogAnd, Operands: clauses}, nil
	}

	rhs, err := Expr(value, cfg)
	if err != nil {
		return nil, err
	}
	return ast.Comparison{Op: ast.CmpEq, LHS: path, RHS: rhs}, nil
}

func queryOperator(path ast.FieldPath, op string, value any, cfg Config) (ast.Expr, error) {
	if cmpOp, ok := queryCompareOps[op]; ok {
		if cmpOp == ast.CmpIn || cmpOp == ast.CmpNin {
			items, err := asArray(op, value)
			if err != nil {
				return nil, err
			}
			arr, err := parseArrayExpr(items, cfg)
			if err != nil {
				return nil, err
			}
			return ast.Comparison{Op: cmpOp, LHS: path, RHS: arr}, nil
		}
		rhs, err := Expr(value, cfg)
		if err != nil {
			return nil, err
		}
		return ast.Comparison{Op: cmpOp, LHS: path, RHS: rhs}, nil
	}
	if op == "$not" {
		doc, err := asDocument(op, value)
		if err != nil {
			return nil, err
		}
		var clauses []ast.Expr
		for _, el := range doc {
			c, err := queryOperator(path, el.Key, el.Value, cfg)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, c)
		}
		var inner ast.Expr
		if len(clauses) == 1 {
			inner = clauses[0]
		} else {
			inner = ast.Logical{Op: ast.LogAnd, Operands: clauses}
		}
		return ast.Logical{Op: ast.LogNot, Operands: []ast.Expr{inner}}, nil
	}
	return nil, &errkind.UnsupportedOperator{Kind: "query", Name: op}
}
