package parse

import (
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var accumulatorOps = map[string]ast.AccumOp{
	"sum": ast.AccumSum, "avg": ast.AccumAvg, "min": ast.AccumMin, "max": ast.AccumMax,
	"first": ast.AccumFirst, "last": ast.AccumLast, "push": ast.AccumPush, "addToSet": ast.AccumAddToSet,
}

// windowOnlyOps take no argument document ({"$rank": {}}) and are only
// meaningful inside $setWindowFields, which supplies the OVER(...)
// clause separately.
var windowOnlyOps = map[string]ast.AccumOp{
	"rank": ast.AccumRank, "denseRank": ast.AccumDenseRank, "documentNumber": ast.AccumDocumentNumber,
}

// Accumulator parses a single $group/$bucket/$bucketAuto output field's
// accumulator document, e.g. {"$sum": "$amount"} or {"$count": {}}.
func Accumulator(value any, cfg Config, sort []ast.SortKey) (ast.Accumulator, error) {
	doc, ok := value.(bson.D)
	if !ok {
		return ast.Accumulator{}, &errkind.InvalidArgument{Operator: "accumulator", Message: "expected a single-operator document"}
	}
	if len(doc) != 1 {
		return ast.Accumulator{}, &errkind.InvalidArgument{Operator: "accumulator", Message: "expected exactly one operator"}
	}
	key := strings.TrimPrefix(doc[0].Key, "$")
	if key == "count" {
		return ast.Accumulator{Op: ast.AccumCount}, nil
	}
	if op, ok := windowOnlyOps[key]; ok {
		return ast.Accumulator{Op: op}, nil
	}
	op, ok := accumulatorOps[key]
	if !ok {
		return ast.Accumulator{}, &errkind.UnsupportedOperator{Kind: "accumulator", Name: doc[0].Key}
	}
	arg, err := Expr(doc[0].Value, cfg)
	if err != nil {
		return ast.Accumulator{}, err
	}
	return ast.Accumulator{Op: op, Arg: arg, Sort: sort}, nil
}

// ParseSortKeys parses a $sort-style document ({field: 1|-1, ...}) into
// ordered SortKey terms.
func ParseSortKeys(doc bson.D, cfg Config) ([]ast.SortKey, error) {
	keys := make([]ast.SortKey, 0, len(doc))
	for _, el := range doc {
		n, ok := asLiteralInt(el.Value)
		if !ok {
			return nil, &errkind.InvalidArgument{Operator: "$sort", Message: "sort direction must be 1 or -1"}
		}
		keys = append(keys, ast.SortKey{Expr: ast.FieldPath{Path: el.Key}, Descending: n < 0})
	}
	return keys, nil
}
