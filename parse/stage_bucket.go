package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
)

func init() {
	RegisterStage("bucket", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$bucket", arg)
		if err != nil {
			return nil, err
		}
		groupByValue, err := requireField("$bucket", doc, "groupBy")
		if err != nil {
			return nil, err
		}
		groupBy, err := Expr(groupByValue, cfg)
		if err != nil {
			return nil, err
		}
		boundariesValue, err := requireField("$bucket", doc, "boundaries")
		if err != nil {
			return nil, err
		}
		boundaryItems, err := asArray("$bucket", boundariesValue)
		if err != nil {
			return nil, err
		}
		if len(boundaryItems) < 2 {
			return nil, &errkind.InvalidArgument{Operator: "$bucket", Message: "boundaries requires at least two values"}
		}
		boundaries := make([]ast.Expr, len(boundaryItems))
		for i, b := range boundaryItems {
			e, err := Expr(b, cfg)
			if err != nil {
				return nil, err
			}
			boundaries[i] = e
		}

		bk := ast.Bucket{GroupBy: groupBy, Boundaries: boundaries}
		if defaultValue, ok := field(doc, "default"); ok {
			e, err := Expr(defaultValue, cfg)
			if err != nil {
				return nil, err
			}
			bk.Default = e
			bk.DefaultSet = true
		}
		if outputValue, ok := field(doc, "output"); ok {
			output, err := parseAccumulatorMap("$bucket.output", outputValue, cfg)
			if err != nil {
				return nil, err
			}
			bk.Output = output
		}
		return bk, nil
	})

	RegisterStage("bucketAuto", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$bucketAuto", arg)
		if err != nil {
			return nil, err
		}
		groupByValue, err := requireField("$bucketAuto", doc, "groupBy")
		if err != nil {
			return nil, err
		}
		groupBy, err := Expr(groupByValue, cfg)
		if err != nil {
			return nil, err
		}
		bucketsValue, err := requireField("$bucketAuto", doc, "buckets")
		if err != nil {
			return nil, err
		}
		n, err := asInt64("$bucketAuto", bucketsValue)
		if err != nil {
			return nil, err
		}
		ba := ast.BucketAuto{GroupBy: groupBy, NBuckets: n}
		if granValue, ok := field(doc, "granularity"); ok {
			s, err := asString("$bucketAuto", granValue)
			if err != nil {
				return nil, err
			}
			ba.Granularity = ast.BucketGranularity(s)
		}
		if outputValue, ok := field(doc, "output"); ok {
			output, err := parseAccumulatorMap("$bucketAuto.output", outputValue, cfg)
			if err != nil {
				return nil, err
			}
			ba.Output = output
		}
		return ba, nil
	})
}

func parseAccumulatorMap(op string, value any, cfg Config) (ast.OrderedMap[ast.Accumulator], error) {
	doc, err := asDocument(op, value)
	if err != nil {
		return nil, err
	}
	var out ast.OrderedMap[ast.Accumulator]
	for _, el := range doc {
		acc, err := Accumulator(el.Value, cfg, nil)
		if err != nil {
			return nil, err
		}
		out = out.Append(el.Key, acc)
	}
	return out, nil
}
