package parse

import (
	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	RegisterStage("facet", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$facet", arg)
		if err != nil {
			return nil, err
		}
		if len(doc) == 0 {
			return nil, &errkind.EmptyInput{Context: "$facet"}
		}
		var pipelines ast.OrderedMap[*ast.Pipeline]
		for _, el := range doc {
			stages, err := parseSubPipelineStages(el.Value)
			if err != nil {
				return nil, err
			}
			// $facet sub-pipelines have no real source collection; the
			// enclosing pipeline's already-filtered row set feeds each
			// one, so the name is a placeholder the compiler ignores.
			sub, err := Pipeline("$facet:"+el.Key, stages, cfg)
			if err != nil {
				return nil, err
			}
			pipelines = pipelines.Append(el.Key, sub)
		}
		return ast.Facet{Pipelines: pipelines}, nil
	})
}

func parseWindowBounds(doc bson.D) (ast.WindowSpec, error) {
	boundsValue, ok := field(doc, "documents")
	if !ok {
		boundsValue, ok = field(doc, "range")
	}
	if !ok {
		return ast.WindowSpec{}, nil
	}
	items, err := asArray("window", boundsValue)
	if err != nil {
		return ast.WindowSpec{}, err
	}
	if len(items) != 2 {
		return ast.WindowSpec{}, &errkind.InvalidArgument{Operator: "window", Message: "bounds require exactly two values"}
	}
	spec := ast.WindowSpec{HasBounds: true}
	if s, ok := items[0].(string); ok && s == "unbounded" {
		spec.LowerUnbounded = true
	} else {
		n, ok := asLiteralInt(items[0])
		if !ok {
			return ast.WindowSpec{}, &errkind.InvalidArgument{Operator: "window", Message: "lower bound must be an integer or \"unbounded\""}
		}
		spec.LowerOffset = n
	}
	if s, ok := items[1].(string); ok && s == "unbounded" {
		spec.UpperUnbounded = true
	} else {
		n, ok := asLiteralInt(items[1])
		if !ok {
			return ast.WindowSpec{}, &errkind.InvalidArgument{Operator: "window", Message: "upper bound must be an integer or \"unbounded\""}
		}
		spec.UpperOffset = n
	}
	return spec, nil
}

func init() {
	RegisterStage("setWindowFields", func(arg any, cfg Config) (ast.Stage, error) {
		doc, err := asDocument("$setWindowFields", arg)
		if err != nil {
			return nil, err
		}
		s := ast.SetWindowFields{}
		if partitionValue, ok := field(doc, "partitionBy"); ok {
			e, err := Expr(partitionValue, cfg)
			if err != nil {
				return nil, err
			}
			s.PartitionBy = e
		}
		if sortValue, ok := field(doc, "sortBy"); ok {
			sortDoc, err := asDocument("$setWindowFields.sortBy", sortValue)
			if err != nil {
				return nil, err
			}
			keys, err := ParseSortKeys(sortDoc, cfg)
			if err != nil {
				return nil, err
			}
			s.SortBy = keys
		}
		outputValue, err := requireField("$setWindowFields", doc, "output")
		if err != nil {
			return nil, err
		}
		outputDoc, err := asDocument("$setWindowFields.output", outputValue)
		if err != nil {
			return nil, err
		}
		var output ast.OrderedMap[ast.WindowField]
		for _, el := range outputDoc {
			fieldDoc, err := asDocument(el.Key, el.Value)
			if err != nil {
				return nil, err
			}
			acc, err := Accumulator(bson.D{fieldDoc[0]}, cfg, s.SortBy)
			if err != nil {
				return nil, err
			}
			bounds := ast.WindowSpec{}
			if len(fieldDoc) > 1 {
				if wv, ok := field(fieldDoc, "window"); ok {
					windowDoc, err := asDocument("window", wv)
					if err != nil {
						return nil, err
					}
					bounds, err = parseWindowBounds(windowDoc)
					if err != nil {
						return nil, err
					}
				}
			}
			output = output.Append(el.Key, ast.WindowField{Accumulator: acc, Window: bounds})
		}
		s.Output = output
		return s, nil
	})
}
