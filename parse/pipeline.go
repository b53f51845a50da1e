package parse

import (
	"strconv"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Pipeline parses collection plus an ordered list of stage documents
// into an ast.Pipeline. Each stage document must have exactly one
// "$stageName" key. An empty stages list is a valid
// identity pipeline.
func Pipeline(collection string, stages []bson.D, cfg Config) (*ast.Pipeline, error) {
	if strings.TrimSpace(collection) == "" {
		return nil, &errkind.EmptyInput{Context: "collection name"}
	}

	out := make([]ast.Stage, 0, len(stages))
	for i, doc := range stages {
		if len(doc) != 1 {
			return nil, &errkind.InvalidArgument{
				Operator: "pipeline",
				Message:  "stage " + strconv.Itoa(i) + " must have exactly one operator key",
			}
		}
		key := doc[0].Key
		if !strings.HasPrefix(key, "$") {
			return nil, &errkind.InvalidArgument{Operator: "pipeline", Message: "stage key " + key + " must start with $"}
		}
		parser, ok := lookupStage(strings.TrimPrefix(key, "$"))
		if !ok {
			return nil, &errkind.UnsupportedOperator{Kind: "stage", Name: key}
		}
		stage, err := parser(doc[0].Value, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, stage)
	}
	return ast.NewPipeline(collection, out...), nil
}
