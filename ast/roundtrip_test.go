package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/parse"
)

// TestRoundTrip_ParseEncodeParse exercises the round-trip property:
// parsing a stage and rendering its AST back to canonical BSON and
// re-parsing yields an equal AST.
func TestRoundTrip_ParseEncodeParse(t *testing.T) {
	cases := []struct {
		name   string
		stages []bson.D
	}{
		{
			name: "match and sort",
			stages: []bson.D{
				{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
				{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: int32(-1)}}}},
			},
		},
		{
			name: "group with accumulator",
			stages: []bson.D{
				{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$category"},
					{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
				}}},
			},
		},
		{
			name: "skip and limit",
			stages: []bson.D{
				{{Key: "$skip", Value: int32(5)}},
				{{Key: "$limit", Value: int32(10)}},
			},
		},
		{
			name: "project include",
			stages: []bson.D{
				{{Key: "$project", Value: bson.D{
					{Key: "name", Value: int32(1)},
					{Key: "total", Value: bson.D{{Key: "$multiply", Value: bson.A{"$price", "$qty"}}}},
				}}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p1, err := parse.Pipeline("orders", tc.stages, parse.DefaultConfig())
			require.NoError(t, err)

			encoded := ast.Encode(p1)
			reStages := make([]bson.D, len(encoded))
			for i, s := range encoded {
				reStages[i] = s.(bson.D)
			}

			p2, err := parse.Pipeline("orders", reStages, parse.DefaultConfig())
			require.NoError(t, err)

			assert.Equal(t, p1, p2)
		})
	}
}
