package compile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/compile"
	"github.com/dwoolworth/sqlpipe/parse"
)

func TestCompile_EmptyPipeline(t *testing.T) {
	p, err := parse.Pipeline("orders", nil, parse.DefaultConfig())
	require.NoError(t, err)

	sql, binds, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, binds)
	assert.Equal(t, "SELECT data FROM orders t", sql)
}

func TestCompile_SkipLimit(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$skip", Value: int32(10)}},
		{{Key: "$limit", Value: int32(5)}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, binds, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, binds)
	assert.Contains(t, sql, "OFFSET 10 ROWS")
	assert.Contains(t, sql, "FETCH FIRST 5 ROWS ONLY")
}

func TestCompile_MatchFusion(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
		{{Key: "$match", Value: bson.D{{Key: "amount", Value: bson.D{{Key: "$gt", Value: int32(100)}}}}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, binds, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, binds, 2)
	assert.Equal(t, "active", binds[0])
	assert.Equal(t, int32(100), binds[1])
	// consecutive $match stages fuse into a single CTE with one WHERE
	// clause conjoining both filters.
	assert.Equal(t, 1, strings.Count(sql, "WHERE"))
	assert.Equal(t, 1, strings.Count(sql, " AS (\n"))
	assert.Contains(t, sql, "WHERE (")
	assert.Contains(t, sql, " AND ")
	assert.Contains(t, sql, ":1")
	assert.Contains(t, sql, ":2")
}

func TestCompile_MatchFusionStopsAtInterveningStage(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
		{{Key: "$addFields", Value: bson.D{{Key: "tax", Value: bson.D{{Key: "$multiply", Value: bson.A{"$amount", 0.1}}}}}}},
		{{Key: "$match", Value: bson.D{{Key: "tax", Value: bson.D{{Key: "$gt", Value: int32(0)}}}}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, binds, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, binds, 3)
	// the $addFields stage breaks adjacency, so each $match still gets
	// its own WHERE rather than fusing across the intervening stage.
	assert.Equal(t, 2, strings.Count(sql, "WHERE"))
}

func TestCompile_GroupSortLimit(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: int32(-1)}}}},
		{{Key: "$limit", Value: int32(10)}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, _, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)

	selectIdx := strings.Index(sql, "SELECT")
	whereIdx := strings.Index(sql, "WHERE")
	groupIdx := strings.Index(sql, "GROUP BY")
	orderIdx := strings.Index(sql, "ORDER BY")
	fetchIdx := strings.Index(sql, "FETCH FIRST")

	require.True(t, selectIdx >= 0 && whereIdx > selectIdx)
	require.True(t, groupIdx > whereIdx)
	require.True(t, orderIdx > groupIdx)
	require.True(t, fetchIdx > orderIdx)
}

func TestCompile_GraphLookupRecursive(t *testing.T) {
	p, err := parse.Pipeline("employees", []bson.D{
		{{Key: "$graphLookup", Value: bson.D{
			{Key: "from", Value: "employees"},
			{Key: "startWith", Value: "$reportsTo"},
			{Key: "connectFromField", Value: "reportsTo"},
			{Key: "connectToField", Value: "name"},
			{Key: "as", Value: "hierarchy"},
			{Key: "maxDepth", Value: int32(5)},
			{Key: "depthField", Value: "level"},
		}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, _, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, sql, "graph1")
	assert.Contains(t, sql, "UNION ALL")
	assert.Contains(t, sql, "graph_depth < 5")
	assert.Contains(t, sql, "'level' VALUE r.graph_depth")
}

func TestCompile_FacetMultiPipeline(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$facet", Value: bson.D{
			{Key: "a", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$category"}}}},
			}},
			{Key: "b", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, _, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, sql, "'a' VALUE")
	assert.Contains(t, sql, "'b' VALUE")
	assert.Contains(t, sql, "FROM DUAL")
	assert.Contains(t, sql, "JSON_ARRAYAGG")
}

func TestCompile_PostWindowMatch(t *testing.T) {
	p, err := parse.Pipeline("employees", []bson.D{
		{{Key: "$setWindowFields", Value: bson.D{
			{Key: "partitionBy", Value: "$department"},
			{Key: "sortBy", Value: bson.D{{Key: "salary", Value: int32(-1)}}},
			{Key: "output", Value: bson.D{
				{Key: "salaryRank", Value: bson.D{{Key: "$rank", Value: bson.D{}}}},
			}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "salaryRank", Value: int32(1)}}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	sql, binds, err := compile.Compile(p, compile.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, sql, "RANK() OVER")
	assert.Contains(t, sql, "PARTITION BY")
	assert.Contains(t, sql, "WHERE")
	require.Len(t, binds, 1)
	assert.Equal(t, int32(1), binds[0])
}

func TestCompile_InlineMode(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	cfg := compile.DefaultConfig()
	cfg.Inline = true
	sql, binds, err := compile.Compile(p, cfg)
	require.NoError(t, err)
	assert.Empty(t, binds)
	assert.Contains(t, sql, "'active'")
	assert.NotContains(t, sql, ":1")
}

func TestCompile_SchemaPrefix(t *testing.T) {
	p, err := parse.Pipeline("orders", nil, parse.DefaultConfig())
	require.NoError(t, err)

	cfg := compile.DefaultConfig()
	cfg.SchemaPrefix = "analytics"
	sql, _, err := compile.Compile(p, cfg)
	require.NoError(t, err)
	assert.Contains(t, sql, "analytics.orders")
}

func TestCompileMany_CompilesEachNamedPipeline(t *testing.T) {
	good, err := parse.Pipeline("orders", nil, parse.DefaultConfig())
	require.NoError(t, err)
	bad := ast.NewPipeline("", ast.Merge{}) // empty collection name is still a valid *ast.Pipeline; forces a downstream compile error instead

	pipelines := map[string]*ast.Pipeline{"good": good, "bad": bad}
	stmts, errs := compile.CompileMany(pipelines, []string{"good", "bad"}, compile.DefaultConfig())
	require.Len(t, stmts, 1)
	assert.Equal(t, "good", stmts[0].Name)
	assert.Len(t, errs, 1)
}

func TestExplain_SummarizesStages(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$category"}}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	_, summary, err := compile.Explain(p, compile.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.StageCount)
	assert.Equal(t, []string{"$match", "$group"}, summary.StageKinds)
	assert.False(t, summary.UsesRecursion)
}
