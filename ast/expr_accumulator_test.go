package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/dialect"
	"github.com/dwoolworth/sqlpipe/render"
)

func newTestCtx() (*render.Context, *ast.Scope) {
	return render.New(render.Config{}), ast.NewScope(dialect.Oracle23ai)
}

func TestAccumulator_CountIgnoresArg(t *testing.T) {
	ctx, sc := newTestCtx()
	sql, err := ast.Accumulator{Op: ast.AccumCount}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", sql)
}

func TestAccumulator_SumOverConstantBecomesCount(t *testing.T) {
	ctx, sc := newTestCtx()
	sql, err := ast.Accumulator{Op: ast.AccumSum, Arg: ast.Literal{Value: int32(1)}}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", sql)
}

func TestAccumulator_SumOverFieldRendersSUM(t *testing.T) {
	ctx, sc := newTestCtx()
	sql, err := ast.Accumulator{Op: ast.AccumSum, Arg: ast.FieldPath{Path: "amount"}}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Contains(t, sql, "SUM(")
}

func TestAccumulator_MissingArgErrors(t *testing.T) {
	ctx, sc := newTestCtx()
	_, err := ast.Accumulator{Op: ast.AccumAvg}.Render(ctx, sc)
	assert.Error(t, err)
}

func TestAccumulator_FirstWithoutSortFallsBackToMin(t *testing.T) {
	ctx, sc := newTestCtx()
	sql, err := ast.Accumulator{Op: ast.AccumFirst, Arg: ast.FieldPath{Path: "name"}}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Contains(t, sql, "MIN(")
}

func TestAccumulator_LastWithSortUsesKeepForm(t *testing.T) {
	ctx, sc := newTestCtx()
	sql, err := ast.Accumulator{
		Op:  ast.AccumLast,
		Arg: ast.FieldPath{Path: "name"},
		Sort: []ast.SortKey{
			{Expr: ast.FieldPath{Path: "createdAt"}, Descending: false},
		},
	}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Contains(t, sql, "KEEP (DENSE_RANK LAST ORDER BY")
}

func TestAccumulator_AddToSetUsesDistinctJSONArrayAgg(t *testing.T) {
	ctx, sc := newTestCtx()
	sql, err := ast.Accumulator{Op: ast.AccumAddToSet, Arg: ast.FieldPath{Path: "tag"}}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Contains(t, sql, "JSON_ARRAYAGG(DISTINCT")
}

func TestAccumulator_WindowOnlyOpsTakeNoArgument(t *testing.T) {
	ctx, sc := newTestCtx()

	rank, err := ast.Accumulator{Op: ast.AccumRank}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, "RANK()", rank)

	denseRank, err := ast.Accumulator{Op: ast.AccumDenseRank}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, "DENSE_RANK()", denseRank)

	docNumber, err := ast.Accumulator{Op: ast.AccumDocumentNumber}.Render(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, "ROW_NUMBER()", docNumber)
}
