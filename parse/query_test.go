package parse

import (
	"testing"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestQuery_ImplicitFieldEquality(t *testing.T) {
	doc := bson.D{{Key: "status", Value: "active"}}
	expr, err := Query(doc, DefaultConfig())
	require.NoError(t, err)

	cmp, ok := expr.(ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.CmpEq, cmp.Op)
	assert.Equal(t, ast.FieldPath{Path: "status"}, cmp.LHS)
}

func TestQuery_MultipleTopLevelKeysImplicitAnd(t *testing.T) {
	doc := bson.D{
		{Key: "status", Value: "active"},
		{Key: "amount", Value: bson.D{{Key: "$gt", Value: int32(100)}}},
	}
	expr, err := Query(doc, DefaultConfig())
	require.NoError(t, err)

	logical, ok := expr.(ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogAnd, logical.Op)
	assert.Len(t, logical.Operands, 2)
}

func TestQuery_EmptyFilterErrors(t *testing.T) {
	_, err := Query(bson.D{}, DefaultConfig())
	require.Error(t, err)
	var empty *errkind.EmptyInput
	assert.ErrorAs(t, err, &empty)
}

func TestQuery_InOperatorRequiresArray(t *testing.T) {
	doc := bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: "active"}}}}
	_, err := Query(doc, DefaultConfig())
	require.Error(t, err)
	var invalid *errkind.InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestQuery_UnsupportedOperator(t *testing.T) {
	doc := bson.D{{Key: "status", Value: bson.D{{Key: "$bogus", Value: "x"}}}}
	_, err := Query(doc, DefaultConfig())
	require.Error(t, err)
	var unsupported *errkind.UnsupportedOperator
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "$bogus", unsupported.Name)
}

func TestQuery_OrArrayMustBeNonEmpty(t *testing.T) {
	doc := bson.D{{Key: "$or", Value: bson.A{}}}
	_, err := Query(doc, DefaultConfig())
	require.Error(t, err)
	var empty *errkind.EmptyInput
	assert.ErrorAs(t, err, &empty)
}

func TestQuery_NotWrapsInnerOperator(t *testing.T) {
	doc := bson.D{{Key: "amount", Value: bson.D{{Key: "$not", Value: bson.D{{Key: "$gt", Value: int32(100)}}}}}}
	expr, err := Query(doc, DefaultConfig())
	require.NoError(t, err)

	logical, ok := expr.(ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogNot, logical.Op)
	assert.Len(t, logical.Operands, 1)
}

func TestQuery_ExprDelegatesToExpressionLanguage(t *testing.T) {
	doc := bson.D{{Key: "$expr", Value: bson.D{{Key: "$gt", Value: bson.A{"$amount", "$limit"}}}}}
	expr, err := Query(doc, DefaultConfig())
	require.NoError(t, err)
	_, ok := expr.(ast.Comparison)
	assert.True(t, ok)
}
