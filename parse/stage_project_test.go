package parse

import (
	"testing"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestProject_IncludeAndExclude(t *testing.T) {
	doc := bson.D{
		{Key: "name", Value: int32(1)},
		{Key: "_id", Value: int32(0)},
	}
	stage, err := lookup(t, "project")(doc, DefaultConfig())
	require.NoError(t, err)

	proj := stage.(ast.Project)
	assert.True(t, proj.ExcludeID)

	spec, ok := proj.Fields.Get("name")
	require.True(t, ok)
	assert.Equal(t, ast.ProjectInclude, spec.Kind)
}

func TestProject_ComputedField(t *testing.T) {
	doc := bson.D{
		{Key: "total", Value: bson.D{{Key: "$multiply", Value: bson.A{"$price", "$qty"}}}},
	}
	stage, err := lookup(t, "project")(doc, DefaultConfig())
	require.NoError(t, err)

	proj := stage.(ast.Project)
	spec, ok := proj.Fields.Get("total")
	require.True(t, ok)
	assert.Equal(t, ast.ProjectComputed, spec.Kind)
	assert.NotNil(t, spec.Computed)
}

func TestProject_EmptyDocumentErrors(t *testing.T) {
	_, err := lookup(t, "project")(bson.D{}, DefaultConfig())
	require.Error(t, err)
	var empty *errkind.EmptyInput
	assert.ErrorAs(t, err, &empty)
}

func TestAddFields_BuildsExprPerField(t *testing.T) {
	doc := bson.D{
		{Key: "discounted", Value: bson.D{{Key: "$multiply", Value: bson.A{"$price", 0.9}}}},
	}
	stage, err := lookup(t, "addFields")(doc, DefaultConfig())
	require.NoError(t, err)

	af := stage.(ast.AddFields)
	_, ok := af.Fields.Get("discounted")
	assert.True(t, ok)
}

// lookup fetches a registered stage parser by name, failing the test if
// the operator was never registered under that name.
func lookup(t *testing.T, name string) func(any, Config) (ast.Stage, error) {
	t.Helper()
	fn, ok := lookupStage(name)
	if !ok {
		t.Fatalf("stage %q not registered", name)
	}
	return fn
}
