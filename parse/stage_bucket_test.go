package parse

import (
	"testing"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBucket_RequiresGroupByAndBoundaries(t *testing.T) {
	_, err := lookup(t, "bucket")(bson.D{}, DefaultConfig())
	require.Error(t, err)
	var invalid *errkind.InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestBucket_BoundariesRequiresAtLeastTwo(t *testing.T) {
	doc := bson.D{
		{Key: "groupBy", Value: "$price"},
		{Key: "boundaries", Value: bson.A{int32(0)}},
	}
	_, err := lookup(t, "bucket")(doc, DefaultConfig())
	require.Error(t, err)
	var invalid *errkind.InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestBucket_WithDefaultAndOutput(t *testing.T) {
	doc := bson.D{
		{Key: "groupBy", Value: "$price"},
		{Key: "boundaries", Value: bson.A{int32(0), int32(100), int32(200)}},
		{Key: "default", Value: "Other"},
		{Key: "output", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$sum", Value: int32(1)}}},
		}},
	}
	stage, err := lookup(t, "bucket")(doc, DefaultConfig())
	require.NoError(t, err)

	bk := stage.(ast.Bucket)
	assert.Len(t, bk.Boundaries, 3)
	assert.True(t, bk.DefaultSet)
	_, ok := bk.Output.Get("count")
	assert.True(t, ok)
}

func TestBucketAuto_RequiresBucketsCount(t *testing.T) {
	doc := bson.D{{Key: "groupBy", Value: "$price"}}
	_, err := lookup(t, "bucketAuto")(doc, DefaultConfig())
	require.Error(t, err)
	var invalid *errkind.InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestBucketAuto_WithGranularity(t *testing.T) {
	doc := bson.D{
		{Key: "groupBy", Value: "$price"},
		{Key: "buckets", Value: int32(4)},
		{Key: "granularity", Value: "R20"},
	}
	stage, err := lookup(t, "bucketAuto")(doc, DefaultConfig())
	require.NoError(t, err)

	ba := stage.(ast.BucketAuto)
	assert.Equal(t, int64(4), ba.NBuckets)
	assert.Equal(t, ast.BucketGranularity("R20"), ba.Granularity)
}
