package compile_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dwoolworth/sqlpipe/compile"
	"github.com/dwoolworth/sqlpipe/parse"
)

// TestRace_ConcurrentCompile runs N independent Compile calls in parallel
// goroutines, adapted from goodm's race_test.go pattern (also reused for
// the operator registries in parse/registry_test.go). Each call gets its
// own *render.Context internally, so concurrent calls must not share bind
// state: every result's bind slice should number from :1 regardless of
// what any other goroutine is doing at the same time.
func TestRace_ConcurrentCompile(t *testing.T) {
	p, err := parse.Pipeline("orders", []bson.D{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: "active"}}}},
		{{Key: "$match", Value: bson.D{{Key: "amount", Value: bson.D{{Key: "$gt", Value: int32(100)}}}}}},
	}, parse.DefaultConfig())
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	sqls := make([]string, n)
	bindsPerCall := make([][]any, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sql, binds, err := compile.Compile(p, compile.DefaultConfig())
			sqls[i] = sql
			bindsPerCall[i] = binds
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, sqls[0], sqls[i])
		require.Len(t, bindsPerCall[i], 2)
		assert.Equal(t, "active", bindsPerCall[i][0])
		assert.Equal(t, int32(100), bindsPerCall[i][1])
	}
}
