package parse

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dwoolworth/sqlpipe/ast"
	"github.com/stretchr/testify/assert"
)

// TestRace_RegistryReadWrite exercises concurrent registration of new
// operator names alongside concurrent lookups of the already-registered
// real operators, adapted from goodm's race_test.go pattern for the
// operator-name-keyed registries.
func TestRace_RegistryReadWrite(t *testing.T) {
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("__test_stage_%d", i)
			RegisterStage(name, func(arg any, cfg Config) (ast.Stage, error) {
				return ast.Match{}, nil
			})
		}(i)
	}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = lookupStage("match")
			_, _ = lookupExpr("add")
		}()
	}

	wg.Wait()
}

func TestRegisterStage_DuplicatePanics(t *testing.T) {
	RegisterStage("__test_duplicate", func(arg any, cfg Config) (ast.Stage, error) {
		return ast.Match{}, nil
	})
	assert.Panics(t, func() {
		RegisterStage("__test_duplicate", func(arg any, cfg Config) (ast.Stage, error) {
			return ast.Match{}, nil
		})
	})
}

func TestLookupStage_Unknown(t *testing.T) {
	_, ok := lookupStage("__never_registered")
	assert.False(t, ok)
}
