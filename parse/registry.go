// Package parse turns raw BSON pipeline documents into the ast package's
// typed Stage/Expr tree. Stage and expression operators are dispatched
// through two name-keyed registries, generalized from goodm's
// sync.RWMutex-guarded model registry (registry.go) to operator-name
// dispatch instead of struct-type dispatch.
package parse

import (
	"fmt"
	"sync"

	"github.com/dwoolworth/sqlpipe/ast"
)

// StageParser parses one stage operator's argument value into an
// ast.Stage. cfg carries parse-time options (e.g. strict-mode flags).
// arg is the decoded BSON value (bson.D for a document, bson.A for an
// array, or a Go primitive).
type StageParser func(arg any, cfg Config) (ast.Stage, error)

// ExprParser parses one expression operator's argument value into an
// ast.Expr.
type ExprParser func(arg any, cfg Config) (ast.Expr, error)

var (
	registryMu   sync.RWMutex
	stageParsers = map[string]StageParser{}
	exprParsers  = map[string]ExprParser{}
)

// RegisterStage registers the parser for a "$stageName" operator.
// Intended to run from package init(); panics on duplicate registration
// since that indicates two stage files claiming the same operator name.
func RegisterStage(name string, p StageParser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := stageParsers[name]; exists {
		panic(fmt.Sprintf("parse: stage operator %q already registered", name))
	}
	stageParsers[name] = p
}

// RegisterExpr registers the parser for a "$exprName" expression
// operator. Same duplicate-registration contract as RegisterStage.
func RegisterExpr(name string, p ExprParser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := exprParsers[name]; exists {
		panic(fmt.Sprintf("parse: expression operator %q already registered", name))
	}
	exprParsers[name] = p
}

func lookupStage(name string) (StageParser, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := stageParsers[name]
	return p, ok
}

func lookupExpr(name string) (ExprParser, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := exprParsers[name]
	return p, ok
}
