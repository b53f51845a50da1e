package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dwoolworth/sqlpipe/errkind"
)

// version is overridden at build time via -ldflags, the same pattern
// cmd/goodm/version.go uses for its package-level var.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "sqlpipe <input-file>",
	Short:   "sqlpipe — translate MongoDB aggregation pipelines to Oracle SQL",
	Long:    "Translate one or more MongoDB aggregation pipelines, given as JSON, into a single SQL statement per pipeline against a JSON-relational Oracle table.",
	Args:    cobra.ExactArgs(1),
	Version: version,
	RunE:    runTranslate,
}

func init() {
	rootCmd.Flags().StringVarP(&flagCollection, "collection", "c", "", "collection name (required for a bare pipeline array)")
	rootCmd.Flags().StringVar(&flagSchema, "schema", "", "schema prefix applied to every table reference")
	rootCmd.Flags().BoolVarP(&flagInline, "inline", "i", false, "render literal values inline instead of as bind variables")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write output to this file instead of stdout")
	rootCmd.Flags().BoolVarP(&flagPretty, "pretty", "p", false, "pretty-print the SQL output")
	rootCmd.Flags().BoolVar(&flagExplain, "explain", false, "print a plan summary before the SQL (cmd/sqlpipe extension, not part of the core contract)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error kind to the CLI exit code contract: 0
// success, 1 usage error, 2 I/O error, 3 translation error.
func exitCodeFor(err error) int {
	var ioErr *errkind.IOError
	if errors.As(err, &ioErr) {
		return 2
	}
	var unsupported *errkind.UnsupportedOperator
	var invalid *errkind.InvalidArgument
	var empty *errkind.EmptyInput
	var translation *errkind.TranslationError
	if errors.As(err, &unsupported) || errors.As(err, &invalid) || errors.As(err, &empty) || errors.As(err, &translation) {
		return 3
	}
	return 1
}
