package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dwoolworth/sqlpipe/compile"
	"github.com/dwoolworth/sqlpipe/dialect"
	"github.com/dwoolworth/sqlpipe/errkind"
	"github.com/dwoolworth/sqlpipe/parse"
)

var (
	flagCollection string
	flagSchema     string
	flagInline     bool
	flagOutput     string
	flagPretty     bool
	flagExplain    bool
)

// namedPipeline is one entry of the CLI's three accepted input shapes:
// a bare array (paired with --collection), a single {name, collection,
// pipeline} document, or a {pipelines: [...]} container of those.
type namedPipeline struct {
	Name       string
	Collection string
	Stages     []bson.D
}

func runTranslate(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return &errkind.IOError{Path: path, Err: err}
	}

	pipelines, err := loadInput(raw)
	if err != nil {
		return err
	}

	cfg := compile.DefaultConfig()
	cfg.SchemaPrefix = flagSchema
	cfg.Inline = flagInline
	cfg.Dialect = dialect.Oracle23ai

	var out strings.Builder
	multi := len(pipelines) > 1
	for _, np := range pipelines {
		p, err := parse.Pipeline(np.Collection, np.Stages, parse.DefaultConfig())
		if err != nil {
			return err
		}

		if flagExplain {
			_, summary, err := compile.Explain(p, cfg)
			if err != nil {
				return err
			}
			writeExplain(&out, np.Name, summary)
		}

		sql, binds, err := compile.Compile(p, cfg)
		if err != nil {
			return err
		}
		writeStatement(&out, np.Name, multi, sql, binds, flagInline, flagPretty)
	}

	return emit(out.String(), flagOutput)
}

// loadInput detects which of the three input shapes raw holds and
// normalizes it to a slice of namedPipeline, in source order.
func loadInput(raw []byte) ([]namedPipeline, error) {
	var probe bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &probe); err == nil {
		if rawPipelines, ok := probe["pipelines"]; ok {
			return decodeContainer(rawPipelines)
		}
		if _, ok := probe["pipeline"]; ok {
			return decodeNamed(raw)
		}
		return nil, &errkind.InvalidArgument{Operator: "input", Message: "object input must have a \"pipeline\" or \"pipelines\" key"}
	}

	var bare []bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &bare); err != nil {
		return nil, &errkind.InvalidArgument{Operator: "input", Message: "not a recognized pipeline shape: " + err.Error()}
	}
	if flagCollection == "" {
		return nil, &errkind.InvalidArgument{Operator: "input", Message: "--collection is required for a bare pipeline array"}
	}
	return []namedPipeline{{Collection: flagCollection, Stages: bare}}, nil
}

func decodeNamed(raw []byte) ([]namedPipeline, error) {
	var doc struct {
		Name       string   `bson:"name"`
		Collection string   `bson:"collection"`
		Pipeline   []bson.D `bson:"pipeline"`
	}
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, &errkind.InvalidArgument{Operator: "input", Message: err.Error()}
	}
	collection := doc.Collection
	if collection == "" {
		collection = flagCollection
	}
	return []namedPipeline{{Name: doc.Name, Collection: collection, Stages: doc.Pipeline}}, nil
}

func decodeContainer(raw any) ([]namedPipeline, error) {
	b, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, &errkind.InvalidArgument{Operator: "input", Message: err.Error()}
	}
	var entries []struct {
		Name       string   `bson:"name"`
		Collection string   `bson:"collection"`
		Pipeline   []bson.D `bson:"pipeline"`
	}
	if err := bson.UnmarshalExtJSON(b, false, &entries); err != nil {
		return nil, &errkind.InvalidArgument{Operator: "input", Message: err.Error()}
	}
	out := make([]namedPipeline, 0, len(entries))
	for _, e := range entries {
		collection := e.Collection
		if collection == "" {
			collection = flagCollection
		}
		out = append(out, namedPipeline{Name: e.Name, Collection: collection, Stages: e.Pipeline})
	}
	return out, nil
}

// writeStatement appends one pipeline's rendered SQL to out, preceded
// by a "-- Pipeline: name" comment when the input held more than one
//, followed by a "-- Bind variables: [...]" trailer when
// not inline.
func writeStatement(out *strings.Builder, name string, multi bool, sql string, binds []any, inline, pretty bool) {
	if multi {
		label := name
		if label == "" {
			label = "(unnamed)"
		}
		fmt.Fprintf(out, "-- Pipeline: %s\n", label)
	}
	if pretty {
		sql = prettySQL(sql)
	}
	out.WriteString(sql)
	out.WriteString("\n")
	if !inline {
		fmt.Fprintf(out, "-- Bind variables: %s\n", formatBinds(binds))
	}
	out.WriteString("\n")
}

func writeExplain(out *strings.Builder, name string, summary compile.PlanSummary) {
	label := name
	if label == "" {
		label = "(unnamed)"
	}
	fmt.Fprintf(out, "-- Explain %s: %d stage(s) [%s]", label, summary.StageCount, strings.Join(summary.StageKinds, ", "))
	if summary.UsesRecursion {
		out.WriteString(" recursive")
	}
	if summary.UsesWindowFuncs {
		out.WriteString(" windowed")
	}
	if summary.UsesFacet {
		out.WriteString(" faceted")
	}
	out.WriteString("\n")
}

// prettySQL inserts a newline before each top-level clause keyword, a
// hand-rolled indenter in the same fmt.Printf-only spirit as
// cmd/goodm/inspect.go's tree printing — no templating library.
func prettySQL(sql string) string {
	replacer := strings.NewReplacer(
		" FROM ", "\nFROM ",
		" WHERE ", "\nWHERE ",
		" GROUP BY ", "\nGROUP BY ",
		" ORDER BY ", "\nORDER BY ",
		" OFFSET ", "\nOFFSET ",
		" FETCH FIRST ", "\nFETCH FIRST ",
		", stage", ",\nstage",
	)
	return replacer.Replace(sql)
}

func formatBinds(binds []any) string {
	parts := make([]string, len(binds))
	for i, v := range binds {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func emit(text, output string) error {
	if output == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return &errkind.IOError{Path: output, Err: err}
	}
	return nil
}
