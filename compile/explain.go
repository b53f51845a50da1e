package compile

import "github.com/dwoolworth/sqlpipe/ast"

// PlanSummary describes a compiled pipeline's shape at a glance, without
// requiring a database connection — a human-readable translation
// preview that materially helps anyone reviewing a generated statement
// before running it.
type PlanSummary struct {
	StageCount      int
	StageKinds      []string
	UsesRecursion   bool
	UsesWindowFuncs bool
	UsesFacet       bool
}

// Explain renders p to inline SQL (no bind placeholders) and reports a
// PlanSummary alongside it.
func Explain(p *ast.Pipeline, cfg Config) (string, PlanSummary, error) {
	inlineCfg := cfg
	inlineCfg.Inline = true
	sql, _, err := Compile(p, inlineCfg)
	if err != nil {
		return "", PlanSummary{}, err
	}
	return sql, summarize(p), nil
}

func summarize(p *ast.Pipeline) PlanSummary {
	s := PlanSummary{StageCount: len(p.Stages)}
	for _, stage := range p.Stages {
		switch stage.(type) {
		case ast.GraphLookup:
			s.UsesRecursion = true
			s.StageKinds = append(s.StageKinds, "$graphLookup")
		case ast.SetWindowFields:
			s.UsesWindowFuncs = true
			s.StageKinds = append(s.StageKinds, "$setWindowFields")
		case ast.Facet:
			s.UsesFacet = true
			s.StageKinds = append(s.StageKinds, "$facet")
		case ast.Match:
			s.StageKinds = append(s.StageKinds, "$match")
		case ast.Project:
			s.StageKinds = append(s.StageKinds, "$project")
		case ast.AddFields:
			s.StageKinds = append(s.StageKinds, "$addFields")
		case ast.Group:
			s.StageKinds = append(s.StageKinds, "$group")
		case ast.Sort:
			s.StageKinds = append(s.StageKinds, "$sort")
		case ast.SkipLimit:
			s.StageKinds = append(s.StageKinds, "$skip/$limit")
		case ast.Lookup:
			s.StageKinds = append(s.StageKinds, "$lookup")
		case ast.Unwind:
			s.StageKinds = append(s.StageKinds, "$unwind")
		case ast.UnionWith:
			s.StageKinds = append(s.StageKinds, "$unionWith")
		case ast.Bucket:
			s.StageKinds = append(s.StageKinds, "$bucket")
		case ast.BucketAuto:
			s.StageKinds = append(s.StageKinds, "$bucketAuto")
		case ast.Redact:
			s.StageKinds = append(s.StageKinds, "$redact")
		case ast.ReplaceRoot:
			s.StageKinds = append(s.StageKinds, "$replaceRoot")
		case ast.Merge:
			s.StageKinds = append(s.StageKinds, "$merge")
		case ast.Count:
			s.StageKinds = append(s.StageKinds, "$count")
		case ast.Sample:
			s.StageKinds = append(s.StageKinds, "$sample")
		default:
			s.StageKinds = append(s.StageKinds, "?")
		}
	}
	return s
}
