package compile

import (
	"fmt"
	"strings"

	"github.com/dwoolworth/sqlpipe/ast"
)

// compileProject reshapes the document via JSON_OBJECT (inclusion/
// computed fields) or JSON_MERGEPATCH-with-null (exclusion fields),
// matching $project's two mutually exclusive modes. A
// projection following $group renders its field references against the
// group's scoped columns but always re-wraps the output into JSON, since
// nothing downstream should have to know a $group ever ran.
func compileProject(b *builder, s ast.Project) error {
	exclusionOnly := true
	for _, p := range s.Fields {
		if p.Value.Kind != ast.ProjectExclude {
			exclusionOnly = false
			break
		}
	}

	if exclusionOnly && len(s.Fields) > 0 {
		return compileProjectExclude(b, s)
	}
	return compileProjectInclude(b, s)
}

func compileProjectInclude(b *builder, s ast.Project) error {
	var parts []string
	if !s.ExcludeID {
		if _, explicit := s.Fields.Get("_id"); !explicit {
			idExpr, err := (ast.FieldPath{Path: "_id"}).Render(b.ctx, b.sc)
			if err != nil {
				return err
			}
			parts = append(parts, fmt.Sprintf("%s VALUE %s", quoteKey("_id"), idExpr))
		}
	}
	for _, p := range s.Fields {
		var e ast.Expr
		switch p.Value.Kind {
		case ast.ProjectComputed:
			e = p.Value.Computed
		case ast.ProjectInclude:
			e = ast.FieldPath{Path: p.Name}
		default:
			continue // ProjectExclude entries are dropped in inclusion mode
		}
		v, err := e.Render(b.ctx, b.sc)
		if err != nil {
			return err
		}
		parts = append(parts, fmt.Sprintf("%s VALUE %s", quoteKey(p.Name), v))
	}
	b.ensureJSONFields(parts)
	return nil
}

func compileProjectExclude(b *builder, s ast.Project) error {
	b.ensureJSON()
	var parts []string
	for _, p := range s.Fields {
		parts = append(parts, fmt.Sprintf("%s VALUE NULL", quoteKey(p.Name)))
	}
	body := fmt.Sprintf("SELECT JSON_MERGEPATCH(t.data, JSON_OBJECT(%s)) AS data\n%s", strings.Join(parts, ", "), b.from())
	b.addCTE(body)
	return nil
}

// ensureJSONFields emits a CTE producing a fresh JSON_OBJECT(...) of the
// given already-rendered "key VALUE expr" parts as the row's new data,
// leaving the builder in json mode.
func (b *builder) ensureJSONFields(parts []string) {
	body := fmt.Sprintf("SELECT JSON_OBJECT(%s) AS data\n%s", strings.Join(parts, ", "), b.from())
	b.addCTE(body)
	b.mode = "json"
	b.cols = nil
	b.sc = ast.NewScope(b.cfg.Dialect)
}

// compileAddFields adds/overwrites fields via JSON_MERGEPATCH, preserving
// every field $addFields/$set does not mention.
func compileAddFields(b *builder, s ast.AddFields) error {
	b.ensureJSON()
	var parts []string
	for _, p := range s.Fields {
		v, err := p.Value.Render(b.ctx, b.sc)
		if err != nil {
			return err
		}
		parts = append(parts, fmt.Sprintf("%s VALUE %s", quoteKey(p.Name), v))
	}
	body := fmt.Sprintf("SELECT JSON_MERGEPATCH(t.data, JSON_OBJECT(%s)) AS data\n%s", strings.Join(parts, ", "), b.from())
	b.addCTE(body)
	return nil
}
