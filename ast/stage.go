package ast

// Stage is implemented by every pipeline stage AST variant. Render is
// invoked by the compiler in stage order; a stage does not append its
// own clause terminators — the compiler's pass chain composes stages
// into one statement.
type Stage interface {
	stageNode()
}

// Pipeline is an ordered, immutable list of stages over a named source
// collection
// plus an ordered list of stages; stages never mutate in place").
type Pipeline struct {
	Collection string
	Stages     []Stage
}

// NewPipeline constructs a Pipeline. Collection must be non-empty;
// Stages may be empty.
func NewPipeline(collection string, stages ...Stage) *Pipeline {
	cp := make([]Stage, len(stages))
	copy(cp, stages)
	return &Pipeline{Collection: collection, Stages: cp}
}

// WithStage returns a new Pipeline with stage appended, leaving the
// receiver unmodified.
func (p *Pipeline) WithStage(stage Stage) *Pipeline {
	cp := make([]Stage, len(p.Stages)+1)
	copy(cp, p.Stages)
	cp[len(p.Stages)] = stage
	return &Pipeline{Collection: p.Collection, Stages: cp}
}
