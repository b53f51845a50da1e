package ast

// LookupLet binds a named outer-document expression for use inside a
// pipeline-form $lookup's sub-pipeline (the "let" clause).
type LookupLet struct {
	Name string
	Expr Expr
}

// Lookup joins another collection's documents into the current row's As
// field ($lookup). The equality form sets LocalField/ForeignField; the
// general pipeline form sets Let and SubPipeline instead, correlating
// through the bound variables referenced from within it.
type Lookup struct {
	From  string
	As    string

	// Equality form.
	LocalField   string
	ForeignField string

	// Pipeline (general) form.
	Let         []LookupLet
	SubPipeline *Pipeline
}

func (Lookup) stageNode() {}

// Unwind flattens an array field into one row per element ($unwind).
// IncludeArrayIndex names an output field to receive the zero-based
// element position when non-empty; PreserveNullAndEmptyArrays keeps a
// single null-valued row for documents where Path is missing, null, or
// an empty array instead of dropping them.
type Unwind struct {
	Path                       string
	IncludeArrayIndex          string
	PreserveNullAndEmptyArrays bool
}

func (Unwind) stageNode() {}

// UnionWith appends another collection's (optionally sub-piped) rows to
// the current result set ($unionWith), compiled to UNION ALL.
type UnionWith struct {
	From        string
	SubPipeline *Pipeline // nil if absent
}

func (UnionWith) stageNode() {}

// GraphLookup performs a recursive traversal from StartWith, following
// ConnectFromField to ConnectToField, collecting matched documents into
// As ($graphLookup). MaxDepth bounds the recursion when HasMaxDepth is
// set; DepthField, when non-empty, records each match's recursion depth.
// RestrictSearchWithMatch, when non-nil, filters candidates at every
// recursive step.
type GraphLookup struct {
	From                    string
	StartWith               Expr
	ConnectFromField        string
	ConnectToField          string
	As                      string
	MaxDepth                int64
	HasMaxDepth             bool
	DepthField              string
	RestrictSearchWithMatch Expr // nil if absent
}

func (GraphLookup) stageNode() {}
