package ast

// Sort orders rows by an ordered list of (expression, direction) keys
// ($sort). Ties are broken by the database's natural row order, left
// unspecified for multi-key sorts with remaining ties.
type Sort struct {
	Keys []SortKey
}

func (Sort) stageNode() {}

// SkipLimit renders Mongo's separate $skip/$limit stages as the single
// OFFSET/FETCH clause Oracle-family SQL exposes; either bound may be
// absent (HasSkip/HasLimit false) when only one of $skip/$limit was
// present in the source pipeline.
type SkipLimit struct {
	Skip     int64
	HasSkip  bool
	Limit    int64
	HasLimit bool
}

func (SkipLimit) stageNode() {}

// Count replaces the entire row set with a single document containing
// one field holding the input row count ($count).
type Count struct {
	Field string
}

func (Count) stageNode() {}

// Sample selects a pseudo-random subset of Size rows ($sample), lowered
// to Oracle's SAMPLE/FETCH FIRST combination by the compiler.
type Sample struct {
	Size int64
}

func (Sample) stageNode() {}
