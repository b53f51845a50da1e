package ast

// Bucket partitions rows into fixed Boundaries by GroupBy's value
// ($bucket). Default names the bucket id used for values falling outside
// every boundary when DefaultSet is true; Output names the accumulators
// computed per bucket, defaulting to a bare count when empty.
type Bucket struct {
	GroupBy    Expr
	Boundaries []Expr
	Default    Expr
	DefaultSet bool
	Output     OrderedMap[Accumulator]
}

func (Bucket) stageNode() {}

// BucketGranularity names a $bucketAuto preferred-number series. Only
// its presence is validated; rendering always uses NTILE(n) regardless
// of the requested series (recorded Open Question decision: granularity
// is parsed and retained but not used to pick non-uniform boundaries).
type BucketGranularity string

// BucketAuto partitions rows into NBuckets roughly-equal-count buckets
// ordered by GroupBy's value ($bucketAuto), lowered to NTILE(NBuckets).
type BucketAuto struct {
	GroupBy     Expr
	NBuckets    int64
	Granularity BucketGranularity // "" if absent
	Output      OrderedMap[Accumulator]
}

func (BucketAuto) stageNode() {}
