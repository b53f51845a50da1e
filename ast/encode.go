package ast

import "go.mongodb.org/mongo-driver/v2/bson"

// Encode re-encodes p as a bson.A of stage documents in the original
// MongoDB aggregation wire shape. It exists as test support for the
// parse/compile round-trip property: parsing a pipeline, encoding it
// back out, and reparsing must reach the same AST. Not used by the
// compiler itself.
func Encode(p *Pipeline) bson.A {
	out := make(bson.A, 0, len(p.Stages))
	for _, s := range p.Stages {
		out = append(out, encodeStage(s))
	}
	return out
}

func encodeStage(s Stage) bson.D {
	switch st := s.(type) {
	case Match:
		return bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: encodeExpr(st.Filter)}}}}
	case Project:
		return bson.D{{Key: "$project", Value: encodeProjection(st)}}
	case AddFields:
		return bson.D{{Key: "$addFields", Value: encodeExprMap(st.Fields)}}
	case Group:
		return bson.D{{Key: "$group", Value: encodeGroup(st)}}
	case Sort:
		return bson.D{{Key: "$sort", Value: encodeSortKeys(st.Keys)}}
	case SkipLimit:
		return encodeSkipLimit(st)
	case Count:
		return bson.D{{Key: "$count", Value: st.Field}}
	case Sample:
		return bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: st.Size}}}}
	case Lookup:
		return bson.D{{Key: "$lookup", Value: encodeLookup(st)}}
	case Unwind:
		return bson.D{{Key: "$unwind", Value: encodeUnwind(st)}}
	case UnionWith:
		return bson.D{{Key: "$unionWith", Value: encodeUnionWith(st)}}
	case GraphLookup:
		return bson.D{{Key: "$graphLookup", Value: encodeGraphLookup(st)}}
	case Bucket:
		return bson.D{{Key: "$bucket", Value: encodeBucket(st)}}
	case BucketAuto:
		return bson.D{{Key: "$bucketAuto", Value: encodeBucketAuto(st)}}
	case Facet:
		return bson.D{{Key: "$facet", Value: encodeFacet(st)}}
	case SetWindowFields:
		return bson.D{{Key: "$setWindowFields", Value: encodeSetWindowFields(st)}}
	case Redact:
		return bson.D{{Key: "$redact", Value: encodeExpr(st.Expr)}}
	case ReplaceRoot:
		return bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: encodeExpr(st.NewRoot)}}}}
	case Merge:
		return bson.D{{Key: "$merge", Value: encodeMerge(st)}}
	}
	return bson.D{{Key: "$unknown", Value: nil}}
}

func encodeProjection(p Project) bson.D {
	out := bson.D{}
	if p.ExcludeID {
		out = append(out, bson.E{Key: "_id", Value: 0})
	}
	for _, pair := range p.Fields {
		switch pair.Value.Kind {
		case ProjectInclude:
			out = append(out, bson.E{Key: pair.Name, Value: 1})
		case ProjectExclude:
			out = append(out, bson.E{Key: pair.Name, Value: 0})
		case ProjectComputed:
			out = append(out, bson.E{Key: pair.Name, Value: encodeExpr(pair.Value.Computed)})
		}
	}
	return out
}

func encodeExprMap(m OrderedMap[Expr]) bson.D {
	out := bson.D{}
	for _, p := range m {
		out = append(out, bson.E{Key: p.Name, Value: encodeExpr(p.Value)})
	}
	return out
}

func encodeGroup(g Group) bson.D {
	out := bson.D{}
	if g.ID.Compound != nil {
		idDoc := bson.D{}
		for _, p := range g.ID.Compound {
			idDoc = append(idDoc, bson.E{Key: p.Name, Value: encodeExpr(p.Value)})
		}
		out = append(out, bson.E{Key: "_id", Value: idDoc})
	} else {
		out = append(out, bson.E{Key: "_id", Value: encodeExpr(g.ID.Expr)})
	}
	for _, p := range g.Accumulators {
		out = append(out, bson.E{Key: p.Name, Value: encodeAccumulator(p.Value)})
	}
	return out
}

func encodeAccumulator(a Accumulator) bson.D {
	op := "$" + string(a.Op)
	switch a.Op {
	case AccumCount, AccumRank, AccumDenseRank, AccumDocumentNumber:
		return bson.D{{Key: op, Value: bson.D{}}}
	}
	return bson.D{{Key: op, Value: encodeExpr(a.Arg)}}
}

func encodeSortKeys(keys []SortKey) bson.D {
	out := bson.D{}
	for _, k := range keys {
		dir := 1
		if k.Descending {
			dir = -1
		}
		if fp, ok := k.Expr.(FieldPath); ok {
			out = append(out, bson.E{Key: fp.Path, Value: dir})
		}
	}
	return out
}

func encodeSkipLimit(sl SkipLimit) bson.D {
	if sl.HasSkip {
		return bson.D{{Key: "$skip", Value: sl.Skip}}
	}
	return bson.D{{Key: "$limit", Value: sl.Limit}}
}

func encodeLookup(l Lookup) bson.D {
	out := bson.D{{Key: "from", Value: l.From}, {Key: "as", Value: l.As}}
	if l.SubPipeline != nil {
		letDoc := bson.D{}
		for _, b := range l.Let {
			letDoc = append(letDoc, bson.E{Key: b.Name, Value: encodeExpr(b.Expr)})
		}
		out = append(out, bson.E{Key: "let", Value: letDoc}, bson.E{Key: "pipeline", Value: Encode(l.SubPipeline)})
		return out
	}
	out = append(out, bson.E{Key: "localField", Value: l.LocalField}, bson.E{Key: "foreignField", Value: l.ForeignField})
	return out
}

func encodeUnwind(u Unwind) bson.D {
	out := bson.D{{Key: "path", Value: "$" + u.Path}}
	if u.IncludeArrayIndex != "" {
		out = append(out, bson.E{Key: "includeArrayIndex", Value: u.IncludeArrayIndex})
	}
	out = append(out, bson.E{Key: "preserveNullAndEmptyArrays", Value: u.PreserveNullAndEmptyArrays})
	return out
}

func encodeUnionWith(u UnionWith) bson.D {
	if u.SubPipeline == nil {
		return bson.D{{Key: "coll", Value: u.From}}
	}
	return bson.D{{Key: "coll", Value: u.From}, {Key: "pipeline", Value: Encode(u.SubPipeline)}}
}

func encodeGraphLookup(g GraphLookup) bson.D {
	out := bson.D{
		{Key: "from", Value: g.From},
		{Key: "startWith", Value: encodeExpr(g.StartWith)},
		{Key: "connectFromField", Value: g.ConnectFromField},
		{Key: "connectToField", Value: g.ConnectToField},
		{Key: "as", Value: g.As},
	}
	if g.HasMaxDepth {
		out = append(out, bson.E{Key: "maxDepth", Value: g.MaxDepth})
	}
	if g.DepthField != "" {
		out = append(out, bson.E{Key: "depthField", Value: g.DepthField})
	}
	if g.RestrictSearchWithMatch != nil {
		out = append(out, bson.E{Key: "restrictSearchWithMatch", Value: encodeExpr(g.RestrictSearchWithMatch)})
	}
	return out
}

func encodeBucket(b Bucket) bson.D {
	boundaries := bson.A{}
	for _, e := range b.Boundaries {
		boundaries = append(boundaries, encodeExpr(e))
	}
	out := bson.D{
		{Key: "groupBy", Value: encodeExpr(b.GroupBy)},
		{Key: "boundaries", Value: boundaries},
	}
	if b.DefaultSet {
		out = append(out, bson.E{Key: "default", Value: encodeExpr(b.Default)})
	}
	if len(b.Output) > 0 {
		outputDoc := bson.D{}
		for _, p := range b.Output {
			outputDoc = append(outputDoc, bson.E{Key: p.Name, Value: encodeAccumulator(p.Value)})
		}
		out = append(out, bson.E{Key: "output", Value: outputDoc})
	}
	return out
}

func encodeBucketAuto(b BucketAuto) bson.D {
	out := bson.D{
		{Key: "groupBy", Value: encodeExpr(b.GroupBy)},
		{Key: "buckets", Value: b.NBuckets},
	}
	if b.Granularity != "" {
		out = append(out, bson.E{Key: "granularity", Value: string(b.Granularity)})
	}
	if len(b.Output) > 0 {
		outputDoc := bson.D{}
		for _, p := range b.Output {
			outputDoc = append(outputDoc, bson.E{Key: p.Name, Value: encodeAccumulator(p.Value)})
		}
		out = append(out, bson.E{Key: "output", Value: outputDoc})
	}
	return out
}

func encodeFacet(f Facet) bson.D {
	out := bson.D{}
	for _, p := range f.Pipelines {
		out = append(out, bson.E{Key: p.Name, Value: Encode(p.Value)})
	}
	return out
}

func encodeSetWindowFields(s SetWindowFields) bson.D {
	out := bson.D{}
	if s.PartitionBy != nil {
		out = append(out, bson.E{Key: "partitionBy", Value: encodeExpr(s.PartitionBy)})
	}
	if len(s.SortBy) > 0 {
		out = append(out, bson.E{Key: "sortBy", Value: encodeSortKeys(s.SortBy)})
	}
	outputDoc := bson.D{}
	for _, p := range s.Output {
		wf := bson.D{}
		accDoc := encodeAccumulator(p.Value.Accumulator)
		wf = append(wf, accDoc...)
		if p.Value.Window.HasBounds {
			wf = append(wf, bson.E{Key: "window", Value: encodeWindowBounds(p.Value.Window)})
		}
		outputDoc = append(outputDoc, bson.E{Key: p.Name, Value: wf})
	}
	out = append(out, bson.E{Key: "output", Value: outputDoc})
	return out
}

func encodeWindowBounds(w WindowSpec) bson.D {
	lower := any("unbounded")
	if !w.LowerUnbounded {
		lower = w.LowerOffset
	}
	upper := any("unbounded")
	if !w.UpperUnbounded {
		upper = w.UpperOffset
	}
	return bson.D{{Key: "documents", Value: bson.A{lower, upper}}}
}

func encodeMerge(m Merge) bson.D {
	onFields := bson.A{}
	for _, f := range m.OnFields {
		onFields = append(onFields, f)
	}
	return bson.D{
		{Key: "into", Value: m.Into},
		{Key: "on", Value: onFields},
		{Key: "whenMatched", Value: string(m.WhenMatched)},
		{Key: "whenNotMatched", Value: string(m.WhenNotMatched)},
	}
}

// encodeExpr re-encodes an expression node back to its BSON wire
// representation. Only the constructs the parser itself produces need
// round-trip; anything else encodes to a best-effort nil.
func encodeExpr(e Expr) any {
	switch v := e.(type) {
	case nil:
		return nil
	case Literal:
		if v.IsNull {
			return nil
		}
		return v.Value
	case FieldPath:
		return "$" + v.Path
	case ArrayLiteral:
		arr := bson.A{}
		for _, item := range v.Items {
			arr = append(arr, encodeExpr(item))
		}
		return arr
	case Comparison:
		return bson.D{{Key: "$" + string(v.Op), Value: bson.A{encodeExpr(v.LHS), encodeExpr(v.RHS)}}}
	case Logical:
		operands := bson.A{}
		for _, o := range v.Operands {
			operands = append(operands, encodeExpr(o))
		}
		return bson.D{{Key: "$" + string(v.Op), Value: operands}}
	case Arithmetic:
		if v.Op == ArithAbs && len(v.Operands) == 1 {
			return bson.D{{Key: "$abs", Value: encodeExpr(v.Operands[0])}}
		}
		names := map[ArithOp]string{ArithAdd: "$add", ArithSub: "$subtract", ArithMul: "$multiply", ArithDiv: "$divide", ArithMod: "$mod"}
		operands := bson.A{}
		for _, o := range v.Operands {
			operands = append(operands, encodeExpr(o))
		}
		return bson.D{{Key: names[v.Op], Value: operands}}
	default:
		return nil
	}
}
