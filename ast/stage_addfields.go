package ast

// AddFields adds or overwrites fields on the current document
// ($addFields / $set), preserving source declaration order.
type AddFields struct {
	Fields OrderedMap[Expr]
}

func (AddFields) stageNode() {}
