package ast

// Pair is a single (name, value) entry of an OrderedMap.
type Pair[V any] struct {
	Name  string
	Value V
}

// OrderedMap is an explicit insertion-ordered sequence of (name, value)
// pairs, used everywhere Mongo's own insertion-ordered object literals
// encode a sequence — group accumulators, projections, compound group
// keys, facet names, window outputs, switch branches, addFields — to
// preserve that order; a plain Go map cannot, so OrderedMap is used
// instead throughout the AST.
type OrderedMap[V any] []Pair[V]

// Get returns the value for name and whether it was present.
func (m OrderedMap[V]) Get(name string) (V, bool) {
	for _, p := range m {
		if p.Name == name {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

// Names returns the keys in insertion order.
func (m OrderedMap[V]) Names() []string {
	names := make([]string, len(m))
	for i, p := range m {
		names[i] = p.Name
	}
	return names
}

// Append returns a new OrderedMap with (name, value) appended.
func (m OrderedMap[V]) Append(name string, value V) OrderedMap[V] {
	return append(m, Pair[V]{Name: name, Value: value})
}
