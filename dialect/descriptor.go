// Package dialect describes the static capability flags an Oracle-family
// JSON-relational target exposes to the renderers in ast and compile.
//
// Grounded on goodm's schema.go: a Schema was a parsed, static
// description of a collection; a Descriptor is a parsed, static
// description of a SQL dialect. Kept as a plain capability record
// rather than a full virtual-dispatch interface: a static capability
// descriptor is enough, and render logic in ast/compile merely consults
// these flags.
package dialect

// Descriptor is a static capability record consumed by renderers to
// choose among equivalent SQL forms.
type Descriptor struct {
	Name string

	// SupportsJSONValueReturning allows JSON_VALUE(... RETURNING NUMBER)
	// typed returns instead of a CAST(... AS NUMBER) wrapper.
	SupportsJSONValueReturning bool

	// SupportsNestedPath allows the shorter base.data.a.b dotted-path
	// form instead of JSON_VALUE(base.data, '$.a.b').
	SupportsNestedPath bool

	// SupportsJSONCollectionTables allows JSON_TABLE array enumeration.
	SupportsJSONCollectionTables bool
}

// Oracle23ai is the single required dialect profile: a
// recent Oracle release with full JSON_VALUE RETURNING, JSON_TABLE, and
// (optionally) nested dotted-path access support.
var Oracle23ai = Descriptor{
	Name:                         "oracle23ai",
	SupportsJSONValueReturning:   true,
	SupportsNestedPath:           false,
	SupportsJSONCollectionTables: true,
}

// Oracle19c is a conservative older profile kept as the descriptor's
// designed extension seam: no RETURNING clause support, so
// typed field access falls back to CAST(JSON_VALUE(...) AS ...).
var Oracle19c = Descriptor{
	Name:                         "oracle19c",
	SupportsJSONValueReturning:   false,
	SupportsNestedPath:           false,
	SupportsJSONCollectionTables: true,
}
