package store

// ParameterRangePredicate filters models to those with a numeric parameter
// named Name falling within [Min, Max] (either bound may be nil for an
// open range).
type ParameterRangePredicate struct {
	Name string
	Min  *float64
	Max  *float64
}

// ModelFilter selects models by type (required), an optional SQL LIKE name
// pattern, and zero or more parameter range predicates, all ANDed
// together.
type ModelFilter struct {
	Type        string
	NamePattern string
	Ranges      []ParameterRangePredicate
	MaxResults  int
}

// SubcircuitFilter selects subcircuits by an optional SQL LIKE name
// pattern.
type SubcircuitFilter struct {
	NamePattern string
	MaxResults  int
}

// ParameterResult maps a parameter name to its raw value text, as stored.
type ParameterResult map[string]string

// ModelResult is one model row along with its parameters, as returned by
// QueryModels.
type ModelResult struct {
	Name       string
	Type       string
	SourceFile string
	Line       int
	Params     ParameterResult
}

// SubcircuitResult is one subcircuit row, as returned by QuerySubcircuits.
type SubcircuitResult struct {
	Name       string
	Content    string
	SourceFile string
	Line       int
}

// Stats summarizes what a store currently holds.
type Stats struct {
	ModelCount      int
	ParameterCount  int
	SubcircuitCount int
}
