package db

// TagFilter restricts search results to documents whose tag field matches
// any of the given values (OR within a filter, AND across filters).
type TagFilter struct {
	Field  string
	Values []string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName     string
	Filters       []TagFilter
	Vector        []float32
	K             int
	ReturnFields  []string
	IncludeVector bool
}

// TagQuery is the input for exact metadata match via tag filters only.
type TagQuery struct {
	IndexName    string
	Filters      []TagFilter
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
