package vectorstore

// Chunk is a typed content unit attached to a vector entry.
type Chunk struct {
	// Type is a free-form tag describing the content, e.g. "text" or "code"
	Type string `json:"type"`

	// Content is the raw content of the chunk
	Content string `json:"content"`
}

// Entry is a single vector record to be written to a store.
// Entries are immutable once submitted; the store never mutates them.
type Entry struct {
	// ID is the unique identifier of the record. Integer-keyed backends
	// require it to be a decimal string.
	ID string `json:"id"`

	// Embedding is the dense vector representation. Its dimensionality is
	// fixed per collection and validated by the backend, not by this layer.
	Embedding []float32 `json:"embedding"`

	// Chunk is the typed payload stored alongside the vector
	Chunk Chunk `json:"chunk"`

	// Metadata is an optional key/value side-payload, filterable at query
	// time. Values may be scalars, arrays, or time.Time (coerced to RFC3339
	// strings on write).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Query describes a single lookup against a store.
type Query struct {
	// Embedding is the query vector. May be omitted if Filters is set, in
	// which case the store performs a filter-only lookup without ranking.
	Embedding []float32 `json:"embedding,omitempty"`

	// TopK is the maximum number of results to return. Must be positive.
	TopK int `json:"topK"`

	// Filters is an optional metadata filter tree
	Filters *MetadataFilterGroup `json:"filters,omitempty"`
}

// Match is a single query result.
type Match struct {
	// ID is the identifier of the matched record, always a string regardless
	// of the backend's native key type
	ID string `json:"id"`

	// Embedding is the stored vector, best-effort: empty when the backend
	// does not return vectors
	Embedding []float32 `json:"embedding,omitempty"`

	// Chunk is the stored payload of the matched record
	Chunk Chunk `json:"chunk"`

	// Metadata holds the additional fields projected by the store
	// configuration, with documented zero defaults for absent fields
	Metadata map[string]any `json:"metadata,omitempty"`

	// Score is the similarity score. Its scale (distance vs. normalized
	// similarity) is backend-defined; filter-only lookups report zero.
	Score float32 `json:"score"`
}
