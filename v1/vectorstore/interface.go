package vectorstore

import "context"

// Store is the common interface for all vector database adapters.
// Implementations are safe for concurrent use: the body of every operation is
// serialized per store instance, so two calls on the same instance never
// interleave against the backend.
//
// Example usage:
//
//	func NewSearchService(store vectorstore.Store) *SearchService {
//	    return &SearchService{store: store}
//	}
//
//	// Works with any implementation:
//	// - milvus.NewStore(...)
//	// - qdrant.NewStore(...)
type Store interface {
	// Add writes the given entries to the backend, one upsert per entry, in
	// order. An empty batch is a no-op. The first conversion or backend
	// failure aborts the remaining entries; entries already written are not
	// rolled back.
	Add(ctx context.Context, entries []Entry) error

	// Delete removes entries by id. Ids that cannot be converted to the
	// backend's native key type abort the call with ErrConversion before any
	// backend call is issued.
	Delete(ctx context.Context, ids ...string) error

	// Query runs a similarity search, or a filter-only lookup when the query
	// carries no embedding. At least one of embedding and filters must be
	// present and TopK must be positive, otherwise ErrValidation is returned
	// without contacting the backend.
	Query(ctx context.Context, query Query) ([]Match, error)
}
