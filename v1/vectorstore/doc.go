// Package vectorstore provides a database-agnostic abstraction for storing and
// querying embedding records.
//
// # Overview
//
// This package defines a common interface [Store] that can be implemented by
// different vector database adapters (Milvus, Qdrant, ...), allowing
// applications to switch between databases without changing application code.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    Application Layer                        │
//	│      (uses vectorstore.Store - no DB-specific imports)      │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                     vectorstore.Store                       │
//	│           (common interface + DB-agnostic types)            │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	              ┌────────────┴────────────┐
//	              ▼                         ▼
//	      ┌───────────────┐         ┌───────────────┐
//	      │ milvus.Store  │         │ qdrant.Store  │
//	      │ (implements)  │         │ (implements)  │
//	      └───────────────┘         └───────────────┘
//
// # Records
//
// A vector record is an [Entry]: an opaque string id, an embedding, a typed
// [Chunk] payload (type tag + content) and a free-form metadata map. Query
// results come back as [Match] values carrying the id, a best-effort copy of
// the stored embedding, the chunk and a backend-defined similarity score.
//
// # Filters
//
// Metadata filtering uses a recursive tree of [MetadataFilter] leaves combined
// by [MetadataFilterGroup] nodes with AND/OR conditions. Groups nest to
// arbitrary depth; each adapter compiles the tree into its native filter
// representation. An empty group means "no filter", never "match nothing".
//
// Use the convenience constructors for cleaner code:
//
//	filters := vectorstore.And(
//	    vectorstore.NewFilter("fileName", vectorstore.FilterOperatorEq, "test.txt"),
//	    vectorstore.Or(
//	        vectorstore.NewFilter("pages", vectorstore.FilterOperatorGt, 10),
//	        vectorstore.NewFilter("lang", vectorstore.FilterOperatorIn, []any{"de", "en"}),
//	    ),
//	)
//
// # Usage
//
// In your application, depend only on the vectorstore interface:
//
//	type SearchService struct {
//	    store vectorstore.Store
//	}
//
//	func (s *SearchService) Search(ctx context.Context, vector []float32) ([]vectorstore.Match, error) {
//	    return s.store.Query(ctx, vectorstore.Query{
//	        Embedding: vector,
//	        TopK:      10,
//	        Filters:   vectorstore.And(vectorstore.NewFilter("status", vectorstore.FilterOperatorEq, "published")),
//	    })
//	}
package vectorstore
