// Package qdrant implements the vectorstore.Store interface on top of the
// official Qdrant Go client.
//
// Unlike Milvus, Qdrant filters with a structured condition API instead of a
// textual expression grammar, and keys points with string ids (UUID or
// numeric) instead of an int64 primary key. The filter tree therefore
// compiles into a native *qdrant.Filter: AND groups become Must clauses, OR
// groups become Should clauses, and nested groups nest as filter conditions.
// Entry ids pass through without conversion.
//
// Everything else matches the Milvus adapter: one upsert per entry, query
// preconditions checked before the backend is contacted, per-instance
// serialization of operations, and presence-check-with-default mapping of
// result payloads.
package qdrant
