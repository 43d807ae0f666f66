// Package milvus implements the vectorstore.Store interface on top of the
// official Milvus Go SDK.
//
// # Overview
//
// Milvus filters with a textual boolean expression grammar instead of a
// structured filter API, and keys records with a typed primary-key column
// instead of opaque ids. This package bridges both gaps:
//
//   - the recursive vectorstore filter tree is compiled into one Milvus
//     expression string (leaves as `key op literal`, groups as parenthesized
//     AND/OR joins, literals as quoted strings / bracketed arrays / bare
//     numerics)
//   - generic entries are mapped onto the collection schema (decimal-string
//     id → int64 primary key, chunk type/content into named fields, metadata
//     flattened into columns with timestamps coerced to RFC3339 strings), and
//     result rows are mapped back with presence-check-with-default semantics
//     for projected fields
//
// # Usage
//
//	store, err := milvus.NewStore(milvus.StoreParams{
//	    Config: milvus.DefaultConfig().
//	        WithAddress("localhost:19530").
//	        WithCollectionName("documents"),
//	    Logger: log,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Add(ctx, []vectorstore.Entry{{
//	    ID:        "42",
//	    Embedding: vec,
//	    Chunk:     vectorstore.Chunk{Type: "text", Content: "hello"},
//	    Metadata:  map[string]any{"fileName": "test.txt"},
//	}})
//
// The store serializes its operations on a per-instance mutex; backend
// timeouts and retries are left to the SDK and the caller's context.
package milvus
