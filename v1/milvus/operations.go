package milvus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// Add writes the given entries, one upsert per entry, in order. An empty
// batch succeeds without a backend call. The first conversion or backend
// failure aborts the remaining entries; entries already written stay written.
func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "milvus.Add", trace.WithAttributes(
		attribute.String("collection", s.cfg.CollectionName),
		attribute.Int("entries", len(entries)),
	))
	start := time.Now()
	defer func() {
		s.obs.observe("add", start, err)
		s.finishSpan(span, err)
	}()

	for i, entry := range entries {
		rec, convErr := entryToRecord(entry, s.cfg)
		if convErr != nil {
			return fmt.Errorf("failed to add vector entries: %w", convErr)
		}
		columns, convErr := recordColumns(rec, s.cfg)
		if convErr != nil {
			return fmt.Errorf("failed to add vector entries: %w", convErr)
		}
		if _, upErr := s.api.Upsert(ctx, s.cfg.CollectionName, "", columns...); upErr != nil {
			return fmt.Errorf("failed to add vector entries: %w: upserting entry %d: %w", vectorstore.ErrBackend, i, upErr)
		}
	}

	s.log.Debug("added vector entries",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("count", len(entries)))
	return nil
}

// Delete removes entries by id. Every id is converted to the int64 key type
// up front, so a malformed id aborts the call before any backend call.
func (s *Store) Delete(ctx context.Context, ids ...string) (err error) {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "milvus.Delete", trace.WithAttributes(
		attribute.String("collection", s.cfg.CollectionName),
		attribute.Int("ids", len(ids)),
	))
	start := time.Now()
	defer func() {
		s.obs.observe("delete", start, err)
		s.finishSpan(span, err)
	}()

	pks := make([]int64, len(ids))
	for i, id := range ids {
		pk, parseErr := strconv.ParseInt(id, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("failed to delete vector entries: %w: id %q is not a valid int64 key", vectorstore.ErrConversion, id)
		}
		pks[i] = pk
	}

	idColumn := entity.NewColumnInt64(s.cfg.PrimaryField, pks)
	if delErr := s.api.DeleteByPks(ctx, s.cfg.CollectionName, "", idColumn); delErr != nil {
		return fmt.Errorf("failed to delete vector entries: %w: %w", vectorstore.ErrBackend, delErr)
	}

	s.log.Debug("deleted vector entries",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("count", len(ids)))
	return nil
}

// Query runs a similarity search, or a filter-only lookup when the query
// carries no embedding. Preconditions are checked before the backend is
// contacted; the collection load preceding dispatch is idempotent on the
// Milvus side.
func (s *Store) Query(ctx context.Context, query vectorstore.Query) (matches []vectorstore.Match, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "milvus.Query", trace.WithAttributes(
		attribute.String("collection", s.cfg.CollectionName),
		attribute.Int("topK", query.TopK),
	))
	start := time.Now()
	defer func() {
		s.obs.observe("query", start, err)
		s.finishSpan(span, err)
	}()

	if query.TopK <= 0 {
		return nil, fmt.Errorf("%w: topK must be greater than 0", vectorstore.ErrValidation)
	}
	if len(query.Embedding) == 0 && query.Filters == nil {
		return nil, fmt.Errorf("%w: empty embedding or filters not allowed simultaneously", vectorstore.ErrValidation)
	}

	expr := compileFilters(query.Filters)

	if loadErr := s.api.LoadCollection(ctx, s.cfg.CollectionName, false); loadErr != nil {
		return nil, fmt.Errorf("failed to query vector entries: %w: loading collection: %w", vectorstore.ErrBackend, loadErr)
	}

	if len(query.Embedding) == 0 {
		return s.filterQuery(ctx, expr, query.TopK)
	}
	return s.searchQuery(ctx, expr, query)
}

// searchQuery dispatches a ranked similarity search.
func (s *Store) searchQuery(ctx context.Context, expr string, query vectorstore.Query) ([]vectorstore.Match, error) {
	sp, err := entity.NewIndexFlatSearchParam()
	if err != nil {
		return nil, fmt.Errorf("failed to query vector entries: %w: %w", vectorstore.ErrBackend, err)
	}

	results, err := s.api.Search(ctx, s.cfg.CollectionName, nil, expr, s.outputFields(),
		[]entity.Vector{entity.FloatVector(query.Embedding)}, s.cfg.VectorField,
		s.cfg.MetricType, query.TopK, sp)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector entries: %w: %w", vectorstore.ErrBackend, err)
	}

	matches := make([]vectorstore.Match, 0, query.TopK)
	for _, res := range results {
		for i := 0; i < res.ResultCount; i++ {
			id, idErr := resultID(res.IDs, i)
			if idErr != nil {
				return nil, fmt.Errorf("failed to query vector entries: %w", idErr)
			}
			var score float32
			if i < len(res.Scores) {
				score = res.Scores[i]
			}
			matches = append(matches, matchFromRow(id, rowAt(res.Fields, i), score, s.cfg))
		}
	}

	s.log.Debug("similarity search returned",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// filterQuery dispatches a filter-only lookup. No ranking happens on the
// backend, so every match reports the default zero score.
func (s *Store) filterQuery(ctx context.Context, expr string, topK int) ([]vectorstore.Match, error) {
	outputFields := append(s.outputFields(), s.cfg.PrimaryField)
	rs, err := s.api.Query(ctx, s.cfg.CollectionName, nil, expr, outputFields,
		milvusclient.WithLimit(int64(topK)))
	if err != nil {
		return nil, fmt.Errorf("failed to query vector entries: %w: %w", vectorstore.ErrBackend, err)
	}

	var idColumn entity.Column
	for _, col := range rs {
		if col.Name() == s.cfg.PrimaryField {
			idColumn = col
			break
		}
	}
	if idColumn == nil {
		return []vectorstore.Match{}, nil
	}

	matches := make([]vectorstore.Match, 0, idColumn.Len())
	for i := 0; i < idColumn.Len(); i++ {
		id, idErr := resultID(idColumn, i)
		if idErr != nil {
			return nil, fmt.Errorf("failed to query vector entries: %w", idErr)
		}
		matches = append(matches, matchFromRow(id, rowAt(rs, i), 0, s.cfg))
	}

	s.log.Debug("filter query returned",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// outputFields lists the fields projected on every read: chunk type and
// content, the vector (best-effort, backends may omit it), and the configured
// additional metadata fields.
func (s *Store) outputFields() []string {
	fields := make([]string, 0, len(s.cfg.AdditionalFields)+3)
	fields = append(fields, TypeField, s.cfg.ChunkField, s.cfg.VectorField)
	fields = append(fields, s.cfg.AdditionalFields...)
	return fields
}

// resultID renders a primary-key column value back to the opaque string form.
func resultID(ids entity.Column, i int) (string, error) {
	v, err := ids.Get(i)
	if err != nil {
		return "", fmt.Errorf("%w: reading result id %d: %w", vectorstore.ErrConversion, i, err)
	}
	switch id := v.(type) {
	case int64:
		return strconv.FormatInt(id, 10), nil
	case string:
		return id, nil
	default:
		return "", fmt.Errorf("%w: unexpected id type %T", vectorstore.ErrConversion, v)
	}
}

// rowAt flattens the i-th value of every column into one generic row map.
func rowAt(columns []entity.Column, i int) map[string]any {
	row := make(map[string]any, len(columns))
	for _, col := range columns {
		if i >= col.Len() {
			continue
		}
		if v, err := col.Get(i); err == nil {
			row[col.Name()] = v
		}
	}
	return row
}

func (s *Store) finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
