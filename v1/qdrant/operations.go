package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// Add writes the given entries, one upsert per entry, in order. An empty
// batch succeeds without a backend call. The first backend failure aborts the
// remaining entries; entries already written stay written.
func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "qdrant.Add", trace.WithAttributes(
		attribute.String("collection", s.cfg.CollectionName),
		attribute.Int("entries", len(entries)),
	))
	defer func() { s.finishSpan(span, err) }()

	wait := true
	for i, entry := range entries {
		req := &qdrant.UpsertPoints{
			CollectionName: s.cfg.CollectionName,
			Wait:           &wait,
			Points:         []*qdrant.PointStruct{entryToPoint(entry, s.cfg)},
		}
		if _, upErr := s.api.Upsert(ctx, req); upErr != nil {
			return fmt.Errorf("failed to add vector entries: %w: upserting entry %d: %w", vectorstore.ErrBackend, i, upErr)
		}
	}

	s.log.Debug("added vector entries",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("count", len(entries)))
	return nil
}

// Delete removes entries by id in a single call. Qdrant keys points by
// string or numeric id, so ids pass through without conversion and deletion
// cannot fail on a malformed id.
func (s *Store) Delete(ctx context.Context, ids ...string) (err error) {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "qdrant.Delete", trace.WithAttributes(
		attribute.String("collection", s.cfg.CollectionName),
		attribute.Int("ids", len(ids)),
	))
	defer func() { s.finishSpan(span, err) }()

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: s.cfg.CollectionName,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
	}
	if _, delErr := s.api.Delete(ctx, req); delErr != nil {
		return fmt.Errorf("failed to delete vector entries: %w: %w", vectorstore.ErrBackend, delErr)
	}

	s.log.Debug("deleted vector entries",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("count", len(ids)))
	return nil
}

// Query runs a similarity search, or a filter-only lookup when the query
// carries no embedding. Preconditions are checked before the backend is
// contacted. Filter-only lookups are not ranked, so every match reports the
// default zero score.
func (s *Store) Query(ctx context.Context, query vectorstore.Query) (matches []vectorstore.Match, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "qdrant.Query", trace.WithAttributes(
		attribute.String("collection", s.cfg.CollectionName),
		attribute.Int("topK", query.TopK),
	))
	defer func() { s.finishSpan(span, err) }()

	if query.TopK <= 0 {
		return nil, fmt.Errorf("%w: topK must be greater than 0", vectorstore.ErrValidation)
	}
	if len(query.Embedding) == 0 && query.Filters == nil {
		return nil, fmt.Errorf("%w: empty embedding or filters not allowed simultaneously", vectorstore.ErrValidation)
	}

	limit := uint64(query.TopK)
	req := &qdrant.QueryPoints{
		CollectionName: s.cfg.CollectionName,
		Limit:          &limit,
		Filter:         buildFilter(query.Filters),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	}
	if len(query.Embedding) > 0 {
		req.Query = qdrant.NewQuery(query.Embedding...)
	}

	points, err := s.api.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector entries: %w: %w", vectorstore.ErrBackend, err)
	}

	matches = make([]vectorstore.Match, 0, len(points))
	for _, point := range points {
		matches = append(matches, matchFromPoint(point, s.cfg))
	}

	s.log.Debug("query returned",
		zap.String("collection", s.cfg.CollectionName),
		zap.Int("matches", len(matches)))
	return matches, nil
}

func (s *Store) finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
