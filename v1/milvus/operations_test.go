package milvus

import (
	"context"
	"errors"
	"testing"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

var errBoom = errors.New("boom")

type upsertCall struct {
	collection string
	columns    []entity.Column
}

type searchCall struct {
	expr         string
	outputFields []string
	vectors      []entity.Vector
	topK         int
}

type queryCall struct {
	expr         string
	outputFields []string
}

// fakeAPI implements the api interface in-memory so facade behavior can be
// tested without a running Milvus instance.
type fakeAPI struct {
	upserts     []upsertCall
	failUpsert  int // fail the n-th upsert (1-based), 0 = never
	deletes     []entity.Column
	deleteErr   error
	loadCalls   int
	loadErr     error
	searches    []searchCall
	searchRes   []milvusclient.SearchResult
	searchErr   error
	queries     []queryCall
	queryRes    milvusclient.ResultSet
	queryErr    error
	closeCalls  int
	hasColl     bool
	hasCollErr  error
}

func (f *fakeAPI) HasCollection(_ context.Context, _ string) (bool, error) {
	return f.hasColl, f.hasCollErr
}

func (f *fakeAPI) LoadCollection(_ context.Context, _ string, _ bool, _ ...milvusclient.LoadCollectionOption) error {
	f.loadCalls++
	return f.loadErr
}

func (f *fakeAPI) Upsert(_ context.Context, collName string, _ string, columns ...entity.Column) (entity.Column, error) {
	f.upserts = append(f.upserts, upsertCall{collection: collName, columns: columns})
	if f.failUpsert > 0 && len(f.upserts) == f.failUpsert {
		return nil, errBoom
	}
	return nil, nil
}

func (f *fakeAPI) DeleteByPks(_ context.Context, _ string, _ string, ids entity.Column) error {
	f.deletes = append(f.deletes, ids)
	return f.deleteErr
}

func (f *fakeAPI) Search(_ context.Context, _ string, _ []string, expr string, outputFields []string,
	vectors []entity.Vector, _ string, _ entity.MetricType, topK int,
	_ entity.SearchParam, _ ...milvusclient.SearchQueryOptionFunc) ([]milvusclient.SearchResult, error) {
	f.searches = append(f.searches, searchCall{expr: expr, outputFields: outputFields, vectors: vectors, topK: topK})
	return f.searchRes, f.searchErr
}

func (f *fakeAPI) Query(_ context.Context, _ string, _ []string, expr string,
	outputFields []string, _ ...milvusclient.SearchQueryOptionFunc) (milvusclient.ResultSet, error) {
	f.queries = append(f.queries, queryCall{expr: expr, outputFields: outputFields})
	return f.queryRes, f.queryErr
}

func (f *fakeAPI) Close() error {
	f.closeCalls++
	return nil
}

func newTestStore(fake *fakeAPI, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig().WithCollectionName("documents")
	}
	return &Store{
		api:    fake,
		cfg:    cfg,
		log:    zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
}

// ── Add ──────────────────────────────────────────────────────────────────────

func TestAdd_EmptyBatchIsNoOp(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	require.NoError(t, store.Add(context.Background(), nil))
	assert.Empty(t, fake.upserts)
}

func TestAdd_UpsertsOneCallPerEntry(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	entries := []vectorstore.Entry{
		{ID: "1", Embedding: []float32{0.1}, Chunk: vectorstore.Chunk{Type: "text", Content: "a"}},
		{ID: "2", Embedding: []float32{0.2}, Chunk: vectorstore.Chunk{Type: "text", Content: "b"}},
	}

	require.NoError(t, store.Add(context.Background(), entries))
	require.Len(t, fake.upserts, 2)
	assert.Equal(t, "documents", fake.upserts[0].collection)

	pkCol, ok := fake.upserts[0].columns[0].(*entity.ColumnInt64)
	require.True(t, ok)
	assert.Equal(t, []int64{1}, pkCol.Data())
}

func TestAdd_ConversionFailureAbortsWithoutBackendCall(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	err := store.Add(context.Background(), []vectorstore.Entry{{ID: "not-a-number"}})
	require.Error(t, err)
	assert.True(t, vectorstore.IsConversionError(err))
	assert.Contains(t, err.Error(), "failed to add vector entries")
	assert.Empty(t, fake.upserts)
}

func TestAdd_FirstBackendFailureAbortsRemainingEntries(t *testing.T) {
	fake := &fakeAPI{failUpsert: 2}
	store := newTestStore(fake, nil)

	entries := []vectorstore.Entry{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	err := store.Add(context.Background(), entries)

	require.Error(t, err)
	assert.True(t, vectorstore.IsBackendError(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failed to add vector entries")
	// Entry 3 never reaches the backend
	assert.Len(t, fake.upserts, 2)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestDelete_NoIdsIsNoOp(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	require.NoError(t, store.Delete(context.Background()))
	assert.Empty(t, fake.deletes)
}

func TestDelete_ConvertsAllIdsBeforeBackendCall(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	err := store.Delete(context.Background(), "1", "abc")
	require.Error(t, err)
	assert.True(t, vectorstore.IsConversionError(err))
	assert.False(t, vectorstore.IsBackendError(err))
	assert.Empty(t, fake.deletes)
}

func TestDelete_IssuesSingleBackendDelete(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	require.NoError(t, store.Delete(context.Background(), "1", "2", "3"))
	require.Len(t, fake.deletes, 1)

	idCol, ok := fake.deletes[0].(*entity.ColumnInt64)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, idCol.Data())
}

func TestDelete_BackendFailureIsWrapped(t *testing.T) {
	fake := &fakeAPI{deleteErr: errBoom}
	store := newTestStore(fake, nil)

	err := store.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, vectorstore.IsBackendError(err))
	assert.Contains(t, err.Error(), "failed to delete vector entries")
}

// ── Query ────────────────────────────────────────────────────────────────────

func TestQuery_ZeroTopKFailsBeforeBackendCall(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	_, err := store.Query(context.Background(), vectorstore.Query{
		TopK:      0,
		Embedding: []float32{0.1},
	})
	require.Error(t, err)
	assert.True(t, vectorstore.IsValidationError(err))
	assert.Zero(t, fake.loadCalls)
	assert.Empty(t, fake.searches)
}

func TestQuery_MissingEmbeddingAndFiltersFails(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	_, err := store.Query(context.Background(), vectorstore.Query{TopK: 5})
	require.Error(t, err)
	assert.True(t, vectorstore.IsValidationError(err))
	assert.Contains(t, err.Error(), "empty embedding or filters not allowed simultaneously")
	assert.Zero(t, fake.loadCalls)
}

func TestQuery_SimilaritySearch(t *testing.T) {
	fake := &fakeAPI{
		searchRes: []milvusclient.SearchResult{{
			ResultCount: 2,
			IDs:         entity.NewColumnInt64("id", []int64{10, 11}),
			Fields: milvusclient.ResultSet{
				entity.NewColumnVarChar("type", []string{"text", "text"}),
				entity.NewColumnVarChar("content", []string{"first", "second"}),
			},
			Scores: []float32{0.9, 0.7},
		}},
	}
	store := newTestStore(fake, nil)

	matches, err := store.Query(context.Background(), vectorstore.Query{
		Embedding: []float32{0.1, 0.2},
		TopK:      2,
		Filters: vectorstore.And(
			vectorstore.NewFilter("fileName", vectorstore.FilterOperatorEq, "test.txt"),
		),
	})
	require.NoError(t, err)

	// Collection is loaded before dispatch, filter compiled into the expr
	assert.Equal(t, 1, fake.loadCalls)
	require.Len(t, fake.searches, 1)
	assert.Equal(t, ` fileName == "test.txt" `, fake.searches[0].expr)
	assert.Equal(t, 2, fake.searches[0].topK)

	require.Len(t, matches, 2)
	assert.Equal(t, "10", matches[0].ID)
	assert.Equal(t, float32(0.9), matches[0].Score)
	assert.Equal(t, "first", matches[0].Chunk.Content)
	assert.Equal(t, "11", matches[1].ID)
	assert.Equal(t, float32(0.7), matches[1].Score)
}

func TestQuery_WithoutFiltersSendsEmptyExpr(t *testing.T) {
	fake := &fakeAPI{}
	store := newTestStore(fake, nil)

	_, err := store.Query(context.Background(), vectorstore.Query{
		Embedding: []float32{0.5},
		TopK:      1,
	})
	require.NoError(t, err)
	require.Len(t, fake.searches, 1)
	assert.Equal(t, "", fake.searches[0].expr)
}

func TestQuery_FilterOnlyLookup(t *testing.T) {
	fake := &fakeAPI{
		queryRes: milvusclient.ResultSet{
			entity.NewColumnInt64("id", []int64{7}),
			entity.NewColumnVarChar("type", []string{"text"}),
			entity.NewColumnVarChar("content", []string{"only"}),
		},
	}
	store := newTestStore(fake, nil)

	matches, err := store.Query(context.Background(), vectorstore.Query{
		TopK: 5,
		Filters: vectorstore.And(
			vectorstore.NewFilter("fileName", vectorstore.FilterOperatorEq, "test.txt"),
		),
	})
	require.NoError(t, err)

	require.Len(t, fake.queries, 1)
	assert.Empty(t, fake.searches)
	assert.Equal(t, ` fileName == "test.txt" `, fake.queries[0].expr)
	assert.Contains(t, fake.queries[0].outputFields, "id")

	require.Len(t, matches, 1)
	assert.Equal(t, "7", matches[0].ID)
	assert.Equal(t, "only", matches[0].Chunk.Content)
	// No ranking on the filter-only path
	assert.Equal(t, float32(0), matches[0].Score)
}

func TestQuery_BackendFailureIsWrapped(t *testing.T) {
	fake := &fakeAPI{searchErr: errBoom}
	store := newTestStore(fake, nil)

	_, err := store.Query(context.Background(), vectorstore.Query{
		Embedding: []float32{0.1},
		TopK:      1,
	})
	require.Error(t, err)
	assert.True(t, vectorstore.IsBackendError(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failed to query vector entries")
}

func TestQuery_LoadFailureIsWrapped(t *testing.T) {
	fake := &fakeAPI{loadErr: errBoom}
	store := newTestStore(fake, nil)

	_, err := store.Query(context.Background(), vectorstore.Query{
		Embedding: []float32{0.1},
		TopK:      1,
	})
	require.Error(t, err)
	assert.True(t, vectorstore.IsBackendError(err))
	assert.Empty(t, fake.searches)
}

func TestNewQuery_AppliesConfiguredDefaultTopK(t *testing.T) {
	store := newTestStore(&fakeAPI{}, DefaultConfig().WithCollectionName("documents").WithTopK(8))

	query := store.NewQuery()
	assert.Equal(t, 8, query.TopK)
}
