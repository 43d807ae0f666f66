package qdrant

import (
	"context"
	"fmt"
	"sync"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// tracerName identifies spans emitted by this package.
const tracerName = "github.com/Aleph-Alpha/vecdb/v1/qdrant"

// api is the subset of the Qdrant SDK client used by the store, narrowed so
// unit tests can substitute a fake. The SDK client satisfies it directly.
type api interface {
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Delete(ctx context.Context, req *qdrant.DeletePoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	Close() error
}

// StoreParams groups the dependencies of NewStore.
type StoreParams struct {
	fx.In

	Config *Config
	Logger *zap.Logger `optional:"true"`
}

// Store implements vectorstore.Store against a Qdrant collection.
// Operations are serialized on a per-instance mutex, matching the behavior of
// the Milvus adapter.
type Store struct {
	api    api
	cfg    *Config
	log    *zap.Logger
	tracer trace.Tracer

	mu sync.Mutex
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore constructs the Qdrant client and validates connectivity with a
// health check. The Qdrant Go SDK creates lightweight gRPC connections, so
// failing fast here is cheap.
func NewStore(p StoreParams) (*Store, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("%w: config is required", vectorstore.ErrInitialization)
	}
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", vectorstore.ErrInitialization, err)
	}

	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c, err := qdrant.NewClient(&qdrant.Config{
		Host:                   p.Config.Endpoint,
		Port:                   p.Config.Port,
		APIKey:                 p.Config.APIKey,
		SkipCompatibilityCheck: !p.Config.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: initializing client: %v", vectorstore.ErrInitialization, err)
	}

	s := &Store{
		api:    c,
		cfg:    p.Config,
		log:    log,
		tracer: otel.Tracer(tracerName),
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.Config.ConnectTimeout)
	defer cancel()

	if _, err := s.api.HealthCheck(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%w: health check failed: %v", vectorstore.ErrInitialization, err)
	}

	log.Info("qdrant store connected",
		zap.String("endpoint", p.Config.Endpoint),
		zap.Int("port", p.Config.Port),
		zap.String("collection", p.Config.CollectionName))
	return s, nil
}

// NewQuery returns a query pre-filled with the configured default TopK.
func (s *Store) NewQuery() vectorstore.Query {
	return vectorstore.Query{TopK: s.cfg.TopK}
}

// Close shuts down the underlying SDK client.
func (s *Store) Close() error {
	return s.api.Close()
}
