package milvus

import (
	"context"
	"fmt"
	"sync"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// tracerName identifies spans emitted by this package.
const tracerName = "github.com/Aleph-Alpha/vecdb/v1/milvus"

// api is the subset of the Milvus SDK client used by the store. It exists so
// unit tests can substitute a fake without a running Milvus instance; the SDK
// client satisfies it directly.
type api interface {
	HasCollection(ctx context.Context, collName string) (bool, error)
	LoadCollection(ctx context.Context, collName string, async bool, opts ...milvusclient.LoadCollectionOption) error
	Upsert(ctx context.Context, collName string, partitionName string, columns ...entity.Column) (entity.Column, error)
	DeleteByPks(ctx context.Context, collName string, partitionName string, ids entity.Column) error
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string,
		vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int,
		sp entity.SearchParam, opts ...milvusclient.SearchQueryOptionFunc) ([]milvusclient.SearchResult, error)
	Query(ctx context.Context, collectionName string, partitionNames []string, expr string,
		outputFields []string, opts ...milvusclient.SearchQueryOptionFunc) (milvusclient.ResultSet, error)
	Close() error
}

// StoreParams groups the dependencies of NewStore. The struct embeds fx.In so
// the constructor can be used directly with the FXModule, but it works just as
// well constructed by hand.
type StoreParams struct {
	fx.In

	Config *Config
	Logger *zap.Logger `optional:"true"`

	// Registerer receives the store's operation metrics. Optional; metrics
	// are disabled when unset.
	Registerer prometheus.Registerer `optional:"true"`
}

// Store implements vectorstore.Store against a Milvus collection.
//
// The body of every public operation is serialized on a per-instance mutex:
// while one operation is in flight, another call on the same instance waits
// rather than interleaving against the backend.
type Store struct {
	api    api
	cfg    *Config
	log    *zap.Logger
	obs    *observer
	tracer trace.Tracer

	mu sync.Mutex
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore constructs the Milvus client and validates connectivity and the
// configured collection. Construction failures are wrapped in
// vectorstore.ErrInitialization and are fatal to store creation.
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

	ctx, cancel := context.WithTimeout(context.Background(), p.Config.ConnectTimeout)
	defer cancel()

	c, err := milvusclient.NewClient(ctx, milvusclient.Config{
		Address:  p.Config.Address,
		Username: p.Config.Username,
		Password: p.Config.Password,
		APIKey:   p.Config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %v", vectorstore.ErrInitialization, p.Config.Address, err)
	}

	s := &Store{
		api:    c,
		cfg:    p.Config,
		log:    log,
		obs:    newObserver(p.Registerer),
		tracer: otel.Tracer(tracerName),
	}

	if err := s.checkCollection(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info("milvus store connected",
		zap.String("address", p.Config.Address),
		zap.String("collection", p.Config.CollectionName))
	return s, nil
}

// checkCollection fails fast when the configured collection is unreachable or
// missing, so misconfiguration surfaces at startup instead of first use.
func (s *Store) checkCollection(ctx context.Context) error {
	ok, err := s.api.HasCollection(ctx, s.cfg.CollectionName)
	if err != nil {
		return fmt.Errorf("%w: checking collection %q: %v", vectorstore.ErrInitialization, s.cfg.CollectionName, err)
	}
	if !ok {
		return fmt.Errorf("%w: collection %q does not exist", vectorstore.ErrInitialization, s.cfg.CollectionName)
	}
	return nil
}

// NewQuery returns a query pre-filled with the configured default TopK.
// Callers overwrite fields as needed before passing it to Query.
func (s *Store) NewQuery() vectorstore.Query {
	return vectorstore.Query{TopK: s.cfg.TopK}
}

// Close shuts down the underlying SDK client.
func (s *Store) Close() error {
	return s.api.Close()
}
