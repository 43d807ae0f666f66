package milvus

import (
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// TypeField is the property holding the chunk type tag. It is always written
// and always projected; same-named metadata is overwritten on write.
const TypeField = "type"

// FieldKind declares the generic type a projected output field is coerced to
// when building matches. Fields absent from a result row get the kind's zero
// default instead of failing the query.
type FieldKind int

const (
	// FieldKindString - text fields, default ""
	FieldKindString FieldKind = iota
	// FieldKindFloat - numeric fields, default 0
	FieldKindFloat
	// FieldKindInt - integer fields, default 0
	FieldKindInt
	// FieldKindBool - boolean fields, default false
	FieldKindBool
	// FieldKindFloatVector - embedding fields, default empty sequence
	FieldKindFloatVector
)

// Config holds connection and schema settings for the Milvus-backed store.
//
// Example (builder style):
//
//	cfg := milvus.DefaultConfig().
//	    WithAddress("localhost:19530").
//	    WithAPIKey(os.Getenv("MILVUS_API_KEY")).
//	    WithCollectionName("documents").
//	    WithAdditionalFields("fileName", "createdAt")
type Config struct {
	// Address of the Milvus server, e.g. "localhost:19530".
	Address string `yaml:"address" env:"MILVUS_ADDRESS"`

	// Optional authentication token for managed deployments.
	APIKey string `yaml:"api_key" env:"MILVUS_API_KEY"`

	// Optional basic credentials for self-hosted deployments.
	Username string `yaml:"username" env:"MILVUS_USERNAME"`
	Password string `yaml:"password" env:"MILVUS_PASSWORD"`

	// Collection this store operates on. Required.
	CollectionName string `yaml:"collection_name" env:"MILVUS_COLLECTION_NAME"`

	// Name of the int64 primary-key field. Defaults to "id".
	PrimaryField string `yaml:"primary_field"`

	// Name of the float-vector field. Defaults to "vector".
	VectorField string `yaml:"vector_field"`

	// Name of the field holding chunk content. Defaults to "content".
	ChunkField string `yaml:"chunk_field"`

	// Additional metadata field names to project on reads. Projected values
	// land in Match.Metadata.
	AdditionalFields []string `yaml:"additional_fields"`

	// FieldKinds maps projected field names to their expected generic kind.
	// Unlisted fields are treated as strings.
	FieldKinds map[string]FieldKind `yaml:"-"`

	// Default number of results for queries built via NewQuery. Defaults to 2.
	TopK int `yaml:"top_k"`

	// Similarity metric of the collection index. Defaults to IP.
	MetricType entity.MetricType `yaml:"metric_type"`

	// Connection establishment timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MILVUS_CONNECT_TIMEOUT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Address:        "localhost:19530",
		PrimaryField:   "id",
		VectorField:    "vector",
		ChunkField:     "content",
		TopK:           2,
		MetricType:     entity.IP,
		ConnectTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration for required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if c.CollectionName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if c.PrimaryField == "" {
		c.PrimaryField = "id"
	}
	if c.VectorField == "" {
		c.VectorField = "vector"
	}
	if c.ChunkField == "" {
		c.ChunkField = "content"
	}
	if c.TopK <= 0 {
		c.TopK = 2
	}
	if c.MetricType == "" {
		c.MetricType = entity.IP
	}
	return nil
}

// fieldKind resolves the declared kind of a projected field.
func (c *Config) fieldKind(name string) FieldKind {
	if kind, ok := c.FieldKinds[name]; ok {
		return kind
	}
	return FieldKindString
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithAddress(addr string) *Config {
	c.Address = addr
	return c
}

func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

func (c *Config) WithCredentials(username, password string) *Config {
	c.Username = username
	c.Password = password
	return c
}

func (c *Config) WithCollectionName(name string) *Config {
	c.CollectionName = name
	return c
}

func (c *Config) WithChunkField(name string) *Config {
	c.ChunkField = name
	return c
}

func (c *Config) WithPrimaryField(name string) *Config {
	c.PrimaryField = name
	return c
}

func (c *Config) WithVectorField(name string) *Config {
	c.VectorField = name
	return c
}

func (c *Config) WithAdditionalFields(names ...string) *Config {
	c.AdditionalFields = names
	return c
}

func (c *Config) WithFieldKind(name string, kind FieldKind) *Config {
	if c.FieldKinds == nil {
		c.FieldKinds = make(map[string]FieldKind)
	}
	c.FieldKinds[name] = kind
	return c
}

func (c *Config) WithTopK(topK int) *Config {
	c.TopK = topK
	return c
}

func (c *Config) WithMetricType(mt entity.MetricType) *Config {
	c.MetricType = mt
	return c
}
