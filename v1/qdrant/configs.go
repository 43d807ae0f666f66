package qdrant

import (
	"fmt"
	"time"
)

// TypeField is the payload key holding the chunk type tag.
const TypeField = "type"

// Config holds connection and schema settings for the Qdrant-backed store.
//
// Example:
//
//	cfg := qdrant.DefaultConfig().
//	    WithEndpoint("localhost", 6334).
//	    WithCollectionName("documents")
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	APIKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Collection this store operates on. Required.
	CollectionName string `yaml:"collection_name" env:"QDRANT_COLLECTION_NAME"`

	// Payload key holding chunk content. Defaults to "content".
	ChunkField string `yaml:"chunk_field"`

	// Additional payload keys to project on reads.
	AdditionalFields []string `yaml:"additional_fields"`

	// Default number of results for queries built via NewQuery. Defaults to 2.
	TopK int `yaml:"top_k"`

	// Connection establishment timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"QDRANT_CONNECT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:       "localhost",
		Port:           6334,
		ChunkField:     "content",
		TopK:           2,
		ConnectTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration for required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if c.CollectionName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.ChunkField == "" {
		c.ChunkField = "content"
	}
	if c.TopK <= 0 {
		c.TopK = 2
	}
	return nil
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithEndpoint(host string, port int) *Config {
	c.Endpoint = host
	c.Port = port
	return c
}

func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
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

func (c *Config) WithAdditionalFields(names ...string) *Config {
	c.AdditionalFields = names
	return c
}

func (c *Config) WithTopK(topK int) *Config {
	c.TopK = topK
	return c
}
