package metrics

// Config holds the settings of the metrics endpoint.
type Config struct {
	// Listen address of the scrape endpoint, e.g. ":9090".
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// Service label applied to every metric emitted through the registry.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`

	// Register Go runtime, process, and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		EnableDefaultCollectors: true,
	}
}
