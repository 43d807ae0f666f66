package logger

// Level selects the minimum severity that gets logged.
type Level string

const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config holds the logger settings.
type Config struct {
	// Minimum severity to log. Defaults to Info.
	Level Level `yaml:"level" env:"ZAP_LOGGER_LEVEL"`

	// Name of the service emitting the logs, added to every entry.
	ServiceName string `yaml:"service_name" env:"LOGGER_SERVICE_NAME"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{Level: Info}
}
