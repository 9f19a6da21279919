package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config holds process settings, populated from environment variables.
// Upstream NWS settings are fixed in nws.DefaultConfig and not read here.
type Config struct {
	LogLevel        string        `validate:"oneof=debug info warn warning error"`
	LogFormat       string        `validate:"oneof=json text"`
	HTTPAddr        string        // empty disables the health/metrics server
	ShutdownTimeout time.Duration `validate:"gt=0"`

	MCPTransport string `validate:"oneof=stdio sse"`
	MCPSSEAddr   string `validate:"required_if=MCPTransport sse"`

	// Lookup-event stream.
	KafkaBrokers []string
	KafkaEnabled bool
	KafkaTopic   string `validate:"required_if=KafkaEnabled true"`

	OTLPEndpoint string `validate:"omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		HTTPAddr:        envOrDefaultAllowEmpty("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
		MCPTransport:    strings.ToLower(sharedcfg.EnvOrDefault("MCP_TRANSPORT", TransportStdio)),
		MCPSSEAddr:      sharedcfg.EnvOrDefault("MCP_SSE_ADDR", ":8081"),
		KafkaBrokers:    brokers,
		KafkaEnabled:    kafkaEnabled,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weather-lookups"),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values, including ones overridden after Load.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	return nil
}

// envOrDefaultAllowEmpty returns def only when key is unset, so an explicitly
// empty value can switch a listener off.
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
