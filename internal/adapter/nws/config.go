package nws

import "time"

// Upstream defaults. They are process-wide constants, not environment settings.
const (
	DefaultBaseURL     = "https://api.weather.gov"
	DefaultUserAgent   = "weather-app/1.0"
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 1000 * time.Millisecond

	// DefaultRequestTimeout bounds a single attempt, including reading the body.
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds the upstream settings. It is built once at startup and never
// mutated; the Client keeps its own copy.
type Config struct {
	BaseURL     string
	UserAgent   string
	MaxAttempts int
	RetryDelay  time.Duration

	// RequestTimeout is applied per attempt. A timed-out attempt is a
	// retryable NETWORK_ERROR. Zero disables it.
	RequestTimeout time.Duration
}

// DefaultConfig returns the settings for the public NWS API.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,

		RequestTimeout: DefaultRequestTimeout,
	}
}
