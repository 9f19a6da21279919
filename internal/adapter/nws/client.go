package nws

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/thejokers69/Weather-MCP-Server/internal/domain"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
)

const tracerName = "github.com/thejokers69/Weather-MCP-Server/internal/adapter/nws"

// Endpoint labels used for metrics, spans and logs.
const (
	endpointAlerts   = "alerts"
	endpointPoints   = "points"
	endpointForecast = "forecast"
)

// Client fetches alerts and forecasts from the NWS API with bounded retries.
// It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	clock      clockwork.Clock
	tracer     trace.Tracer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces the clock used for backoff waits.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// NewClient creates an NWS API client.
func NewClient(cfg Config, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		clock:      clockwork.NewRealClock(),
		tracer:     otel.Tracer(tracerName),
		metrics:    metrics,
		logger:     logger,
	}
	c.cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAlerts returns the active alerts for a state.
func (c *Client) FetchAlerts(ctx context.Context, state domain.StateCode) (domain.AlertsPayload, error) {
	u := c.cfg.BaseURL + "/alerts?" + url.Values{"area": {string(state)}}.Encode()

	resp, err := getJSON[alertsResponse](ctx, c, endpointAlerts, u)
	if err != nil {
		return domain.AlertsPayload{}, err
	}

	alerts := make([]domain.AlertRecord, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		alerts = append(alerts, domain.AlertRecord{
			Event:    p.Event,
			AreaDesc: p.AreaDesc,
			Severity: p.Severity,
			Status:   p.Status,
			Headline: p.Headline,
		})
	}
	return domain.AlertsPayload{Features: alerts}, nil
}

// FetchGridPoint resolves a coordinate to its grid point. A point outside NWS
// coverage yields an empty ForecastURL, not an error.
func (c *Client) FetchGridPoint(ctx context.Context, coords domain.Coordinates) (domain.GridPointResult, error) {
	u := c.cfg.BaseURL + "/points/" + domain.FormatPoint(coords)

	resp, err := getJSON[pointsResponse](ctx, c, endpointPoints, u)
	if err != nil {
		return domain.GridPointResult{}, err
	}
	return domain.GridPointResult{ForecastURL: resp.Properties.Forecast}, nil
}

// FetchForecast loads the forecast at the URL returned by FetchGridPoint.
func (c *Client) FetchForecast(ctx context.Context, forecastURL string) (domain.ForecastPayload, error) {
	resp, err := getJSON[forecastResponse](ctx, c, endpointForecast, forecastURL)
	if err != nil {
		return domain.ForecastPayload{}, err
	}

	periods := make([]domain.ForecastPeriod, 0, len(resp.Properties.Periods))
	for _, p := range resp.Properties.Periods {
		periods = append(periods, domain.ForecastPeriod{
			Name:            p.Name,
			Temperature:     p.Temperature,
			TemperatureUnit: p.TemperatureUnit,
			WindSpeed:       p.WindSpeed,
			WindDirection:   p.WindDirection,
			ShortForecast:   p.ShortForecast,
		})
	}
	return domain.ForecastPayload{Periods: periods}, nil
}

// NWS API response types.

type alertsResponse struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	Properties alertProperties `json:"properties"`
}

type alertProperties struct {
	Event    string `json:"event"`
	AreaDesc string `json:"areaDesc"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Headline string `json:"headline"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []period `json:"periods"`
	} `json:"properties"`
}

type period struct {
	Name            string   `json:"name"`
	Temperature     *float64 `json:"temperature"`
	TemperatureUnit string   `json:"temperatureUnit"`
	WindSpeed       string   `json:"windSpeed"`
	WindDirection   string   `json:"windDirection"`
	ShortForecast   string   `json:"shortForecast"`
}
