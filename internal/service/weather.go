package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/thejokers69/Weather-MCP-Server/internal/domain"
	"github.com/thejokers69/Weather-MCP-Server/internal/observability"
)

// Upstream fetches raw weather data. nws.Client implements it.
type Upstream interface {
	FetchAlerts(ctx context.Context, state domain.StateCode) (domain.AlertsPayload, error)
	FetchGridPoint(ctx context.Context, coords domain.Coordinates) (domain.GridPointResult, error)
	FetchForecast(ctx context.Context, forecastURL string) (domain.ForecastPayload, error)
}

// EventRecorder receives one LookupEvent per finished lookup.
type EventRecorder interface {
	Record(ctx context.Context, event domain.LookupEvent) error
}

// Weather validates tool input, fetches from the upstream and formats the
// result as text. Every returned error is a *domain.WeatherError.
type Weather struct {
	upstream Upstream
	recorder EventRecorder
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	ready    atomic.Bool
}

// Option customizes a Weather service.
type Option func(*Weather)

// WithEventRecorder publishes a LookupEvent for every lookup.
func WithEventRecorder(r EventRecorder) Option {
	return func(w *Weather) { w.recorder = r }
}

// WithClock replaces the clock used to time lookups.
func WithClock(c clockwork.Clock) Option {
	return func(w *Weather) { w.clock = c }
}

// New creates a Weather service.
func New(upstream Upstream, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Weather {
	w := &Weather{
		upstream: upstream,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// MarkStarted flags the service ready once its transport is accepting calls.
func (w *Weather) MarkStarted() {
	w.ready.Store(true)
}

// CheckReadiness returns nil once the transport has started or a lookup has
// succeeded.
func (w *Weather) CheckReadiness(_ context.Context) error {
	if !w.ready.Load() {
		return errors.New("weather service has not started serving yet")
	}
	return nil
}

// GetAlerts returns the formatted active alerts for a state code given in any
// case.
func (w *Weather) GetAlerts(ctx context.Context, stateInput string) (string, error) {
	start := w.clock.Now()

	state, err := domain.ValidateStateCode(stateInput)
	if err != nil {
		w.finish(ctx, domain.CapabilityAlerts, stateInput, start, err)
		return "", err
	}

	payload, err := w.upstream.FetchAlerts(ctx, state)
	if err != nil {
		err = domain.WrapRetrievalFailure(domain.CodeAlertsRetrievalFailed, err)
		w.finish(ctx, domain.CapabilityAlerts, string(state), start, err)
		return "", err
	}

	w.finish(ctx, domain.CapabilityAlerts, string(state), start, nil)
	return domain.FormatAlerts(state, payload.Features), nil
}

// GetForecast resolves the grid point for a coordinate and returns its
// formatted forecast. A point without a forecast link fails with
// FORECAST_URL_MISSING before any second request is made.
func (w *Weather) GetForecast(ctx context.Context, lat, lon float64) (string, error) {
	start := w.clock.Now()

	coords, err := domain.ValidateCoordinates(lat, lon)
	if err != nil {
		w.finish(ctx, domain.CapabilityForecast, fmt.Sprintf("%v,%v", lat, lon), start, err)
		return "", err
	}
	input := domain.FormatPoint(coords)

	periods, err := w.forecast(ctx, coords)
	if err != nil {
		w.finish(ctx, domain.CapabilityForecast, input, start, err)
		return "", err
	}

	w.finish(ctx, domain.CapabilityForecast, input, start, nil)
	return domain.FormatForecast(coords, periods), nil
}

func (w *Weather) forecast(ctx context.Context, coords domain.Coordinates) ([]domain.ForecastPeriod, error) {
	point, err := w.upstream.FetchGridPoint(ctx, coords)
	if err != nil {
		return nil, domain.WrapRetrievalFailure(domain.CodeForecastRetrievalFailed, err)
	}
	if point.ForecastURL == "" {
		return nil, domain.NewForecastURLMissing(coords)
	}

	payload, err := w.upstream.FetchForecast(ctx, point.ForecastURL)
	if err != nil {
		return nil, domain.WrapRetrievalFailure(domain.CodeForecastRetrievalFailed, err)
	}
	return payload.Periods, nil
}

// finish records metrics, logs failures and hands the lookup event to the
// recorder. Recorder errors are logged only.
func (w *Weather) finish(ctx context.Context, capability domain.Capability, input string, start time.Time, err error) {
	elapsed := w.clock.Since(start)
	outcome := domain.Outcome(err)
	tool := string(capability)

	w.metrics.ToolCalls.WithLabelValues(tool, outcome).Inc()
	w.metrics.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())

	if err != nil {
		attrs := []any{"capability", capability, "input", input, "code", outcome, "duration", elapsed}
		if we, ok := domain.AsWeatherError(err); ok {
			attrs = append(attrs, "status", we.Status, "retryable", we.Retryable)
		}
		w.logger.Warn("lookup failed", append(attrs, "error", err)...)
	} else {
		w.ready.Store(true)
		w.logger.Debug("lookup completed", "capability", capability, "input", input, "duration", elapsed)
	}

	if w.recorder == nil {
		return
	}
	if rerr := w.recorder.Record(ctx, domain.NewLookupEvent(capability, input, elapsed, err)); rerr != nil {
		w.logger.Error("record lookup event failed", "capability", capability, "error", rerr)
	}
}
