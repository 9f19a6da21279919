package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thejokers69/Weather-MCP-Server/internal/domain"
)

const (
	headerUserAgent = "User-Agent"
	headerAccept    = "Accept"
	mediaGeoJSON    = "application/geo+json"
)

// getJSON GETs u and decodes the body into a T, retrying with a fixed delay.
// Each attempt decodes into a fresh zero T, so fields from a body that failed
// part-way never leak into a later success.
//
// Transport and decode failures retry until the last attempt, then surface as
// NETWORK_ERROR. A retryable status (5xx, 429) retries the same way and
// surfaces as API_REQUEST_FAILED; any other non-2xx status fails at once
// without waiting.
func getJSON[T any](ctx context.Context, c *Client, endpoint, u string) (T, error) {
	var zero T
	ctx, span := c.tracer.Start(ctx, "nws."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", u)),
	)
	defer span.End()

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		span.SetAttributes(attribute.Int("nws.attempts", attempt))

		var out T
		werr := c.attempt(ctx, endpoint, u, &out)
		if werr == nil {
			return out, nil
		}
		if !werr.Retryable || attempt == c.cfg.MaxAttempts {
			return zero, failSpan(span, werr)
		}

		c.logger.Warn("nws request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"max_attempts", c.cfg.MaxAttempts,
			"delay", c.cfg.RetryDelay,
			"error", werr,
		)
		c.metrics.UpstreamRetries.WithLabelValues(endpoint).Inc()

		if err := c.wait(ctx); err != nil {
			return zero, failSpan(span, domain.NewNetworkError(err))
		}
	}

	// Only reachable with MaxAttempts < 1.
	return zero, failSpan(span, domain.NewMaxRetriesExceeded(c.cfg.MaxAttempts))
}

// attempt performs one request and decodes a 2xx body into out. The returned
// error's Retryable flag decides whether the loop tries again.
func (c *Client) attempt(ctx context.Context, endpoint, u string, out any) *domain.WeatherError {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.WeatherError{
			Code:    domain.CodeNetworkError,
			Message: fmt.Sprintf("create request: %v", err),
			Err:     err,
		}
	}
	req.Header.Set(headerUserAgent, c.cfg.UserAgent)
	req.Header.Set(headerAccept, mediaGeoJSON)

	start := c.clock.Now()
	defer func() {
		c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(c.clock.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "network_error").Inc()
		return domain.NewNetworkError(fmt.Errorf("%s request: %w", endpoint, err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "http_error").Inc()
		return domain.NewAPIRequestFailed(resp.StatusCode, isRetryableStatus(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "network_error").Inc()
		return domain.NewNetworkError(fmt.Errorf("decode %s response: %w", endpoint, err))
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

// wait blocks for the retry delay or until ctx is done.
func (c *Client) wait(ctx context.Context) error {
	if c.cfg.RetryDelay <= 0 {
		return ctx.Err()
	}

	timer := c.clock.NewTimer(c.cfg.RetryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// isRetryableStatus reports whether a non-2xx status may succeed on retry.
func isRetryableStatus(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

func failSpan(span trace.Span, werr *domain.WeatherError) error {
	span.RecordError(werr)
	span.SetStatus(codes.Error, werr.Message)
	span.SetAttributes(attribute.String("nws.error_code", string(werr.Code)))
	if werr.Status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", werr.Status))
	}
	return werr
}
