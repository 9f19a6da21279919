package domain

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a WeatherError.
type Code string

const (
	CodeInvalidStateCode        Code = "INVALID_STATE_CODE"
	CodeInvalidLatitude         Code = "INVALID_LATITUDE"
	CodeInvalidLongitude        Code = "INVALID_LONGITUDE"
	CodeNetworkError            Code = "NETWORK_ERROR"
	CodeAPIRequestFailed        Code = "API_REQUEST_FAILED"
	CodeMaxRetriesExceeded      Code = "MAX_RETRIES_EXCEEDED"
	CodeForecastURLMissing      Code = "FORECAST_URL_MISSING"
	CodeAlertsRetrievalFailed   Code = "ALERTS_RETRIEVAL_FAILED"
	CodeForecastRetrievalFailed Code = "FORECAST_RETRIEVAL_FAILED"
)

// WeatherError is the only error type returned across the domain, client and
// service boundaries.
type WeatherError struct {
	Code      Code
	Message   string
	Status    int // upstream HTTP status, 0 when not applicable
	Retryable bool
	Err       error
}

func (e *WeatherError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WeatherError) Unwrap() error {
	return e.Err
}

// AsWeatherError reports whether err is, or wraps, a *WeatherError.
func AsWeatherError(err error) (*WeatherError, bool) {
	var we *WeatherError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// NewNetworkError reports a transport-level failure after retries ran out.
func NewNetworkError(err error) *WeatherError {
	return &WeatherError{
		Code:      CodeNetworkError,
		Message:   fmt.Sprintf("network error: %v", err),
		Retryable: true,
		Err:       err,
	}
}

// NewAPIRequestFailed reports a non-2xx upstream response.
func NewAPIRequestFailed(status int, retryable bool) *WeatherError {
	return &WeatherError{
		Code:      CodeAPIRequestFailed,
		Message:   fmt.Sprintf("upstream returned HTTP status %d", status),
		Status:    status,
		Retryable: retryable,
	}
}

// NewMaxRetriesExceeded reports an attempt loop that ended without an outcome.
func NewMaxRetriesExceeded(attempts int) *WeatherError {
	return &WeatherError{
		Code:      CodeMaxRetriesExceeded,
		Message:   fmt.Sprintf("request failed after %d attempts", attempts),
		Retryable: true,
	}
}

// NewForecastURLMissing reports a grid point that carries no forecast link.
func NewForecastURLMissing(c Coordinates) *WeatherError {
	return &WeatherError{
		Code:    CodeForecastURLMissing,
		Message: fmt.Sprintf("no forecast URL for point %s", FormatPoint(c)),
	}
}

// WrapRetrievalFailure passes typed errors through unchanged and wraps
// anything else under code, keeping the original message.
func WrapRetrievalFailure(code Code, err error) error {
	if err == nil {
		return nil
	}
	if we, ok := AsWeatherError(err); ok {
		return we
	}
	return &WeatherError{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}
