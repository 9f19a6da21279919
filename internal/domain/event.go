package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capability names the lookup a tool invocation performed.
type Capability string

const (
	CapabilityAlerts   Capability = "alerts"
	CapabilityForecast Capability = "forecast"
)

// OutcomeOK is the LookupEvent outcome for a successful lookup.
const OutcomeOK = "ok"

// LookupEvent records one completed tool invocation for downstream consumers.
type LookupEvent struct {
	ID         string        `json:"id"`
	Capability Capability    `json:"capability"`
	Input      string        `json:"input"`
	Outcome    string        `json:"outcome"` // OutcomeOK or an error Code
	Status     int           `json:"status,omitempty"`
	Retryable  bool          `json:"retryable,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// NewLookupEvent builds the event for a finished lookup. A nil err yields
// OutcomeOK; a *WeatherError contributes its code, status and retry flag.
func NewLookupEvent(capability Capability, input string, elapsed time.Duration, err error) LookupEvent {
	e := LookupEvent{
		ID:         uuid.NewString(),
		Capability: capability,
		Input:      input,
		Outcome:    Outcome(err),
		Duration:   elapsed,
		RecordedAt: clock.Now().UTC(),
	}
	if we, ok := AsWeatherError(err); ok {
		e.Status = we.Status
		e.Retryable = we.Retryable
	}
	return e
}

// OutcomeUnknown labels an error outside the WeatherError taxonomy.
const OutcomeUnknown = "UNKNOWN"

// Outcome returns the event and metrics label for a lookup result.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if we, ok := AsWeatherError(err); ok {
		return string(we.Code)
	}
	return OutcomeUnknown
}
