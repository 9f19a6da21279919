package domain

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLookupEvent(t *testing.T) {
	frozen := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("success", func(t *testing.T) {
		e := NewLookupEvent(CapabilityAlerts, "CA", 250*time.Millisecond, nil)

		_, err := uuid.Parse(e.ID)
		require.NoError(t, err)
		assert.Equal(t, CapabilityAlerts, e.Capability)
		assert.Equal(t, "CA", e.Input)
		assert.Equal(t, OutcomeOK, e.Outcome)
		assert.Equal(t, 250*time.Millisecond, e.Duration)
		assert.Equal(t, frozen, e.RecordedAt)
		assert.Zero(t, e.Status)
	})

	t.Run("weather error", func(t *testing.T) {
		e := NewLookupEvent(CapabilityForecast, "40.7128,-74.0060", time.Second,
			NewAPIRequestFailed(http.StatusTooManyRequests, true))

		assert.Equal(t, string(CodeAPIRequestFailed), e.Outcome)
		assert.Equal(t, http.StatusTooManyRequests, e.Status)
		assert.True(t, e.Retryable)
	})

	t.Run("unknown error", func(t *testing.T) {
		e := NewLookupEvent(CapabilityForecast, "x", 0, errors.New("boom"))
		assert.Equal(t, OutcomeUnknown, e.Outcome)
	})

	t.Run("unique ids", func(t *testing.T) {
		a := NewLookupEvent(CapabilityAlerts, "CA", 0, nil)
		b := NewLookupEvent(CapabilityAlerts, "CA", 0, nil)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
