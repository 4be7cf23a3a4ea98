// ABOUTME: Tests for the event payload mapper
// ABOUTME: Round-trip fidelity, all-day handling, and defaulting rules
package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestRoundTripRequiredFields(t *testing.T) {
	original := EventFields{
		Title: "Encontro de líderes",
		Start: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC),
	}

	back := FromGoogleEvent(ToGoogleEvent(original))

	assert.Equal(t, original.Title, back.Title)
	assert.True(t, back.Start.Equal(original.Start))
	assert.True(t, back.End.Equal(original.End))
}

func TestToGoogleEventOmitsEmptyOptionals(t *testing.T) {
	event := ToGoogleEvent(EventFields{
		Title: "Reunião",
		Start: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC),
	})

	assert.Empty(t, event.Description)
	assert.Empty(t, event.Location)
	require.NotNil(t, event.Start)
	assert.Equal(t, "UTC", event.Start.TimeZone)
	assert.Equal(t, "UTC", event.End.TimeZone)
}

func TestToGoogleEventCustomTimezone(t *testing.T) {
	event := ToGoogleEvent(EventFields{
		Title:    "Reunião",
		Start:    time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		End:      time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC),
		TimeZone: "America/Sao_Paulo",
	})

	assert.Equal(t, "America/Sao_Paulo", event.Start.TimeZone)
}

func TestFromGoogleEventPrefersDateTime(t *testing.T) {
	f := FromGoogleEvent(&calendar.Event{
		Summary: "Evento",
		Start: &calendar.EventDateTime{
			Date:     "2025-01-15",
			DateTime: "2025-01-15T10:00:00Z",
		},
		End: &calendar.EventDateTime{
			DateTime: "2025-01-15T11:00:00Z",
		},
	})

	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), f.Start.UTC())
}

func TestFromGoogleEventAllDay(t *testing.T) {
	f := FromGoogleEvent(&calendar.Event{
		Summary: "Dia inteiro",
		Start:   &calendar.EventDateTime{Date: "2025-01-15"},
	})

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), f.Start)
	// Missing end falls back to start
	assert.True(t, f.End.Equal(f.Start))
}

func TestFromGoogleEventPlaceholderTitle(t *testing.T) {
	f := FromGoogleEvent(&calendar.Event{
		Start: &calendar.EventDateTime{DateTime: "2025-01-15T10:00:00Z"},
	})

	assert.Equal(t, placeholderTitle, f.Title)
}
