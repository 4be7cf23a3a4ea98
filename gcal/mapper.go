// ABOUTME: Bidirectional mapping between local event fields and calendar.Event
// ABOUTME: Pure functions; no network or storage access
package gcal

import (
	"time"

	"google.golang.org/api/calendar/v3"
)

// placeholderTitle is used when a provider event has no summary.
const placeholderTitle = "(sem título)"

// EventFields is the local shape of a calendar event.
type EventFields struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// ToGoogleEvent maps local fields to the provider shape. Empty optional
// fields are omitted rather than sent as nulls. Timezone defaults to UTC.
func ToGoogleEvent(f EventFields) *calendar.Event {
	tz := f.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	event := &calendar.Event{
		Summary: f.Title,
		Start: &calendar.EventDateTime{
			DateTime: f.Start.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: f.End.Format(time.RFC3339),
			TimeZone: tz,
		},
	}
	if f.Description != "" {
		event.Description = f.Description
	}
	if f.Location != "" {
		event.Location = f.Location
	}
	return event
}

// FromGoogleEvent maps a provider event to local fields. DateTime is
// preferred over the all-day Date form; a missing end falls back to the
// start; a missing summary becomes a placeholder title.
func FromGoogleEvent(event *calendar.Event) EventFields {
	f := EventFields{
		Title:       event.Summary,
		Description: event.Description,
		Location:    event.Location,
	}
	if f.Title == "" {
		f.Title = placeholderTitle
	}

	f.Start = parseEventTime(event.Start)
	f.End = parseEventTime(event.End)
	if f.End.IsZero() {
		f.End = f.Start
	}

	return f
}

func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
