// ABOUTME: Data models for pastoral-care scheduling entities
// ABOUTME: Defines OAuthCredential, meeting types, Member, and Notification structs
package models

import (
	"time"

	"github.com/google/uuid"
)

// OAuthCredential is the stored Google token for a single user.
// There is at most one row per user; refresh updates it in place.
type OAuthCredential struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiryDate   time.Time `json:"expiry_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OneOnOneMeeting is a discipleship meeting between a mentor and a mentee.
// GoogleEventID links the row to a provider event; a broken link simply
// stops syncing, it is never an error.
type OneOnOneMeeting struct {
	ID              uuid.UUID `json:"id"`
	MentorID        uuid.UUID `json:"mentor_id"`
	MenteeID        uuid.UUID `json:"mentee_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	GoogleEventID   *string   `json:"google_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type GeneralMeeting struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	GoogleEventID *string   `json:"google_event_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Member is the slice of the membership table the calendar core needs:
// who exists and whether someone disciples them.
type Member struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	DisciplerID *uuid.UUID `json:"discipler_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Notification event types.
const (
	NotificationMeetingReminder = "meeting_reminder"
	NotificationInactiveMember  = "inactive_member"
)

type Notification struct {
	ID        string    `json:"id"` // ULID, sortable by creation time
	UserID    uuid.UUID `json:"user_id"`
	RelatedID string    `json:"related_id"`
	EventType string    `json:"event_type"`
	Message   string    `json:"message"`
	NotifyAt  time.Time `json:"notify_at"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// CalendarItem sources.
const (
	SourceGoogle   = "google"
	SourceOneOnOne = "one_on_one"
	SourceGeneral  = "general"
)

// Local table names accepted in a LocalRef.
const (
	TableOneOnOne = "one_on_one_meetings"
	TableGeneral  = "general_meetings"
)

// LocalRef routes an update or delete to the local table mirroring a
// provider event.
type LocalRef struct {
	Table string    `json:"table"`
	ID    uuid.UUID `json:"id"`
}

// CalendarItem is the unified read-only projection returned by list.
// It is never persisted.
type CalendarItem struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	GoogleEventID *string   `json:"google_event_id,omitempty"`
	Local         *LocalRef `json:"local,omitempty"`
}
