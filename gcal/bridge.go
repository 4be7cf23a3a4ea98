// ABOUTME: Calendar bridge actions: list, create, update, delete, sync
// ABOUTME: Provider writes always happen before local mirror writes
package gcal

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

// Meeting types accepted by Create.
const (
	MeetingOneOnOne = "1a1"
	MeetingGeneral  = "geral"
)

const defaultOneOnOneMinutes = 60

// Bridge executes the calendar actions for one authenticated user against
// one already-refreshed calendar service. It holds no cross-request state.
type Bridge struct {
	db      *sql.DB
	service *calendar.Service
	userID  uuid.UUID
}

func NewBridge(database *sql.DB, service *calendar.Service, userID uuid.UUID) *Bridge {
	return &Bridge{db: database, service: service, userID: userID}
}

// ListResult carries the three raw collections for a time range. Unification
// is left to the caller; Unified builds the merged projection when wanted.
type ListResult struct {
	Google          []*calendar.Event        `json:"google"`
	OneOnOnes       []models.OneOnOneMeeting `json:"oneOnOnes"`
	GeneralMeetings []models.GeneralMeeting  `json:"generalMeetings"`
}

// List fetches provider events in [start, end) alongside both local meeting
// tables. The three queries have no dependency on each other and run
// concurrently.
func (b *Bridge) List(ctx context.Context, start, end time.Time) (*ListResult, error) {
	result := &ListResult{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := b.service.Events.List("primary").
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx).Do()
		if err != nil {
			return wrapProviderErr("list", err)
		}
		result.Google = events.Items
		return nil
	})
	g.Go(func() error {
		meetings, err := db.FindOneOnOnesInRange(b.db, start, end)
		if err != nil {
			return err
		}
		result.OneOnOnes = meetings
		return nil
	})
	g.Go(func() error {
		meetings, err := db.FindGeneralMeetingsInRange(b.db, start, end)
		if err != nil {
			return err
		}
		result.GeneralMeetings = meetings
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Unified merges the three collections into one source-tagged feed.
func (r *ListResult) Unified() []models.CalendarItem {
	var items []models.CalendarItem

	for _, event := range r.Google {
		f := FromGoogleEvent(event)
		eventID := event.Id
		items = append(items, models.CalendarItem{
			ID:            event.Id,
			Source:        models.SourceGoogle,
			Title:         f.Title,
			Description:   f.Description,
			Location:      f.Location,
			Start:         f.Start,
			End:           f.End,
			GoogleEventID: &eventID,
		})
	}

	for _, m := range r.OneOnOnes {
		items = append(items, models.CalendarItem{
			ID:            m.ID.String(),
			Source:        models.SourceOneOnOne,
			Title:         "1 a 1",
			Description:   m.Notes,
			Start:         m.ScheduledAt,
			End:           m.ScheduledAt.Add(time.Duration(m.DurationMinutes) * time.Minute),
			GoogleEventID: m.GoogleEventID,
			Local:         &models.LocalRef{Table: models.TableOneOnOne, ID: m.ID},
		})
	}

	for _, m := range r.GeneralMeetings {
		items = append(items, models.CalendarItem{
			ID:            m.ID.String(),
			Source:        models.SourceGeneral,
			Title:         m.Title,
			Description:   m.Description,
			Location:      m.Location,
			Start:         m.ScheduledAt,
			End:           m.ScheduledAt.Add(time.Hour),
			GoogleEventID: m.GoogleEventID,
			Local:         &models.LocalRef{Table: models.TableGeneral, ID: m.ID},
		})
	}

	return items
}

// CreateInput is the payload for Create. MenteeID is required for one-on-ones.
type CreateInput struct {
	Type     string
	Fields   EventFields
	MenteeID uuid.UUID
}

// CreateResult echoes the provider event and carries the mirrored local row
// (one of the two pointers is set, matching the input type).
type CreateResult struct {
	Google   *calendar.Event         `json:"google"`
	OneOnOne *models.OneOnOneMeeting `json:"oneOnOne,omitempty"`
	General  *models.GeneralMeeting  `json:"generalMeeting,omitempty"`
}

// Create inserts the event at the provider first, then mirrors it into the
// matching local table. A provider failure aborts before any local write, so
// no local row can ever reference a provider event that was never created.
func (b *Bridge) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.Type != MeetingOneOnOne && in.Type != MeetingGeneral {
		return nil, fmt.Errorf("unknown meeting type %q", in.Type)
	}
	if !in.Fields.End.After(in.Fields.Start) {
		return nil, fmt.Errorf("event end must be after start")
	}

	created, err := b.service.Events.Insert("primary", ToGoogleEvent(in.Fields)).Context(ctx).Do()
	if err != nil {
		return nil, wrapProviderErr("create", err)
	}

	result := &CreateResult{Google: created}
	eventID := created.Id

	switch in.Type {
	case MeetingOneOnOne:
		meeting := &models.OneOnOneMeeting{
			MentorID:        b.userID,
			MenteeID:        in.MenteeID,
			ScheduledAt:     in.Fields.Start,
			DurationMinutes: durationMinutes(in.Fields.Start, in.Fields.End),
			Notes:           in.Fields.Description,
			GoogleEventID:   &eventID,
		}
		if err := db.CreateOneOnOne(b.db, meeting); err != nil {
			// Provider has the event, we do not: surface the inconsistency
			// instead of deleting the event behind the user's back.
			return nil, fmt.Errorf("event %s created at provider but local write failed: %w", eventID, err)
		}
		result.OneOnOne = meeting

	case MeetingGeneral:
		meeting := &models.GeneralMeeting{
			Title:         in.Fields.Title,
			Description:   in.Fields.Description,
			Location:      in.Fields.Location,
			ScheduledAt:   in.Fields.Start,
			GoogleEventID: &eventID,
		}
		if err := db.CreateGeneralMeeting(b.db, meeting); err != nil {
			return nil, fmt.Errorf("event %s created at provider but local write failed: %w", eventID, err)
		}
		result.General = meeting
	}

	return result, nil
}

// Update patches the provider event, then the local mirror row when a
// back-reference is supplied. The reference is verified before any write:
// the row must be linked to the same event, and a one-on-one must involve
// the calling user.
func (b *Bridge) Update(ctx context.Context, eventID string, fields EventFields, ref *models.LocalRef) (*calendar.Event, error) {
	if ref != nil {
		if err := b.verifyRef(eventID, ref); err != nil {
			return nil, err
		}
	}

	updated, err := b.service.Events.Patch("primary", eventID, ToGoogleEvent(fields)).Context(ctx).Do()
	if err != nil {
		return nil, wrapProviderErr("update", err)
	}

	if ref != nil {
		if err := b.applyLocal(ref, FromGoogleEvent(updated)); err != nil {
			return nil, fmt.Errorf("event %s updated at provider but local write failed: %w", eventID, err)
		}
	}

	return updated, nil
}

// Delete removes the provider event, then the local mirror row when a
// back-reference is supplied.
func (b *Bridge) Delete(ctx context.Context, eventID string, ref *models.LocalRef) error {
	if ref != nil {
		if err := b.verifyRef(eventID, ref); err != nil {
			return err
		}
	}

	if err := b.service.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		return wrapProviderErr("delete", err)
	}

	if ref == nil {
		return nil
	}

	switch ref.Table {
	case models.TableOneOnOne:
		return db.DeleteOneOnOne(b.db, ref.ID)
	case models.TableGeneral:
		return db.DeleteGeneralMeeting(b.db, ref.ID)
	default:
		return fmt.Errorf("unknown local table %q", ref.Table)
	}
}

// Sync pulls provider truth for every locally-linked row of both tables and
// overwrites the mirrored fields. Each row's failure is logged and skipped;
// one broken link never aborts the sweep. Returns the number of rows
// attempted.
func (b *Bridge) Sync(ctx context.Context) (int, error) {
	attempted := 0

	oneOnOnes, err := db.FindLinkedOneOnOnes(b.db)
	if err != nil {
		return 0, err
	}
	for _, m := range oneOnOnes {
		attempted++
		event, err := b.service.Events.Get("primary", *m.GoogleEventID).Context(ctx).Do()
		if err != nil {
			log.Printf("sync: skipping one-on-one %s (event %s): %v", m.ID, *m.GoogleEventID, err)
			continue
		}
		f := FromGoogleEvent(event)
		if err := db.UpdateOneOnOneTimes(b.db, m.ID, f.Start, durationMinutes(f.Start, f.End), f.Description); err != nil {
			log.Printf("sync: failed to update one-on-one %s: %v", m.ID, err)
		}
	}

	generals, err := db.FindLinkedGeneralMeetings(b.db)
	if err != nil {
		return attempted, err
	}
	for _, m := range generals {
		attempted++
		event, err := b.service.Events.Get("primary", *m.GoogleEventID).Context(ctx).Do()
		if err != nil {
			log.Printf("sync: skipping general meeting %s (event %s): %v", m.ID, *m.GoogleEventID, err)
			continue
		}
		f := FromGoogleEvent(event)
		if err := db.UpdateGeneralMeetingFields(b.db, m.ID, f.Title, f.Description, f.Location, f.Start); err != nil {
			log.Printf("sync: failed to update general meeting %s: %v", m.ID, err)
		}
	}

	return attempted, nil
}

// verifyRef checks that a caller-supplied back-reference points at a row
// linked to the given provider event and visible to the calling user.
func (b *Bridge) verifyRef(eventID string, ref *models.LocalRef) error {
	switch ref.Table {
	case models.TableOneOnOne:
		m, err := db.GetOneOnOne(b.db, ref.ID)
		if err != nil {
			return err
		}
		if m == nil || m.GoogleEventID == nil || *m.GoogleEventID != eventID {
			return ErrForbiddenRef
		}
		if m.MentorID != b.userID && m.MenteeID != b.userID {
			return ErrForbiddenRef
		}
	case models.TableGeneral:
		m, err := db.GetGeneralMeeting(b.db, ref.ID)
		if err != nil {
			return err
		}
		if m == nil || m.GoogleEventID == nil || *m.GoogleEventID != eventID {
			return ErrForbiddenRef
		}
	default:
		return fmt.Errorf("unknown local table %q", ref.Table)
	}
	return nil
}

func (b *Bridge) applyLocal(ref *models.LocalRef, f EventFields) error {
	switch ref.Table {
	case models.TableOneOnOne:
		return db.UpdateOneOnOneTimes(b.db, ref.ID, f.Start, durationMinutes(f.Start, f.End), f.Description)
	case models.TableGeneral:
		return db.UpdateGeneralMeetingFields(b.db, ref.ID, f.Title, f.Description, f.Location, f.Start)
	default:
		return fmt.Errorf("unknown local table %q", ref.Table)
	}
}

// durationMinutes derives a meeting length from the event range. One-on-one
// duration is never stored independently of the range.
func durationMinutes(start, end time.Time) int {
	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		minutes = defaultOneOnOneMinutes
	}
	return minutes
}

func wrapProviderErr(op string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return &ProviderError{Op: op, Status: apiErr.Code, Err: err}
	}
	return &ProviderError{Op: op, Err: err}
}
