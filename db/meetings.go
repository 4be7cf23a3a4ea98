// ABOUTME: Database operations for one-on-one and general meetings
// ABOUTME: CRUD plus range queries and google_event_id link maintenance
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

func CreateOneOnOne(db *sql.DB, m *models.OneOnOneMeeting) error {
	m.ID = uuid.New()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO one_on_one_meetings (id, mentor_id, mentee_id, scheduled_at, duration_minutes, notes, google_event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID.String(), m.MentorID.String(), m.MenteeID.String(), m.ScheduledAt, m.DurationMinutes, m.Notes, m.GoogleEventID, m.CreatedAt, m.UpdatedAt)

	return err
}

func GetOneOnOne(db *sql.DB, id uuid.UUID) (*models.OneOnOneMeeting, error) {
	m := &models.OneOnOneMeeting{}
	var notes, eventID sql.NullString

	err := db.QueryRow(`
		SELECT id, mentor_id, mentee_id, scheduled_at, duration_minutes, notes, google_event_id, created_at, updated_at
		FROM one_on_one_meetings WHERE id = ?
	`, id.String()).Scan(
		&m.ID, &m.MentorID, &m.MenteeID, &m.ScheduledAt, &m.DurationMinutes,
		&notes, &eventID, &m.CreatedAt, &m.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.Notes = notes.String
	if eventID.Valid {
		m.GoogleEventID = &eventID.String
	}
	return m, nil
}

// UpdateOneOnOneTimes overwrites the mirrored fields of a one-on-one from
// provider truth. Duration is always derived from the event range, never
// taken from the caller.
func UpdateOneOnOneTimes(db *sql.DB, id uuid.UUID, scheduledAt time.Time, durationMinutes int, notes string) error {
	res, err := db.Exec(`
		UPDATE one_on_one_meetings
		SET scheduled_at = ?, duration_minutes = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, scheduledAt, durationMinutes, notes, time.Now(), id.String())
	if err != nil {
		return err
	}
	return requireRow(res, "one-on-one", id)
}

func DeleteOneOnOne(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM one_on_one_meetings WHERE id = ?`, id.String())
	return err
}

// FindOneOnOnesInRange returns one-on-ones with scheduled_at in [start, end).
func FindOneOnOnesInRange(db *sql.DB, start, end time.Time) ([]models.OneOnOneMeeting, error) {
	return findOneOnOnesWhere(db, `scheduled_at >= ? AND scheduled_at < ?`, start, end)
}

// FindLinkedOneOnOnes returns every one-on-one carrying a google_event_id.
func FindLinkedOneOnOnes(db *sql.DB) ([]models.OneOnOneMeeting, error) {
	return findOneOnOnesWhere(db, `google_event_id IS NOT NULL AND google_event_id != ''`)
}

func findOneOnOnesWhere(db *sql.DB, where string, args ...interface{}) ([]models.OneOnOneMeeting, error) {
	rows, err := db.Query(`
		SELECT id, mentor_id, mentee_id, scheduled_at, duration_minutes, notes, google_event_id, created_at, updated_at
		FROM one_on_one_meetings WHERE `+where+` ORDER BY scheduled_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.OneOnOneMeeting
	for rows.Next() {
		var m models.OneOnOneMeeting
		var notes, eventID sql.NullString
		if err := rows.Scan(&m.ID, &m.MentorID, &m.MenteeID, &m.ScheduledAt, &m.DurationMinutes,
			&notes, &eventID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Notes = notes.String
		if eventID.Valid {
			m.GoogleEventID = &eventID.String
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func CreateGeneralMeeting(db *sql.DB, m *models.GeneralMeeting) error {
	m.ID = uuid.New()
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO general_meetings (id, title, description, location, scheduled_at, google_event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID.String(), m.Title, m.Description, m.Location, m.ScheduledAt, m.GoogleEventID, m.CreatedAt, m.UpdatedAt)

	return err
}

func GetGeneralMeeting(db *sql.DB, id uuid.UUID) (*models.GeneralMeeting, error) {
	m := &models.GeneralMeeting{}
	var description, location, eventID sql.NullString

	err := db.QueryRow(`
		SELECT id, title, description, location, scheduled_at, google_event_id, created_at, updated_at
		FROM general_meetings WHERE id = ?
	`, id.String()).Scan(
		&m.ID, &m.Title, &description, &location, &m.ScheduledAt, &eventID, &m.CreatedAt, &m.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.Description = description.String
	m.Location = location.String
	if eventID.Valid {
		m.GoogleEventID = &eventID.String
	}
	return m, nil
}

// UpdateGeneralMeetingFields overwrites the mirrored fields of a general
// meeting from provider truth.
func UpdateGeneralMeetingFields(db *sql.DB, id uuid.UUID, title, description, location string, scheduledAt time.Time) error {
	res, err := db.Exec(`
		UPDATE general_meetings
		SET title = ?, description = ?, location = ?, scheduled_at = ?, updated_at = ?
		WHERE id = ?
	`, title, description, location, scheduledAt, time.Now(), id.String())
	if err != nil {
		return err
	}
	return requireRow(res, "general meeting", id)
}

func DeleteGeneralMeeting(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM general_meetings WHERE id = ?`, id.String())
	return err
}

// FindGeneralMeetingsInRange returns general meetings with scheduled_at in [start, end).
func FindGeneralMeetingsInRange(db *sql.DB, start, end time.Time) ([]models.GeneralMeeting, error) {
	return findGeneralMeetingsWhere(db, `scheduled_at >= ? AND scheduled_at < ?`, start, end)
}

// FindLinkedGeneralMeetings returns every general meeting carrying a google_event_id.
func FindLinkedGeneralMeetings(db *sql.DB) ([]models.GeneralMeeting, error) {
	return findGeneralMeetingsWhere(db, `google_event_id IS NOT NULL AND google_event_id != ''`)
}

func findGeneralMeetingsWhere(db *sql.DB, where string, args ...interface{}) ([]models.GeneralMeeting, error) {
	rows, err := db.Query(`
		SELECT id, title, description, location, scheduled_at, google_event_id, created_at, updated_at
		FROM general_meetings WHERE `+where+` ORDER BY scheduled_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.GeneralMeeting
	for rows.Next() {
		var m models.GeneralMeeting
		var description, location, eventID sql.NullString
		if err := rows.Scan(&m.ID, &m.Title, &description, &location, &m.ScheduledAt, &eventID,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Description = description.String
		m.Location = location.String
		if eventID.Valid {
			m.GoogleEventID = &eventID.String
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func requireRow(res sql.Result, entity string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s not found", entity, id)
	}
	return nil
}
