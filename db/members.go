// ABOUTME: Member database operations used by the notification sweep
// ABOUTME: Tracks who exists and which members have a discipler assigned
package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

func CreateMember(db *sql.DB, m *models.Member) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()

	var disciplerID *string
	if m.DisciplerID != nil {
		s := m.DisciplerID.String()
		disciplerID = &s
	}

	_, err := db.Exec(`
		INSERT INTO members (id, name, email, discipler_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID.String(), m.Name, m.Email, disciplerID, m.CreatedAt)

	return err
}

func GetMember(db *sql.DB, id uuid.UUID) (*models.Member, error) {
	m := &models.Member{}
	var email, disciplerID sql.NullString

	err := db.QueryRow(`
		SELECT id, name, email, discipler_id, created_at FROM members WHERE id = ?
	`, id.String()).Scan(&m.ID, &m.Name, &email, &disciplerID, &m.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.Email = email.String
	if disciplerID.Valid {
		did, err := uuid.Parse(disciplerID.String)
		if err != nil {
			return nil, err
		}
		m.DisciplerID = &did
	}
	return m, nil
}

// FindDiscipledMembers returns members who have a discipler assigned.
func FindDiscipledMembers(db *sql.DB) ([]models.Member, error) {
	rows, err := db.Query(`
		SELECT id, name, email, discipler_id, created_at
		FROM members
		WHERE discipler_id IS NOT NULL
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var email, disciplerID sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &email, &disciplerID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Email = email.String
		if disciplerID.Valid {
			did, err := uuid.Parse(disciplerID.String)
			if err != nil {
				return nil, err
			}
			m.DisciplerID = &did
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CountOneOnOnesForMenteeSince counts one-on-ones for a mentee scheduled
// after the given instant.
func CountOneOnOnesForMenteeSince(db *sql.DB, menteeID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM one_on_one_meetings
		WHERE mentee_id = ? AND scheduled_at >= ?
	`, menteeID.String(), since).Scan(&count)
	return count, err
}
