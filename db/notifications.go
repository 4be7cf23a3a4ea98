// ABOUTME: Notification persistence with idempotent upserts
// ABOUTME: UNIQUE(user_id, related_id, event_type) makes sweep re-runs safe
package db

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

// UpsertNotification inserts a notification unless a row with the same
// (user, related entity, event type) already exists. Returns true when a new
// row was written.
func UpsertNotification(db *sql.DB, n *models.Notification) (bool, error) {
	if n.ID == "" {
		entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
		n.ID = ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
	n.CreatedAt = time.Now()

	res, err := db.Exec(`
		INSERT INTO notifications (id, user_id, related_id, event_type, message, notify_at, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(user_id, related_id, event_type) DO NOTHING
	`, n.ID, n.UserID.String(), n.RelatedID, n.EventType, n.Message, n.NotifyAt, n.CreatedAt)
	if err != nil {
		return false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

// FindNotificationsForUser returns a user's notifications, newest first.
func FindNotificationsForUser(db *sql.DB, userID uuid.UUID, limit int) ([]models.Notification, error) {
	rows, err := db.Query(`
		SELECT id, user_id, related_id, event_type, message, notify_at, read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.RelatedID, &n.EventType, &n.Message,
			&n.NotifyAt, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountNotifications returns the total notification row count.
func CountNotifications(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}
