// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS members (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT,
	discipler_id TEXT,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (discipler_id) REFERENCES members(id)
);

CREATE INDEX IF NOT EXISTS idx_members_discipler_id ON members(discipler_id);

CREATE TABLE IF NOT EXISTS oauth_credentials (
	user_id TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	refresh_token TEXT,
	scope TEXT,
	token_type TEXT NOT NULL DEFAULT 'Bearer',
	expiry_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS one_on_one_meetings (
	id TEXT PRIMARY KEY,
	mentor_id TEXT NOT NULL,
	mentee_id TEXT NOT NULL,
	scheduled_at DATETIME NOT NULL,
	duration_minutes INTEGER NOT NULL DEFAULT 60,
	notes TEXT,
	google_event_id TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (mentor_id) REFERENCES members(id),
	FOREIGN KEY (mentee_id) REFERENCES members(id)
);

CREATE INDEX IF NOT EXISTS idx_one_on_one_mentor ON one_on_one_meetings(mentor_id);
CREATE INDEX IF NOT EXISTS idx_one_on_one_scheduled ON one_on_one_meetings(scheduled_at);
CREATE INDEX IF NOT EXISTS idx_one_on_one_google_event ON one_on_one_meetings(google_event_id);

CREATE TABLE IF NOT EXISTS general_meetings (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	location TEXT,
	scheduled_at DATETIME NOT NULL,
	google_event_id TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_general_scheduled ON general_meetings(scheduled_at);
CREATE INDEX IF NOT EXISTS idx_general_google_event ON general_meetings(google_event_id);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	related_id TEXT NOT NULL,
	event_type TEXT NOT NULL CHECK(event_type IN ('meeting_reminder', 'inactive_member')),
	message TEXT NOT NULL,
	notify_at DATETIME NOT NULL,
	read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	UNIQUE(user_id, related_id, event_type)
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_notify_at ON notifications(notify_at);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
