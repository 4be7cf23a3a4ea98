// ABOUTME: Tests for the notification sweep
// ABOUTME: Reminder timing, inactivity detection, and re-run idempotence
package notify

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMeetingReminders(t *testing.T) {
	database := setupTestDB(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	soon := &models.OneOnOneMeeting{
		MentorID:    uuid.New(),
		MenteeID:    uuid.New(),
		ScheduledAt: now.Add(6 * time.Hour),
	}
	farOff := &models.OneOnOneMeeting{
		MentorID:    uuid.New(),
		MenteeID:    uuid.New(),
		ScheduledAt: now.Add(48 * time.Hour),
	}
	for _, m := range []*models.OneOnOneMeeting{soon, farOff} {
		if err := db.CreateOneOnOne(database, m); err != nil {
			t.Fatalf("CreateOneOnOne failed: %v", err)
		}
	}

	result, err := Run(database, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Mentor and mentee of the imminent meeting, nothing for the far one
	if result.MeetingNotifications != 2 {
		t.Errorf("Expected 2 meeting notifications, got %d", result.MeetingNotifications)
	}

	notifications, err := db.FindNotificationsForUser(database, soon.MentorID, 10)
	if err != nil {
		t.Fatalf("FindNotificationsForUser failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification for mentor, got %d", len(notifications))
	}

	// Reminder instant is exactly one hour before the meeting
	expected := soon.ScheduledAt.Add(-time.Hour)
	if !notifications[0].NotifyAt.Equal(expected) {
		t.Errorf("Expected notify_at %v, got %v", expected, notifications[0].NotifyAt)
	}
}

func TestInactivityFlags(t *testing.T) {
	database := setupTestDB(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	discipler := &models.Member{Name: "Discipulador"}
	if err := db.CreateMember(database, discipler); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	inactive := &models.Member{Name: "Inativo", DisciplerID: &discipler.ID}
	active := &models.Member{Name: "Ativo", DisciplerID: &discipler.ID}
	unassigned := &models.Member{Name: "Sem discipulador"}
	for _, m := range []*models.Member{inactive, active, unassigned} {
		if err := db.CreateMember(database, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	// The active mentee met two weeks ago
	recent := &models.OneOnOneMeeting{
		MentorID:    discipler.ID,
		MenteeID:    active.ID,
		ScheduledAt: now.Add(-14 * 24 * time.Hour),
	}
	if err := db.CreateOneOnOne(database, recent); err != nil {
		t.Fatalf("CreateOneOnOne failed: %v", err)
	}

	result, err := Run(database, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.InactiveNotifications != 1 {
		t.Errorf("Expected 1 inactivity notification, got %d", result.InactiveNotifications)
	}

	notifications, err := db.FindNotificationsForUser(database, discipler.ID, 10)
	if err != nil {
		t.Fatalf("FindNotificationsForUser failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification for discipler, got %d", len(notifications))
	}
	if notifications[0].RelatedID != inactive.ID.String() {
		t.Errorf("Expected flag about member %s, got %s", inactive.ID, notifications[0].RelatedID)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	meeting := &models.OneOnOneMeeting{
		MentorID:    uuid.New(),
		MenteeID:    uuid.New(),
		ScheduledAt: now.Add(3 * time.Hour),
	}
	if err := db.CreateOneOnOne(database, meeting); err != nil {
		t.Fatalf("CreateOneOnOne failed: %v", err)
	}

	first, err := Run(database, now)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if first.MeetingNotifications != 2 {
		t.Errorf("Expected 2 notifications on first run, got %d", first.MeetingNotifications)
	}

	second, err := Run(database, now)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if second.MeetingNotifications != 0 {
		t.Errorf("Expected 0 new notifications on second run, got %d", second.MeetingNotifications)
	}

	count, err := db.CountNotifications(database)
	if err != nil {
		t.Fatalf("CountNotifications failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 total rows after two runs, got %d", count)
	}
}
