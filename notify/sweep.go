// ABOUTME: Scheduled notification sweep over the meeting tables
// ABOUTME: Meeting reminders and inactivity flags, idempotent across re-runs
package notify

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

const (
	reminderWindow   = 24 * time.Hour
	reminderLead     = time.Hour
	inactivityWindow = 30 * 24 * time.Hour
)

// Result reports how many notification rows each sweep class inserted.
type Result struct {
	MeetingNotifications  int `json:"meetingNotifications"`
	InactiveNotifications int `json:"inactiveNotifications"`
}

// Run executes both sweep classes against the store. The unique key on
// (user, related entity, event type) makes repeated runs produce no
// duplicate rows. Per-item failures are logged and skipped; the sweep is
// best effort by design.
func Run(database *sql.DB, now time.Time) (Result, error) {
	var result Result

	meetings, err := db.FindOneOnOnesInRange(database, now, now.Add(reminderWindow))
	if err != nil {
		return result, fmt.Errorf("failed to query upcoming one-on-ones: %w", err)
	}

	for _, m := range meetings {
		notifyAt := m.ScheduledAt.Add(-reminderLead)
		message := fmt.Sprintf("Seu 1 a 1 está marcado para %s", m.ScheduledAt.Format("02/01 15:04"))

		for _, userID := range []uuid.UUID{m.MentorID, m.MenteeID} {
			n := &models.Notification{
				UserID:    userID,
				RelatedID: m.ID.String(),
				EventType: models.NotificationMeetingReminder,
				Message:   message,
				NotifyAt:  notifyAt,
			}
			inserted, err := db.UpsertNotification(database, n)
			if err != nil {
				log.Printf("notify: reminder for meeting %s user %s failed: %v", m.ID, userID, err)
				continue
			}
			if inserted {
				result.MeetingNotifications++
			}
		}
	}

	members, err := db.FindDiscipledMembers(database)
	if err != nil {
		return result, fmt.Errorf("failed to query discipled members: %w", err)
	}

	for _, member := range members {
		count, err := db.CountOneOnOnesForMenteeSince(database, member.ID, now.Add(-inactivityWindow))
		if err != nil {
			log.Printf("notify: inactivity check for member %s failed: %v", member.ID, err)
			continue
		}
		if count > 0 {
			continue
		}

		n := &models.Notification{
			UserID:    *member.DisciplerID,
			RelatedID: member.ID.String(),
			EventType: models.NotificationInactiveMember,
			Message:   fmt.Sprintf("%s está sem 1 a 1 há mais de 30 dias", member.Name),
			NotifyAt:  now,
		}
		inserted, err := db.UpsertNotification(database, n)
		if err != nil {
			log.Printf("notify: inactivity flag for member %s failed: %v", member.ID, err)
			continue
		}
		if inserted {
			result.InactiveNotifications++
		}
	}

	return result, nil
}
