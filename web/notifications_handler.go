// ABOUTME: Notification sweep endpoint, triggered on a schedule
// ABOUTME: Runs the reminder and inactivity sweeps and reports the counts
package web

import (
	"net/http"
	"time"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/notify"
)

func (s *Server) handleNotificationSweep(w http.ResponseWriter, r *http.Request) {
	if _, _, err := s.verifier.UserFromRequest(r); err != nil {
		writeError(w, err)
		return
	}

	result, err := notify.Run(s.db, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":               true,
		"meetingNotifications":  result.MeetingNotifications,
		"inactiveNotifications": result.InactiveNotifications,
	})
}
