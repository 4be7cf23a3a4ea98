// ABOUTME: Calendar bridge endpoint: list, create, update, delete, sync
// ABOUTME: Refreshes the stored token, then dispatches to the bridge actions
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/gcal"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

type calendarRequest struct {
	Action     string           `json:"action"`
	RangeStart *time.Time       `json:"rangeStart,omitempty"`
	RangeEnd   *time.Time       `json:"rangeEnd,omitempty"`
	ID         string           `json:"id,omitempty"`
	Type       string           `json:"type,omitempty"`
	Payload    *calendarPayload `json:"payload,omitempty"`
}

type calendarPayload struct {
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	TimeZone    string           `json:"timeZone,omitempty"`
	MenteeID    uuid.UUID        `json:"menteeId,omitempty"`
	Local       *models.LocalRef `json:"local,omitempty"`
}

func (p *calendarPayload) fields() gcal.EventFields {
	return gcal.EventFields{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Start:       p.Start,
		End:         p.End,
		TimeZone:    p.TimeZone,
	}
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	userID, _, err := s.verifier.UserFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body: %v", err)
		return
	}

	cred, err := db.RequireCredential(s.db, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	accessToken, err := s.oauth.FreshAccessToken(r.Context(), s.db, cred)
	if err != nil {
		writeError(w, err)
		return
	}

	service, err := s.services(r.Context(), accessToken)
	if err != nil {
		writeError(w, err)
		return
	}

	bridge := gcal.NewBridge(s.db, service, userID)

	switch req.Action {
	case "list":
		if req.RangeStart == nil || req.RangeEnd == nil {
			badRequest(w, "list requires rangeStart and rangeEnd")
			return
		}
		result, err := bridge.List(r.Context(), *req.RangeStart, *req.RangeEnd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "create":
		if req.Payload == nil {
			badRequest(w, "create requires a payload")
			return
		}
		result, err := bridge.Create(r.Context(), gcal.CreateInput{
			Type:     req.Type,
			Fields:   req.Payload.fields(),
			MenteeID: req.Payload.MenteeID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":             true,
			"google":         result.Google,
			"oneOnOne":       result.OneOnOne,
			"generalMeeting": result.General,
		})

	case "update":
		if req.ID == "" || req.Payload == nil {
			badRequest(w, "update requires id and payload")
			return
		}
		updated, err := bridge.Update(r.Context(), req.ID, req.Payload.fields(), req.Payload.Local)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "google": updated})

	case "delete":
		if req.ID == "" {
			badRequest(w, "delete requires id")
			return
		}
		var ref *models.LocalRef
		if req.Payload != nil {
			ref = req.Payload.Local
		}
		if err := bridge.Delete(r.Context(), req.ID, ref); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	case "sync":
		updated, err := bridge.Sync(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "updated": updated})

	default:
		badRequest(w, "unknown action %q", req.Action)
	}
}
