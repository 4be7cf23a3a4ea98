// ABOUTME: HTTP server wiring the three function endpoints
// ABOUTME: CORS middleware, JSON helpers, and error-to-status mapping
package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/auth"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/config"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/gcal"
)

type Server struct {
	db       *sql.DB
	cfg      *config.Config
	verifier *auth.Verifier
	oauth    *gcal.OAuth
	services gcal.ServiceFactory
}

func NewServer(database *sql.DB, cfg *config.Config) *Server {
	return &Server{
		db:       database,
		cfg:      cfg,
		verifier: auth.NewVerifier(cfg.JWTSecret),
		oauth: gcal.NewOAuth(gcal.OAuthParams{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectBaseURL + "/api/google/oauth",
		}),
		services: gcal.NewCalendarService,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/google/oauth", s.handleOAuth)
	mux.HandleFunc("/api/google/calendar", s.handleCalendar)
	mux.HandleFunc("/api/notifications/run", s.handleNotificationSweep)
	return corsMiddleware(mux)
}

func (s *Server) Start(port string) error {
	addr := ":" + port
	log.Printf("Starting server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// corsMiddleware applies the uniform CORS policy of all three endpoints.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// writeError serializes any handler error as {"error": "..."} with a status
// mapped from the error taxonomy.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var providerErr *gcal.ProviderError
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated), errors.Is(err, auth.ErrInvalidState):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrMissingState):
		status = http.StatusBadRequest
	case errors.Is(err, db.ErrNotConnected):
		status = http.StatusBadRequest
	case errors.Is(err, gcal.ErrTokenRefreshFailed):
		status = http.StatusBadRequest
	case errors.Is(err, gcal.ErrForbiddenRef):
		status = http.StatusForbidden
	case errors.As(err, &providerErr):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(w http.ResponseWriter, format string, args ...interface{}) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf(format, args...)})
}
