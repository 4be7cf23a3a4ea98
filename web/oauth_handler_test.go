// ABOUTME: Tests for the authorization endpoint
// ABOUTME: Full authorize→callback round trip plus status and disconnect
package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/auth"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/config"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/gcal"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

func setupTestServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		RedirectBaseURL:    "http://localhost:8080",
	}
	return NewServer(database, cfg), database
}

// newExchangeServer fakes the provider token endpoint for the code exchange.
func newExchangeServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("grant_type") != "authorization_code" {
			http.Error(w, "wrong grant type", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "exchanged-access-token",
			"refresh_token": "exchanged-refresh-token",
			"token_type":    "Bearer",
			"expires_in":    3599,
			"scope":         "https://www.googleapis.com/auth/calendar",
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func mintBearer(t *testing.T, s *Server, userID uuid.UUID) string {
	t.Helper()

	token, err := auth.NewVerifier("test-secret").MintToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}
	return token
}

func TestAuthorizeReturnsConsentURLWithBearerState(t *testing.T) {
	s, _ := setupTestServer(t)
	userID := uuid.New()
	bearer := mintBearer(t, s, userID)

	r := httptest.NewRequest("POST", "/api/google/oauth", strings.NewReader(`{"action":"authorize"}`))
	r.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()

	s.handleOAuth(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AuthURL string `json:"authUrl"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	parsed, err := url.Parse(resp.AuthURL)
	if err != nil {
		t.Fatalf("authUrl is not a URL: %v", err)
	}
	if got := parsed.Query().Get("state"); got != bearer {
		t.Errorf("Expected state to carry the bearer token verbatim, got %q", got)
	}
	if got := parsed.Query().Get("access_type"); got != "offline" {
		t.Errorf("Expected access_type=offline, got %q", got)
	}
	if got := parsed.Query().Get("prompt"); got != "consent" {
		t.Errorf("Expected prompt=consent, got %q", got)
	}
}

func TestAuthorizeCallbackRoundTrip(t *testing.T) {
	s, database := setupTestServer(t)
	exchange := newExchangeServer(t)
	s.oauth = gcal.NewOAuth(gcal.OAuthParams{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/google/oauth",
		TokenURL:     exchange.URL,
	})

	userID := uuid.New()
	bearer := mintBearer(t, s, userID)

	// Simulate the provider redirect with code and our state
	r := httptest.NewRequest("GET", "/api/google/oauth?code=ABC&state="+url.QueryEscape(bearer), nil)
	w := httptest.NewRecorder()

	s.handleOAuth(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML confirmation page, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "window.opener") {
		t.Error("Expected confirmation page to notify the opener window")
	}

	// The credential must be persisted for the state-resolved user
	cred, err := db.GetCredential(database, userID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if cred == nil {
		t.Fatal("Expected credential persisted after callback")
	}
	if cred.AccessToken == "" {
		t.Error("Expected non-empty access token")
	}
	if cred.RefreshToken != "exchanged-refresh-token" {
		t.Errorf("Expected refresh token persisted, got %q", cred.RefreshToken)
	}
	if !cred.ExpiryDate.After(time.Now()) {
		t.Errorf("Expected expiry in the future, got %v", cred.ExpiryDate)
	}
}

func TestCallbackMissingState(t *testing.T) {
	s, _ := setupTestServer(t)

	r := httptest.NewRequest("GET", "/api/google/oauth?code=ABC", nil)
	w := httptest.NewRecorder()

	s.handleOAuth(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing state, got %d", w.Code)
	}
}

func TestCallbackInvalidState(t *testing.T) {
	s, _ := setupTestServer(t)

	r := httptest.NewRequest("GET", "/api/google/oauth?code=ABC&state=garbage", nil)
	w := httptest.NewRecorder()

	s.handleOAuth(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for invalid state, got %d", w.Code)
	}
}

func TestStatusAndDisconnect(t *testing.T) {
	s, database := setupTestServer(t)
	userID := uuid.New()
	bearer := mintBearer(t, s, userID)

	status := func() (bool, int) {
		r := httptest.NewRequest("POST", "/api/google/oauth", strings.NewReader(`{"action":"status"}`))
		r.Header.Set("Authorization", "Bearer "+bearer)
		w := httptest.NewRecorder()
		s.handleOAuth(w, r)

		var resp struct {
			Connected bool `json:"connected"`
		}
		_ = json.NewDecoder(w.Body).Decode(&resp)
		return resp.Connected, w.Code
	}

	if connected, code := status(); connected || code != http.StatusOK {
		t.Fatalf("Expected disconnected status, got connected=%v code=%d", connected, code)
	}

	cred := &models.OAuthCredential{
		UserID:      userID,
		AccessToken: "access-token",
		ExpiryDate:  time.Now().Add(time.Hour),
	}
	if err := db.UpsertCredential(database, cred); err != nil {
		t.Fatalf("Failed to insert credential: %v", err)
	}

	if connected, _ := status(); !connected {
		t.Fatal("Expected connected status after credential insert")
	}

	r := httptest.NewRequest("POST", "/api/google/oauth", strings.NewReader(`{"action":"disconnect"}`))
	r.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	s.handleOAuth(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("Disconnect failed with %d", w.Code)
	}

	if connected, _ := status(); connected {
		t.Fatal("Expected disconnected status after disconnect")
	}
}

func TestUnknownActionRejected(t *testing.T) {
	s, _ := setupTestServer(t)
	bearer := mintBearer(t, s, uuid.New())

	r := httptest.NewRequest("POST", "/api/google/oauth", strings.NewReader(`{"action":"frobnicate"}`))
	r.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()

	s.handleOAuth(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown action, got %d", w.Code)
	}
}

func TestOAuthRequiresBearer(t *testing.T) {
	s, _ := setupTestServer(t)

	r := httptest.NewRequest("POST", "/api/google/oauth", strings.NewReader(`{"action":"status"}`))
	w := httptest.NewRecorder()

	s.handleOAuth(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without bearer, got %d", w.Code)
	}
}
