// ABOUTME: Google authorization endpoint: authorize, disconnect, status, callback
// ABOUTME: The callback is the only public branch; state re-identifies the user
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

type oauthRequest struct {
	Action string `json:"action"`
}

// handleOAuth dispatches the authorization endpoint. A GET carrying a code
// query parameter is the OAuth redirect target and is handled without a
// bearer header; every other request must authenticate.
func (s *Server) handleOAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Query().Get("code") != "" {
		s.handleOAuthCallback(w, r)
		return
	}

	userID, bearer, err := s.verifier.UserFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req oauthRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	switch req.Action {
	case "authorize":
		// The caller's own bearer token becomes the state parameter. The
		// public callback validates it to recover the user without a
		// session cookie. Deliberate trade-off: the token is short-lived
		// and only ever travels over HTTPS.
		writeJSON(w, http.StatusOK, map[string]string{
			"authUrl": s.oauth.AuthCodeURL(bearer),
		})

	case "disconnect":
		if err := db.DeleteCredential(s.db, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	case "status":
		cred, err := db.GetCredential(s.db, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"connected": cred != nil,
			"token":     cred,
		})

	default:
		badRequest(w, "unknown action %q", req.Action)
	}
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	userID, err := s.verifier.UserFromState(state)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.oauth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, fmt.Errorf("failed to exchange authorization code: %w", err))
		return
	}

	cred := &models.OAuthCredential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiryDate:   token.Expiry,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	if cred.ExpiryDate.IsZero() {
		cred.ExpiryDate = time.Now().Add(time.Hour)
	}

	if err := db.UpsertCredential(s.db, cred); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, callbackPage)
}

// callbackPage notifies a popup opener and closes itself. Full-page flows
// just see the confirmation text.
const callbackPage = `<!DOCTYPE html>
<html>
<head><title>Google Calendar conectado</title></head>
<body>
<p>Conta Google conectada com sucesso. Esta janela será fechada.</p>
<script>
if (window.opener) {
	window.opener.postMessage({ type: "google-oauth-success" }, "*");
}
setTimeout(function () { window.close(); }, 1500);
</script>
</body>
</html>`
