// ABOUTME: OAuth configuration and token refresh for the Google Calendar bridge
// ABOUTME: Builds the consent URL and keeps stored access tokens fresh
package gcal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

// ErrTokenRefreshFailed means the provider rejected the refresh grant. The
// user has to run the authorization flow again; we never retry.
var ErrTokenRefreshFailed = errors.New("gcal: token refresh rejected by provider")

// Scopes requested during authorization. Calendar read/write is required by
// the bridge; email identifies the connected account in the UI.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/userinfo.email",
}

// refreshMargin is how long before expiry a token is considered stale. It
// closes the race where a token expires between validation and use.
const refreshMargin = 60 * time.Second

// OAuth wraps the oauth2 configuration for the bridge. TokenURL is
// overridable so tests can point the refresh grant at a local server.
type OAuth struct {
	config   *oauth2.Config
	tokenURL string
	client   *http.Client
}

// OAuthParams carries the provider app credentials, injected from config.
type OAuthParams struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenURL overrides the provider token endpoint. Empty means Google.
	TokenURL string
	// HTTPClient overrides the client used for the refresh grant.
	HTTPClient *http.Client
}

func NewOAuth(p OAuthParams) *OAuth {
	endpoint := google.Endpoint
	if p.TokenURL != "" {
		endpoint.TokenURL = p.TokenURL
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &OAuth{
		config: &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		tokenURL: endpoint.TokenURL,
		client:   client,
	}
}

// AuthCodeURL builds the consent URL. The caller's bearer token rides along
// verbatim as the state parameter so the public callback can re-identify the
// user. AccessTypeOffline plus prompt=consent makes Google issue a refresh
// token even on repeat consent.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for tokens.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.client)
	return o.config.Exchange(ctx, code)
}

// FreshAccessToken returns an access token valid for at least refreshMargin.
// A credential without a refresh token is returned as-is (best effort). A
// renewed token is persisted before it is returned; the refresh token itself
// is never rotated here.
func (o *OAuth) FreshAccessToken(ctx context.Context, database *sql.DB, cred *models.OAuthCredential) (string, error) {
	if cred.RefreshToken == "" {
		return cred.AccessToken, nil
	}

	if time.Now().Before(cred.ExpiryDate.Add(-refreshMargin)) {
		return cred.AccessToken, nil
	}

	renewed, err := o.refreshGrant(ctx, cred.RefreshToken)
	if err != nil {
		return "", err
	}

	cred.AccessToken = renewed.AccessToken
	cred.ExpiryDate = time.Now().Add(time.Duration(renewed.ExpiresIn) * time.Second)
	if err := db.UpsertCredential(database, cred); err != nil {
		return "", fmt.Errorf("failed to persist renewed token: %w", err)
	}

	return cred.AccessToken, nil
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

func (o *OAuth) refreshGrant(ctx context.Context, refreshToken string) (*refreshResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {o.config.ClientID},
		"client_secret": {o.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrTokenRefreshFailed, resp.StatusCode)
	}

	var renewed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrTokenRefreshFailed, err)
	}
	if renewed.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrTokenRefreshFailed)
	}

	return &renewed, nil
}
