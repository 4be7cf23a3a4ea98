// ABOUTME: Token store for Google OAuth credentials
// ABOUTME: One credential row per user, upserted in place on refresh
package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/models"
)

// ErrNotConnected is returned by callers that require a stored credential
// when the user has never completed the authorization flow.
var ErrNotConnected = errors.New("db: google account not connected")

// GetCredential returns the stored credential for a user, or nil when the
// user has not connected a Google account.
func GetCredential(db *sql.DB, userID uuid.UUID) (*models.OAuthCredential, error) {
	cred := &models.OAuthCredential{}
	var refreshToken, scope sql.NullString

	err := db.QueryRow(`
		SELECT user_id, access_token, refresh_token, scope, token_type, expiry_date, created_at, updated_at
		FROM oauth_credentials WHERE user_id = ?
	`, userID.String()).Scan(
		&cred.UserID,
		&cred.AccessToken,
		&refreshToken,
		&scope,
		&cred.TokenType,
		&cred.ExpiryDate,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cred.RefreshToken = refreshToken.String
	cred.Scope = scope.String
	return cred, nil
}

// RequireCredential is GetCredential that fails with ErrNotConnected on absence.
func RequireCredential(db *sql.DB, userID uuid.UUID) (*models.OAuthCredential, error) {
	cred, err := GetCredential(db, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNotConnected
	}
	return cred, nil
}

// UpsertCredential inserts or replaces the credential for a user. A refresh
// only carries a new access token and expiry; the stored refresh token is
// preserved when the incoming one is empty.
func UpsertCredential(db *sql.DB, cred *models.OAuthCredential) error {
	now := time.Now()
	if cred.TokenType == "" {
		cred.TokenType = "Bearer"
	}

	_, err := db.Exec(`
		INSERT INTO oauth_credentials (user_id, access_token, refresh_token, scope, token_type, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token != '' THEN excluded.refresh_token ELSE oauth_credentials.refresh_token END,
			scope = CASE WHEN excluded.scope != '' THEN excluded.scope ELSE oauth_credentials.scope END,
			token_type = excluded.token_type,
			expiry_date = excluded.expiry_date,
			updated_at = excluded.updated_at
	`, cred.UserID.String(), cred.AccessToken, cred.RefreshToken, cred.Scope, cred.TokenType, cred.ExpiryDate, now, now)

	return err
}

// DeleteCredential removes a user's stored credential (disconnect).
func DeleteCredential(db *sql.DB, userID uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM oauth_credentials WHERE user_id = ?`, userID.String())
	return err
}
