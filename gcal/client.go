// ABOUTME: Calendar API client setup for Google Calendar integration
// ABOUTME: Creates an authenticated Calendar service from an access token
package gcal

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ServiceFactory builds a calendar.Service for an access token. Tests swap
// in a factory pointed at a local HTTP server.
type ServiceFactory func(ctx context.Context, accessToken string) (*calendar.Service, error)

// NewCalendarService creates a Google Calendar API service from a bearer
// access token.
func NewCalendarService(ctx context.Context, accessToken string) (*calendar.Service, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	service, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return service, nil
}

// NewTestServiceFactory returns a factory whose services talk to baseURL
// instead of Google. Used by handler and bridge tests.
func NewTestServiceFactory(baseURL string) ServiceFactory {
	return func(ctx context.Context, accessToken string) (*calendar.Service, error) {
		return calendar.NewService(ctx,
			option.WithoutAuthentication(),
			option.WithEndpoint(baseURL),
		)
	}
}
