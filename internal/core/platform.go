package core

import "context"

// Platform is the source-control host a change request lives on. Each hosting
// service has its own adapter; the webhook route decides which one is used.
//
//go:generate mockgen -destination=../../mocks/mock_platform.go -package=mocks . Platform,PlatformResolver
type Platform interface {
	// Name returns the platform identifier ("github" or "gitlab").
	Name() string
	// FetchDiff returns the unified diff of the change request. An empty
	// string is a valid result meaning there is nothing to review.
	FetchDiff(ctx context.Context, event *ChangeRequestEvent) (string, error)
	// PublishComment posts body on the change request.
	PublishComment(ctx context.Context, event *ChangeRequestEvent, body string) error
}

// PlatformResolver builds the Platform adapter that serves an event.
type PlatformResolver interface {
	ForEvent(ctx context.Context, event *ChangeRequestEvent) (Platform, error)
}
