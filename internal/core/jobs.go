package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that accepts change-request
// events and runs the review pipeline for them in the background. It decouples
// the webhook handlers from job execution.
//
//go:generate mockgen -destination=../../mocks/mock_dispatcher.go -package=mocks . JobDispatcher,Job
type JobDispatcher interface {
	// Dispatch hands the event over for processing. It returns an error only
	// when the dispatcher no longer accepts work.
	Dispatch(ctx context.Context, event *ChangeRequestEvent) error
}

// Job is a single unit of work triggered by a ChangeRequestEvent, such as a
// single-model review or a persona committee review.
type Job interface {
	Run(ctx context.Context, event *ChangeRequestEvent) error
}
