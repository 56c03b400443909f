// Package jobs defines background tasks such as automated code reviews.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sevigo/review-bot/internal/core"
)

// ErrDispatcherStopped is returned by Dispatch after Stop has been called.
var ErrDispatcherStopped = errors.New("dispatcher is stopped")

// Dispatcher implements core.JobDispatcher. Every accepted event runs on its
// own goroutine; there is no queue, no concurrency limit and no deduplication.
type Dispatcher struct {
	job    core.Job
	logger *slog.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

var _ core.JobDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher that runs job for each event.
func NewDispatcher(job core.Job, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{job: job, logger: logger}
}

// Dispatch starts the job in the background and returns immediately. The job
// runs with a fresh context so it outlives the inbound request.
func (d *Dispatcher) Dispatch(_ context.Context, event *core.ChangeRequestEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	jobID := uuid.NewString()
	d.logger.Info("dispatching review job",
		"job_id", jobID,
		"platform", event.Platform,
		"repo", event.RepoFullName,
		"number", event.Number,
	)

	d.wg.Add(1)
	go d.run(jobID, event)
	return nil
}

func (d *Dispatcher) run(jobID string, event *core.ChangeRequestEvent) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("review job panicked", "job_id", jobID, "panic", r)
		}
	}()

	logger := d.logger.With("job_id", jobID)
	if err := d.job.Run(context.Background(), event); err != nil {
		logger.Error("review job failed",
			"platform", event.Platform,
			"repo", event.RepoFullName,
			"number", event.Number,
			"error", err,
		)
		return
	}
	logger.Info("review job finished", "repo", event.RepoFullName, "number", event.Number)
}

// Stop refuses new events and waits for the running jobs to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.wg.Wait()
	d.logger.Info("all review jobs have finished")
}
