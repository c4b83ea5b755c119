package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrQueueFull is returned when a sync cannot be accepted.
var ErrQueueFull = errors.New("sync queue full")

// SyncFunc performs one sync run.
type SyncFunc func(ctx context.Context, pageID string) error

type syncTask struct {
	runID  string
	pageID string
}

// Runner is the handoff between the webhook and sync work. The webhook
// enqueues and returns immediately; a worker drains the queue, retrying
// each task up to the retry budget. Unlike a detached goroutine, the
// queue makes failures observable (every attempt logs under the run id)
// and rejects work visibly when full.
type Runner struct {
	run     SyncFunc
	tasks   chan syncTask
	retries int
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewRunner creates a runner with the given queue capacity and per-task
// retry budget. Call Start before enqueueing.
func NewRunner(run SyncFunc, queueSize, retries int, logger *slog.Logger) *Runner {
	return &Runner{
		run:     run,
		tasks:   make(chan syncTask, queueSize),
		retries: retries,
		logger:  logger,
	}
}

// Start launches the worker. ctx cancels in-flight runs on shutdown.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for task := range r.tasks {
			r.process(ctx, task)
		}
	}()
}

// Close stops accepting work and waits for the queue to drain.
func (r *Runner) Close() {
	close(r.tasks)
	r.wg.Wait()
}

// Enqueue submits a page for syncing and returns the run id for log
// correlation, or ErrQueueFull when the queue cannot accept it.
func (r *Runner) Enqueue(pageID string) (string, error) {
	task := syncTask{
		runID:  uuid.NewString(),
		pageID: pageID,
	}
	select {
	case r.tasks <- task:
		r.logger.Info("sync enqueued", "run_id", task.runID, "page_id", pageID)
		return task.runID, nil
	default:
		return "", ErrQueueFull
	}
}

func (r *Runner) process(ctx context.Context, task syncTask) {
	logger := r.logger.With("run_id", task.runID, "page_id", task.pageID)

	for attempt := 0; attempt <= r.retries; attempt++ {
		err := r.run(ctx, task.pageID)
		if err == nil {
			logger.Info("sync succeeded", "attempt", attempt+1)
			return
		}
		logger.Error("sync attempt failed", "attempt", attempt+1, "error", err)

		if ctx.Err() != nil {
			return
		}
	}
	logger.Error("sync abandoned", "attempts", r.retries+1)
}
