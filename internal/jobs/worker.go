package jobs

import (
	"context"
	"errors"
	"math"
	"time"

	"cropdesk/internal/logger"
)

// ErrPermanent marks a handler failure that retrying cannot fix.
var ErrPermanent = errors.New("permanent job failure")

type HandlerFunc func(ctx context.Context, job *Job) error

type Worker struct {
	ID       string
	Repo     *Repo
	Interval time.Duration

	handlers map[string]HandlerFunc
}

func (w *Worker) Handle(jobType string, h HandlerFunc) {
	if w.handlers == nil {
		w.handlers = make(map[string]HandlerFunc)
	}
	w.handlers[jobType] = h
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				logger.Error("worker claim error", "worker", w.ID, "error", err)
			}
		}
	}
}

// RunOnce claims and processes at most one job. It reports whether a job ran.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.Repo.Claim(ctx, w.ID)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	h, ok := w.handlers[job.Type]
	if !ok {
		w.finish(job.ID, w.Repo.MarkFailed(ctx, job.ID, "unknown job type"))
		return
	}

	err := h(ctx, job)
	switch {
	case err == nil:
		w.finish(job.ID, w.Repo.MarkDone(ctx, job.ID))
	case errors.Is(err, ErrPermanent):
		logger.Warn("job failed permanently", "job", job.ID, "type", job.Type, "error", err)
		w.finish(job.ID, w.Repo.MarkFailed(ctx, job.ID, err.Error()))
	default:
		logger.Warn("job failed, will retry", "job", job.ID, "type", job.Type, "error", err)
		w.retry(ctx, job, err.Error())
	}
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		w.finish(job.ID, w.Repo.MarkFailed(ctx, job.ID, errMsg))
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := w.Repo.now().Add(time.Duration(sec) * time.Second)

	w.finish(job.ID, w.Repo.RetryLater(ctx, job.ID, attempts, next, errMsg))
}

func (w *Worker) finish(id uint64, err error) {
	if err != nil {
		logger.Error("job state update failed", "job", id, "error", err)
	}
}
