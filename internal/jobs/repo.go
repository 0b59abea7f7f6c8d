package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// stale RUNNING jobs are handed back to the queue after this long
const lockTimeout = 5 * time.Minute

type Repo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (r *Repo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Repo) Enqueue(ctx context.Context, userID, jobType string, payload any, runAt time.Time) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode job payload: %w", err)
	}
	j := Job{
		UserID:      userID,
		Type:        jobType,
		Payload:     datatypes.JSON(b),
		RunAt:       runAt.UTC(),
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
	}
	return r.DB.WithContext(ctx).Create(&j).Error
}

// Claim moves the oldest due job to RUNNING. The conditional update keeps two
// workers from claiming the same row on any dialect. Returns nil when idle.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	now := r.now()
	var claimed *Job

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Job{}).
			Where("status = ? AND locked_at < ?", StatusRunning, now.Add(-lockTimeout)).
			Updates(map[string]any{
				"status":     StatusPending,
				"locked_by":  nil,
				"locked_at":  nil,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		var due []Job
		if err := tx.Where("status = ? AND run_at <= ?", StatusPending, now).
			Order("run_at asc").
			Limit(1).
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}

		job := due[0]
		res := tx.Model(&Job{}).
			Where("id = ? AND status = ?", job.ID, StatusPending).
			Updates(map[string]any{
				"status":     StatusRunning,
				"locked_by":  workerID,
				"locked_at":  now,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		job.Status = StatusRunning
		job.LockedBy = &workerID
		job.LockedAt = &now
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{"status": StatusDone, "updated_at": r.now()}).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{"status": StatusFailed, "last_error": errMsg, "updated_at": r.now()}).Error
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     StatusPending,
			"attempts":   attempts,
			"run_at":     runAt.UTC(),
			"locked_by":  nil,
			"locked_at":  nil,
			"last_error": errMsg,
			"updated_at": r.now(),
		}).Error
}

func (r *Repo) Find(ctx context.Context, id uint64) (*Job, error) {
	var j Job
	if err := r.DB.WithContext(ctx).First(&j, id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}
