package crop

import (
	"context"
	"fmt"
	"time"

	"cropdesk/internal/kv"
	"cropdesk/internal/logger"

	"github.com/google/uuid"
)

// JobQueue accepts background work; jobs.Repo satisfies it.
type JobQueue interface {
	Enqueue(ctx context.Context, userID, jobType string, payload any, runAt time.Time) error
}

// Repository owns crop records and the per-user crop index.
// Writes for one user are not serialized: concurrent updates are last-write-wins.
type Repository struct {
	Store kv.Store

	// Repairs, when set, receives index repair jobs for ids whose record is gone.
	Repairs JobQueue

	Now   func() time.Time
	NewID func() string
}

func recordKey(userID, cropID string) string { return kv.Key("crop", userID, cropID) }

func indexKey(userID string) string { return kv.Key("farmer_crops", userID) }

func (r *Repository) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Repository) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func (r *Repository) index(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if _, err := r.Store.Get(ctx, indexKey(userID), &ids); err != nil {
		return nil, fmt.Errorf("read crop index: %w", err)
	}
	return ids, nil
}

func (r *Repository) Create(ctx context.Context, userID string, in NewCrop) (Crop, error) {
	now := r.now()
	c, err := in.build(r.newID(), DateOf(now))
	if err != nil {
		return Crop{}, err
	}
	c.CreatedAt = now

	// record first: a failed index write leaves an unlisted record, never a dangling id
	if err := r.Store.Set(ctx, recordKey(userID, c.ID), c); err != nil {
		return Crop{}, fmt.Errorf("save crop: %w", err)
	}

	ids, err := r.index(ctx, userID)
	if err != nil {
		return Crop{}, err
	}
	ids = append(ids, c.ID)
	if err := r.Store.Set(ctx, indexKey(userID), ids); err != nil {
		return Crop{}, fmt.Errorf("save crop index: %w", err)
	}
	return c, nil
}

// List returns the user's crops in index order. Ids without a record are
// skipped, logged and handed to the repair queue.
func (r *Repository) List(ctx context.Context, userID string) ([]Crop, error) {
	ids, err := r.index(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Crop, 0, len(ids))
	var missing []string
	for _, id := range ids {
		var c Crop
		ok, err := r.Store.Get(ctx, recordKey(userID, id), &c)
		if err != nil {
			return nil, fmt.Errorf("read crop %s: %w", id, err)
		}
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, c)
	}

	if len(missing) > 0 {
		logger.Warn("crop index references missing records", "user", userID, "missing", missing)
		r.requestRepair(ctx, userID, missing)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, userID, cropID string) (Crop, error) {
	var c Crop
	ok, err := r.Store.Get(ctx, recordKey(userID, cropID), &c)
	if err != nil {
		return Crop{}, fmt.Errorf("read crop %s: %w", cropID, err)
	}
	if !ok {
		return Crop{}, ErrNotFound
	}
	return c, nil
}

// Update merges p into the stored record. It never creates a record.
func (r *Repository) Update(ctx context.Context, userID, cropID string, p Patch) (Crop, error) {
	c, err := r.Get(ctx, userID, cropID)
	if err != nil {
		return Crop{}, err
	}

	datesChanged, err := p.apply(&c)
	if err != nil {
		return Crop{}, err
	}
	if err := c.validate(); err != nil {
		return Crop{}, err
	}

	now := r.now()
	switch {
	case p.Progress != nil:
		c.Progress = clampPercent(*p.Progress)
	case datesChanged && c.ExpectedHarvest != nil:
		c.Progress = Progress(c.PlantedDate, *c.ExpectedHarvest, DateOf(now))
	}

	if c.UpdatedAt != nil && now.Before(*c.UpdatedAt) {
		now = *c.UpdatedAt
	}
	c.UpdatedAt = &now

	if err := r.Store.Set(ctx, recordKey(userID, cropID), c); err != nil {
		return Crop{}, fmt.Errorf("save crop: %w", err)
	}
	return c, nil
}

// Delete removes the record and its index entry. Deleting an unknown id is a no-op.
func (r *Repository) Delete(ctx context.Context, userID, cropID string) error {
	if err := r.Store.Delete(ctx, recordKey(userID, cropID)); err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}

	ids, err := r.index(ctx, userID)
	if err != nil {
		return err
	}
	kept := without(ids, map[string]struct{}{cropID: {}})
	if len(kept) == len(ids) {
		return nil
	}
	if err := r.Store.Set(ctx, indexKey(userID), kept); err != nil {
		return fmt.Errorf("save crop index: %w", err)
	}
	return nil
}

func without(ids []string, drop map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
