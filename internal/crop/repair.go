package crop

import (
	"context"
	"encoding/json"
	"fmt"

	"cropdesk/internal/jobs"
	"cropdesk/internal/logger"
)

// RepairJobType names jobs that prune dangling ids from a crop index.
const RepairJobType = "CROP_INDEX_REPAIR"

type repairPayload struct {
	CropIDs []string `json:"crop_ids"`
}

func (r *Repository) requestRepair(ctx context.Context, userID string, ids []string) {
	if r.Repairs == nil {
		return
	}
	if err := r.Repairs.Enqueue(ctx, userID, RepairJobType, repairPayload{CropIDs: ids}, r.now()); err != nil {
		logger.Warn("enqueue crop index repair failed", "user", userID, "error", err)
	}
}

// RepairIndex drops the given ids from the user's index when their record is
// still missing. It returns how many ids were removed.
func (r *Repository) RepairIndex(ctx context.Context, userID string, ids []string) (int, error) {
	dangling := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		var c Crop
		ok, err := r.Store.Get(ctx, recordKey(userID, id), &c)
		if err != nil {
			return 0, fmt.Errorf("read crop %s: %w", id, err)
		}
		if !ok {
			dangling[id] = struct{}{}
		}
	}
	if len(dangling) == 0 {
		return 0, nil
	}

	current, err := r.index(ctx, userID)
	if err != nil {
		return 0, err
	}
	kept := without(current, dangling)
	removed := len(current) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.Store.Set(ctx, indexKey(userID), kept); err != nil {
		return 0, fmt.Errorf("save crop index: %w", err)
	}
	return removed, nil
}

// HandleRepairJob is the jobs.HandlerFunc for RepairJobType.
func (r *Repository) HandleRepairJob(ctx context.Context, job *jobs.Job) error {
	var p repairPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("%w: %v", jobs.ErrPermanent, err)
	}

	n, err := r.RepairIndex(ctx, job.UserID, p.CropIDs)
	if err != nil {
		return err
	}
	logger.Info("crop index repaired", "user", job.UserID, "removed", n)
	return nil
}
