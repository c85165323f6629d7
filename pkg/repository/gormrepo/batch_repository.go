// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"recordchange/pkg/change"
)

// BatchChangeRepository stores user-submitted batch changes. Save uses
// the Version column for optimistic concurrency: the fan-out updater's
// read-modify-write of a batch loses the race against a concurrent
// writer rather than silently clobbering it.
type BatchChangeRepository struct{ db *gorm.DB }

func NewBatchChangeRepository(db *gorm.DB) *BatchChangeRepository {
	return &BatchChangeRepository{db: db}
}

func (r *BatchChangeRepository) GetBatchChange(ctx context.Context, id string) (change.BatchChange, bool, error) {
	var rec BatchChangeRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return change.BatchChange{}, false, nil
	}
	if err != nil {
		return change.BatchChange{}, false, fmt.Errorf("gormrepo: get batch change %s: %w", id, err)
	}

	bc, err := batchFromRecord(&rec)
	if err != nil {
		return change.BatchChange{}, false, fmt.Errorf("gormrepo: decode batch change %s: %w", id, err)
	}
	return bc, true, nil
}

func (r *BatchChangeRepository) Save(ctx context.Context, bc change.BatchChange) (change.BatchChange, error) {
	changesJSON, err := json.Marshal(bc.Changes)
	if err != nil {
		return bc, fmt.Errorf("gormrepo: encode batch change %s: %w", bc.ID, err)
	}

	var existing BatchChangeRecord
	err = r.db.WithContext(ctx).Where("id = ?", bc.ID).First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		rec := &BatchChangeRecord{ID: bc.ID, ChangesJSON: string(changesJSON), Version: 1}
		if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
			return bc, fmt.Errorf("gormrepo: create batch change %s: %w", bc.ID, err)
		}
		return bc, nil
	case err != nil:
		return bc, fmt.Errorf("gormrepo: load batch change %s for update: %w", bc.ID, err)
	}

	res := r.db.WithContext(ctx).Model(&BatchChangeRecord{}).
		Where("id = ? AND version = ?", bc.ID, existing.Version).
		Updates(map[string]interface{}{
			"changes_json": string(changesJSON),
			"version":      existing.Version + 1,
		})
	if res.Error != nil {
		return bc, fmt.Errorf("gormrepo: save batch change %s: %w", bc.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return bc, fmt.Errorf("gormrepo: batch change %s was concurrently modified, retry", bc.ID)
	}
	return bc, nil
}

// BatchChangeIDsForSingleChanges scans the batch changes table for each
// requested sub-change id and reports which batch owns it.
func (r *BatchChangeRepository) BatchChangeIDsForSingleChanges(ctx context.Context, singleChangeIDs []string) (map[string]string, error) {
	want := make(map[string]bool, len(singleChangeIDs))
	for _, id := range singleChangeIDs {
		want[id] = true
	}

	var recs []BatchChangeRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("gormrepo: scan batch changes: %w", err)
	}

	result := make(map[string]string)
	for _, rec := range recs {
		bc, err := batchFromRecord(&rec)
		if err != nil {
			return nil, fmt.Errorf("gormrepo: decode batch change %s: %w", rec.ID, err)
		}
		for _, sc := range bc.Changes {
			if want[sc.ID] {
				result[sc.ID] = bc.ID
			}
		}
	}
	return result, nil
}

func batchFromRecord(rec *BatchChangeRecord) (change.BatchChange, error) {
	var changes []change.SingleChange
	if rec.ChangesJSON != "" {
		if err := json.Unmarshal([]byte(rec.ChangesJSON), &changes); err != nil {
			return change.BatchChange{}, err
		}
	}
	return change.BatchChange{ID: rec.ID, Changes: changes}, nil
}
