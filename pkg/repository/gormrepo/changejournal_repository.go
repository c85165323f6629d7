// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recordchange/pkg/change"
)

// ChangeJournalRepository is the audit-log journal of change sets,
// keyed by change id so redelivery of an already-finalized change is
// an idempotent no-op write.
type ChangeJournalRepository struct{ db *gorm.DB }

func NewChangeJournalRepository(db *gorm.DB) *ChangeJournalRepository {
	return &ChangeJournalRepository{db: db}
}

func (r *ChangeJournalRepository) Save(ctx context.Context, cs change.ChangeSet) (change.ChangeSet, error) {
	for _, rsc := range cs.Changes {
		rec := &ChangeJournalRecord{
			ID:            rsc.ID,
			ZoneID:        cs.ZoneID,
			ChangeType:    string(rsc.ChangeType),
			RecordSetName: rsc.RecordSet.Name,
			RecordSetType: string(rsc.RecordSet.Type),
			Status:        string(rsc.Status),
			SystemMessage: rsc.SystemMessage,
		}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "system_message", "updated_at"}),
		}).Create(rec).Error; err != nil {
			return cs, fmt.Errorf("gormrepo: save change journal entry %s: %w", rsc.ID, err)
		}
	}
	return cs, nil
}
