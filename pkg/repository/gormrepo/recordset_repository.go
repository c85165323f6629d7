// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recordchange/pkg/change"
)

// RecordSetRepository persists the record-set projection the handler
// writes on every Persist step and consults for the bypass rule.
type RecordSetRepository struct{ db *gorm.DB }

func NewRecordSetRepository(db *gorm.DB) *RecordSetRepository {
	return &RecordSetRepository{db: db}
}

func recordSetKey(zoneID, name, rrType string) string {
	return zoneID + "|" + name + "|" + rrType
}

func (r *RecordSetRepository) Apply(ctx context.Context, cs change.ChangeSet) (change.ChangeSet, error) {
	for _, rsc := range cs.Changes {
		rec, err := recordSetToRecord(cs.ZoneID, rsc.RecordSet)
		if err != nil {
			return cs, fmt.Errorf("gormrepo: encode record set %s: %w", rsc.RecordSet.Name, err)
		}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"ttl", "records_json", "status", "updated_at"}),
		}).Create(rec).Error; err != nil {
			return cs, fmt.Errorf("gormrepo: apply record set %s: %w", rsc.RecordSet.Name, err)
		}
	}
	return cs, nil
}

func (r *RecordSetRepository) GetRecordSets(ctx context.Context, zoneID, name string, rrType change.RRType) ([]change.RecordSet, error) {
	var rec RecordSetRecord
	err := r.db.WithContext(ctx).Where("id = ?", recordSetKey(zoneID, name, string(rrType))).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return []change.RecordSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gormrepo: get record set %s: %w", name, err)
	}
	rs, err := recordFromRecord(&rec)
	if err != nil {
		return nil, fmt.Errorf("gormrepo: decode record set %s: %w", name, err)
	}
	return []change.RecordSet{rs}, nil
}

func recordSetToRecord(zoneID string, rs change.RecordSet) (*RecordSetRecord, error) {
	recordsJSON, err := json.Marshal(rs.Records)
	if err != nil {
		return nil, err
	}
	return &RecordSetRecord{
		ID:          recordSetKey(zoneID, rs.Name, string(rs.Type)),
		ZoneID:      zoneID,
		Name:        rs.Name,
		Type:        string(rs.Type),
		TTL:         rs.TTL,
		RecordsJSON: string(recordsJSON),
		Status:      string(rs.Status),
	}, nil
}

func recordFromRecord(rec *RecordSetRecord) (change.RecordSet, error) {
	var records []change.RRData
	if rec.RecordsJSON != "" {
		if err := json.Unmarshal([]byte(rec.RecordsJSON), &records); err != nil {
			return change.RecordSet{}, err
		}
	}
	return change.RecordSet{
		Name:    rec.Name,
		Type:    change.RRType(rec.Type),
		TTL:     rec.TTL,
		Records: records,
		Status:  change.RecordSetStatus(rec.Status),
	}, nil
}
