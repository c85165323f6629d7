// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package gormrepo

import "time"

// RecordSetRecord is the persistence model for the record-set
// projection, one row per (zoneID, name, type).
type RecordSetRecord struct {
	ID          string `gorm:"primaryKey;type:text;not null"`
	ZoneID      string `gorm:"type:text;not null;index:idx_recordsets_lookup"`
	Name        string `gorm:"type:text;not null;index:idx_recordsets_lookup"`
	Type        string `gorm:"type:text;not null;index:idx_recordsets_lookup"`
	TTL         uint32 `gorm:"not null"`
	RecordsJSON string `gorm:"type:text"` // JSON encoded []change.RRData
	Status      string `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RecordSetRecord) TableName() string { return "record_sets" }

// ChangeJournalRecord is the persistence model for the audit-log
// journal of record-set changes, one row per change id.
type ChangeJournalRecord struct {
	ID            string `gorm:"primaryKey;type:text;not null"`
	ZoneID        string `gorm:"type:text;not null"`
	ChangeType    string `gorm:"type:text;not null"`
	RecordSetName string `gorm:"type:text;not null"`
	RecordSetType string `gorm:"type:text;not null"`
	Status        string `gorm:"type:text;not null"`
	SystemMessage string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ChangeJournalRecord) TableName() string { return "change_journal" }

// BatchChangeRecord is the persistence model for a user-submitted batch
// change. Version supports optimistic concurrency on the fan-out
// updater's read-modify-write of ChangesJSON.
type BatchChangeRecord struct {
	ID          string `gorm:"primaryKey;type:text;not null"`
	ChangesJSON string `gorm:"type:text"` // JSON encoded []change.SingleChange
	Version     int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (BatchChangeRecord) TableName() string { return "batch_changes" }
