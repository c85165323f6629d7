// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package repository defines the persistence capabilities the handler
// consumes: the record-set projection, the audit-log change journal, and
// the user-facing batch change store. The handler never talks to a
// database directly, only to these interfaces.
package repository

import (
	"context"

	"recordchange/pkg/change"
)

// RecordSetRepository maintains the authoritative record-set projection
// and is also consulted by the wildcard bypass rule.
type RecordSetRepository interface {
	// Apply idempotently persists the outcome of a change set against the
	// record-set projection, keyed by change id.
	Apply(ctx context.Context, cs change.ChangeSet) (change.ChangeSet, error)

	// GetRecordSets returns stored record sets matching zoneID/name/type,
	// used by the bypass rule to detect wildcard entries.
	GetRecordSets(ctx context.Context, zoneID, name string, rrType change.RRType) ([]change.RecordSet, error)
}

// RecordChangeRepository is the audit-log journal of change sets.
type RecordChangeRepository interface {
	// Save idempotently records the change set, keyed by change id.
	Save(ctx context.Context, cs change.ChangeSet) (change.ChangeSet, error)
}

// BatchChangeRepository stores user-submitted batch changes.
type BatchChangeRepository interface {
	// GetBatchChange returns the batch change, or (zero, false, nil) if
	// none exists with that id.
	GetBatchChange(ctx context.Context, id string) (change.BatchChange, bool, error)

	// Save persists the whole batch change.
	Save(ctx context.Context, bc change.BatchChange) (change.BatchChange, error)

	// BatchChangeIDsForSingleChanges resolves, for each given
	// SingleChange id, the id of the BatchChange that owns it. This is
	// how the Batch Fan-Out Updater (C6) groups
	// RecordSetChange.SingleBatchChangeIDs by their owning batch without
	// the handler needing to know batch layout.
	BatchChangeIDsForSingleChanges(ctx context.Context, singleChangeIDs []string) (map[string]string, error)
}
