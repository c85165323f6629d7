// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package handler

import (
	"context"
	"fmt"
	"time"

	"recordchange/pkg/change"
	"recordchange/pkg/repository"
)

// finalize is the Change-Set Finalizer (C5). It sets the terminal status
// on the record set and change, wraps the change in a singleton
// ChangeSet, and writes it to both repositories in order: record-set
// projection first, then the audit-log journal. Both writes happen
// regardless of success or failure; any write error is an
// infrastructure error distinct from a change-level failure.
func finalize(
	ctx context.Context,
	recordSets repository.RecordSetRepository,
	changes repository.RecordChangeRepository,
	rsc change.RecordSetChange,
	succeeded bool,
	systemMessage string,
) (change.RecordSetChange, error) {
	if succeeded {
		rsc.RecordSet.Status = change.RecordSetActive
		rsc.Status = change.StatusComplete
		rsc.SystemMessage = ""
	} else {
		rsc.RecordSet.Status = change.RecordSetInactive
		rsc.Status = change.StatusFailed
		rsc.SystemMessage = systemMessage
	}

	cs := change.ChangeSet{
		ZoneID:           rsc.Zone.ID,
		Status:           change.ChangeSetDone,
		Changes:          []change.RecordSetChange{rsc},
		CreatedTimestamp: timeNow(),
	}

	if _, err := recordSets.Apply(ctx, cs); err != nil {
		return rsc, fmt.Errorf("finalize: record-set repository apply failed: %w", err)
	}
	if _, err := changes.Save(ctx, cs); err != nil {
		return rsc, fmt.Errorf("finalize: change repository save failed: %w", err)
	}

	return rsc, nil
}

// timeNow is a seam for tests that need deterministic ChangeSet
// timestamps; production always uses wallclock time.
var timeNow = time.Now
