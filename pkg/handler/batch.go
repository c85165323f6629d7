// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package handler

import (
	"context"
	"fmt"

	"recordchange/pkg/change"
	"recordchange/pkg/repository"
)

// fanOutToBatches is the Batch Fan-Out Updater (C6). For every batch
// reachable via rsc.SingleBatchChangeIDs, it loads the batch, patches
// only the sub-changes this record-set change owns, and writes the
// whole batch back. Sub-changes belonging to other record-set changes
// are never touched.
func fanOutToBatches(ctx context.Context, batches repository.BatchChangeRepository, rsc change.RecordSetChange) error {
	if len(rsc.SingleBatchChangeIDs) == 0 {
		return nil
	}

	owned := make(map[string]bool, len(rsc.SingleBatchChangeIDs))
	for _, id := range rsc.SingleBatchChangeIDs {
		owned[id] = true
	}

	batchIDsByChange, err := batches.BatchChangeIDsForSingleChanges(ctx, rsc.SingleBatchChangeIDs)
	if err != nil {
		return fmt.Errorf("fanOutToBatches: resolve owning batches: %w", err)
	}

	touchedBatches := make(map[string]bool)
	for _, singleID := range rsc.SingleBatchChangeIDs {
		batchID, ok := batchIDsByChange[singleID]
		if !ok {
			continue
		}
		touchedBatches[batchID] = true
	}

	for batchID := range touchedBatches {
		bc, found, err := batches.GetBatchChange(ctx, batchID)
		if err != nil {
			return fmt.Errorf("fanOutToBatches: load batch %s: %w", batchID, err)
		}
		if !found {
			continue
		}

		patchBatch(&bc, owned, rsc)

		if _, err := batches.Save(ctx, bc); err != nil {
			return fmt.Errorf("fanOutToBatches: save batch %s: %w", batchID, err)
		}
	}
	return nil
}

// patchBatch is the read-modify-write step: every sub-change whose id is
// owned by rsc is updated in place; every other sub-change is left
// byte-identical.
func patchBatch(bc *change.BatchChange, owned map[string]bool, rsc change.RecordSetChange) {
	for i := range bc.Changes {
		sc := &bc.Changes[i]
		if !owned[sc.ID] {
			continue
		}

		sc.RecordChangeID = rsc.ID
		if rsc.Status == change.StatusComplete {
			sc.Status = change.StatusComplete
			sc.RecordSetID = rsc.RecordSet.ID
			sc.SystemMessage = ""
		} else {
			sc.Status = change.StatusFailed
			sc.SystemMessage = rsc.SystemMessage
		}
	}
}
