// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package handler

import (
	"context"

	"recordchange/pkg/change"
	"recordchange/pkg/repository"
)

// bypassApplies is the Wildcard/NS Bypass Rule (C2): validation and
// verification are skipped for NS changes and for record sets stored as
// a wildcard entry in this zone/type. The simplest correct
// implementation (endorsed by the rule's own description) is to fetch
// record sets by (zoneID, name, type) and check for a non-empty result;
// a repository that indexes wildcard entries under their literal "*"
// leftmost label returns them for any name the wildcard covers.
func bypassApplies(ctx context.Context, repo repository.RecordSetRepository, rsc change.RecordSetChange) (bool, error) {
	if rsc.RecordSet.Type == change.TypeNS {
		return true, nil
	}

	existing, err := repo.GetRecordSets(ctx, rsc.Zone.ID, rsc.RecordSet.Name, rsc.RecordSet.Type)
	if err != nil {
		return false, err
	}
	return len(existing) > 0, nil
}
