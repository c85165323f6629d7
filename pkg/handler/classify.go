// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package handler

import (
	"context"
	"fmt"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
)

// classify is the Processing-Status Classifier (C1): it resolves the
// change's record-set name/type against the live zone and decides
// whether the change is ready to apply, already applied, or unworkable.
func classify(ctx context.Context, conn connector.DnsConnector, rsc change.RecordSetChange) change.ProcessingStatus {
	live, dnsErr := conn.DnsResolve(ctx, rsc.RecordSet.Name, rsc.Zone.Name, rsc.RecordSet.Type)
	if dnsErr != nil {
		return change.Fail(dnsErr.Message)
	}

	switch rsc.ChangeType {
	case change.Create:
		return classifyCreate(rsc, live)
	case change.Update:
		return classifyUpdate(rsc, live)
	case change.Delete:
		return classifyDelete(live)
	default:
		return change.Fail(fmt.Sprintf("unsupported change type %q", rsc.ChangeType))
	}
}

func classifyCreate(rsc change.RecordSetChange, live []change.RecordSet) change.ProcessingStatus {
	if len(live) == 0 {
		return change.Ready()
	}
	if recordSetsEqual(live, rsc.RecordSet) {
		return change.Applied()
	}
	return change.Fail("record already exists and differs")
}

func classifyUpdate(rsc change.RecordSetChange, live []change.RecordSet) change.ProcessingStatus {
	if len(live) == 0 {
		// Drift accepted when nothing is live: proceed and let verify
		// confirm the post-state.
		return change.Ready()
	}
	if recordSetsEqual(live, rsc.RecordSet) {
		return change.Applied()
	}
	if rsc.Updates != nil && recordSetsEqual(live, *rsc.Updates) {
		return change.Ready()
	}
	return change.Fail("out of sync with the DNS backend; sync this zone and retry")
}

func classifyDelete(live []change.RecordSet) change.ProcessingStatus {
	if len(live) == 0 {
		return change.Applied()
	}
	return change.Ready()
}

// recordSetsEqual reports whether live (a one-or-zero-element resolve
// result) equals want by the §4.1 structural equality.
func recordSetsEqual(live []change.RecordSet, want change.RecordSet) bool {
	if len(live) == 0 {
		return false
	}
	return live[0].Equal(want)
}
