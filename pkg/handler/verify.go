// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package handler

import (
	"context"
	"fmt"
	"time"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
)

// DefaultMaxAttempts and DefaultBackoff are the §4.3 verifier defaults:
// 12 attempts, 100ms apart.
const (
	DefaultMaxAttempts = 12
	DefaultBackoff     = 100 * time.Millisecond
)

// sleeper abstracts the backoff wait so tests can exhaust all attempts
// without real wallclock delay.
type sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// verify is the Verifier (C3): it polls the classifier up to maxAttempts
// times, waiting backoff between attempts, until it observes
// AlreadyApplied, gets a Failure (returned at once), or exhausts its
// budget.
func verify(ctx context.Context, conn connector.DnsConnector, rsc change.RecordSetChange, maxAttempts int, backoff time.Duration, sl sleeper) change.ProcessingStatus {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return change.Fail(ctx.Err().Error())
		}

		status := classify(ctx, conn, rsc)
		switch status.Outcome {
		case change.AlreadyApplied:
			return status
		case change.Failure:
			return status
		}

		if attempt < maxAttempts-1 {
			sl.Sleep(ctx, backoff)
		}
	}

	return change.Fail(fmt.Sprintf(
		"verification did not observe expected state after %d attempts for record set %q (%s) in zone %q",
		maxAttempts, rsc.RecordSet.Name, rsc.RecordSet.Type, rsc.Zone.Name))
}
