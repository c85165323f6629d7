// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
	"recordchange/pkg/connector/connectortest"
	"recordchange/pkg/repository/memtest"
)

type fakeSleeper struct{ calls int }

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) { f.calls++ }

func aaaaChange() change.RecordSetChange {
	return change.RecordSetChange{
		ID:         "c1",
		ChangeType: change.Create,
		Zone:       change.Zone{ID: "z1", Name: "example.com."},
		RecordSet: change.RecordSet{
			ID:      "rs1",
			Name:    "host.example.com.",
			Type:    change.TypeAAAA,
			TTL:     300,
			Records: []change.RRData{{Address: "2001:db8::1"}},
		},
		SingleBatchChangeIDs: []string{"b1", "b2"},
		Status:               change.StatusPending,
	}
}

func desiredRecordSet() change.RecordSet {
	return change.RecordSet{
		Name:    "host.example.com.",
		Type:    change.TypeAAAA,
		TTL:     300,
		Records: []change.RRData{{Address: "2001:db8::1"}},
	}
}

// newHarness wires a Handler with a fake connector/sleeper and seeds a
// batch change containing b0 (unrelated), b1, b2 (owned by the dispatched
// change), matching the literal §8 scenarios.
func newHarness(t *testing.T) (*Handler, *connectortest.Fake, *memtest.RecordSetRepo, *memtest.ChangeRepo, *memtest.BatchRepo, *fakeSleeper) {
	t.Helper()
	conn := connectortest.New()
	recordSets := memtest.NewRecordSetRepo()
	changes := memtest.NewChangeRepo()
	batches := memtest.NewBatchRepo()
	sl := &fakeSleeper{}

	batches.Seed(change.BatchChange{
		ID: "batch-1",
		Changes: []change.SingleChange{
			{ID: "b0", Status: change.StatusPending},
			{ID: "b1", Status: change.StatusPending},
			{ID: "b2", Status: change.StatusPending},
		},
	})

	h := New(conn, recordSets, changes, batches, Config{})
	h.sleeper = sl
	return h, conn, recordSets, changes, batches, sl
}

func assertB0Untouched(t *testing.T, batches *memtest.BatchRepo) {
	t.Helper()
	bc, ok := batches.Get("batch-1")
	if !ok {
		t.Fatalf("expected batch-1 to exist")
	}
	for _, sc := range bc.Changes {
		if sc.ID == "b0" && sc.Status != change.StatusPending {
			t.Errorf("b0 should be untouched, got status %v", sc.Status)
		}
	}
}

func getSingleChange(t *testing.T, batches *memtest.BatchRepo, id string) change.SingleChange {
	t.Helper()
	bc, ok := batches.Get("batch-1")
	if !ok {
		t.Fatalf("expected batch-1 to exist")
	}
	for _, sc := range bc.Changes {
		if sc.ID == id {
			return sc
		}
	}
	t.Fatalf("no sub-change %s in batch-1", id)
	return change.SingleChange{}
}

// Scenario 1: already applied.
func TestHandle_AlreadyApplied(t *testing.T) {
	h, conn, _, _, batches, _ := newHarness(t)
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{desiredRecordSet()}},
	}

	rsc, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 0 {
		t.Errorf("expected no dnsUpdate call, got %d", conn.UpdateCalls)
	}
	if rsc.RecordSet.Status != change.RecordSetActive {
		t.Errorf("expected Active, got %v", rsc.RecordSet.Status)
	}
	if rsc.Status != change.StatusComplete {
		t.Errorf("expected Complete, got %v", rsc.Status)
	}

	for _, id := range []string{"b1", "b2"} {
		sc := getSingleChange(t, batches, id)
		if sc.Status != change.StatusComplete {
			t.Errorf("%s: expected Complete, got %v", id, sc.Status)
		}
		if sc.RecordChangeID != rsc.ID {
			t.Errorf("%s: expected recordChangeId %s, got %s", id, rsc.ID, sc.RecordChangeID)
		}
	}
	assertB0Untouched(t, batches)
}

// Scenario 2: apply then verify succeeds immediately.
func TestHandle_ApplyThenVerifyImmediate(t *testing.T) {
	h, conn, _, _, _, _ := newHarness(t)
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{}},
		{RecordSets: []change.RecordSet{desiredRecordSet()}},
	}

	rsc, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", conn.UpdateCalls)
	}
	if conn.ResolveCalls != 2 {
		t.Errorf("expected 2 resolves, got %d", conn.ResolveCalls)
	}
	if rsc.Status != change.StatusComplete {
		t.Errorf("expected Complete, got %v", rsc.Status)
	}
}

// Scenario 3: apply then verify retries three times.
func TestHandle_ApplyThenVerifyRetries(t *testing.T) {
	h, conn, _, _, _, _ := newHarness(t)
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{}},
		{RecordSets: []change.RecordSet{}},
		{RecordSets: []change.RecordSet{}},
		{RecordSets: []change.RecordSet{}},
		{RecordSets: []change.RecordSet{desiredRecordSet()}},
	}

	rsc, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", conn.UpdateCalls)
	}
	if conn.ResolveCalls != 5 {
		t.Errorf("expected 5 resolves, got %d", conn.ResolveCalls)
	}
	if rsc.Status != change.StatusComplete {
		t.Errorf("expected Complete, got %v", rsc.Status)
	}
}

// Scenario 4: apply succeeds, verify exhausts.
func TestHandle_VerifyExhausts(t *testing.T) {
	h, conn, _, _, batches, sl := newHarness(t)
	script := make([]connectortest.ResolveResult, 0, 13)
	script = append(script, connectortest.ResolveResult{RecordSets: []change.RecordSet{}})
	for i := 0; i < 12; i++ {
		script = append(script, connectortest.ResolveResult{RecordSets: []change.RecordSet{}})
	}
	conn.ResolveScript = script

	rsc, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", conn.UpdateCalls)
	}
	if conn.ResolveCalls != 13 {
		t.Errorf("expected 13 resolves, got %d", conn.ResolveCalls)
	}
	if rsc.Status != change.StatusFailed {
		t.Errorf("expected Failed, got %v", rsc.Status)
	}
	if rsc.RecordSet.Status != change.RecordSetInactive {
		t.Errorf("expected Inactive, got %v", rsc.RecordSet.Status)
	}
	if rsc.SystemMessage == "" {
		t.Errorf("expected non-empty systemMessage")
	}
	if sl.calls != 11 {
		t.Errorf("expected 11 sleeps between 12 attempts, got %d", sl.calls)
	}

	for _, id := range []string{"b1", "b2"} {
		sc := getSingleChange(t, batches, id)
		if sc.Status != change.StatusFailed {
			t.Errorf("%s: expected Failed, got %v", id, sc.Status)
		}
		if sc.RecordChangeID != rsc.ID {
			t.Errorf("%s: expected recordChangeId set", id)
		}
		if sc.SystemMessage != rsc.SystemMessage {
			t.Errorf("%s: expected systemMessage copied from change", id)
		}
	}
	assertB0Untouched(t, batches)
}

// Scenario 5: apply refused.
func TestHandle_ApplyRefused(t *testing.T) {
	h, conn, _, _, _, _ := newHarness(t)
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{}},
	}
	conn.UpdateResult = nil
	conn.UpdateErr = &connector.DnsError{Code: connector.Refused, Message: "dns failure"}

	rsc, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", conn.UpdateCalls)
	}
	if conn.ResolveCalls != 1 {
		t.Errorf("expected 1 resolve (verify skipped), got %d", conn.ResolveCalls)
	}
	if rsc.Status != change.StatusFailed {
		t.Errorf("expected Failed, got %v", rsc.Status)
	}
	if !strings.Contains(rsc.SystemMessage, "dns failure") {
		t.Errorf("expected systemMessage to contain %q, got %q", "dns failure", rsc.SystemMessage)
	}
}

// Scenario 6: update drift.
func TestHandle_UpdateDrift(t *testing.T) {
	h, conn, _, _, _, _ := newHarness(t)

	driftedLive := change.RecordSet{Name: "host.example.com.", Type: change.TypeAAAA, TTL: 30, Records: []change.RRData{{Address: "2001:db8::1"}}}
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{driftedLive}},
	}

	rsc := aaaaChange()
	rsc.ChangeType = change.Update
	expectedPreImage := change.RecordSet{Name: "host.example.com.", Type: change.TypeAAAA, TTL: 300, Records: []change.RRData{{Address: "2001:db8::1"}}}
	rsc.Updates = &expectedPreImage

	out, err := h.Handle(context.Background(), rsc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 0 {
		t.Errorf("expected no dnsUpdate call, got %d", conn.UpdateCalls)
	}
	if out.Status != change.StatusFailed {
		t.Errorf("expected Failed, got %v", out.Status)
	}
	if !strings.Contains(out.SystemMessage, "out of sync with the DNS backend") {
		t.Errorf("expected drift message, got %q", out.SystemMessage)
	}
}

// Scenario 7: wildcard bypass.
func TestHandle_WildcardBypass(t *testing.T) {
	h, conn, recordSets, _, _, _ := newHarness(t)
	rsc := aaaaChange()
	recordSets.SeedWildcard(rsc.Zone.ID, rsc.RecordSet.Name, rsc.RecordSet.Type, change.RecordSet{Name: "*.example.com."})

	out, err := h.Handle(context.Background(), rsc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.ResolveCalls != 0 {
		t.Errorf("expected no resolve calls, got %d", conn.ResolveCalls)
	}
	if conn.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", conn.UpdateCalls)
	}
	if out.Status != change.StatusComplete {
		t.Errorf("expected Complete, got %v", out.Status)
	}
}

// Scenario 8: NS bypass.
func TestHandle_NSBypass(t *testing.T) {
	h, conn, _, _, _, _ := newHarness(t)
	rsc := aaaaChange()
	rsc.RecordSet.Type = change.TypeNS
	rsc.RecordSet.Records = []change.RRData{{Target: "ns1.example.com."}}

	out, err := h.Handle(context.Background(), rsc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.ResolveCalls != 0 {
		t.Errorf("expected no resolve calls, got %d", conn.ResolveCalls)
	}
	if conn.UpdateCalls != 1 {
		t.Errorf("expected 1 update, got %d", conn.UpdateCalls)
	}
	if out.Status != change.StatusComplete {
		t.Errorf("expected Complete, got %v", out.Status)
	}
}

// DryRun classifies the change but never calls DnsUpdate or writes to
// any repository.
func TestHandle_DryRun(t *testing.T) {
	h, conn, recordSets, changes, batches, _ := newHarness(t)
	h.Config.DryRun = true
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{}},
	}

	rsc, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.UpdateCalls != 0 {
		t.Errorf("expected no dnsUpdate call, got %d", conn.UpdateCalls)
	}
	if recordSets.ApplyCalls != 0 {
		t.Errorf("expected no record set write, got %d", recordSets.ApplyCalls)
	}
	if changes.SaveCalls != 0 {
		t.Errorf("expected no change journal write, got %d", changes.SaveCalls)
	}
	if rsc.Status != change.StatusPending {
		t.Errorf("expected Pending (untouched), got %v", rsc.Status)
	}
	assertB0Untouched(t, batches)
	for _, id := range []string{"b1", "b2"} {
		sc := getSingleChange(t, batches, id)
		if sc.Status != change.StatusPending {
			t.Errorf("%s: expected Pending (untouched by dry-run), got %v", id, sc.Status)
		}
	}
}

// Universal invariant: exactly one apply, one save, on a Complete run.
func TestHandle_CompleteRunWritesExactlyOnce(t *testing.T) {
	h, conn, recordSets, changes, _, _ := newHarness(t)
	conn.ResolveScript = []connectortest.ResolveResult{
		{RecordSets: []change.RecordSet{desiredRecordSet()}},
	}

	_, err := h.Handle(context.Background(), aaaaChange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recordSets.ApplyCalls != 1 {
		t.Errorf("expected exactly 1 apply call, got %d", recordSets.ApplyCalls)
	}
	if changes.SaveCalls != 1 {
		t.Errorf("expected exactly 1 save call, got %d", changes.SaveCalls)
	}
}
