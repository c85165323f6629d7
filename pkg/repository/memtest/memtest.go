// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package memtest provides in-memory fakes of the repository
// capabilities, recording call counts so tests can assert the §8
// universal invariants (exactly one apply, exactly one save, ...).
package memtest

import (
	"context"
	"sync"

	"recordchange/pkg/change"
)

// RecordSetRepo is an in-memory RecordSetRepository fake.
type RecordSetRepo struct {
	mu         sync.Mutex
	ApplyCalls int
	Wildcards  map[string][]change.RecordSet // key: zoneID|name|type
}

func NewRecordSetRepo() *RecordSetRepo {
	return &RecordSetRepo{Wildcards: make(map[string][]change.RecordSet)}
}

func (r *RecordSetRepo) Apply(ctx context.Context, cs change.ChangeSet) (change.ChangeSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ApplyCalls++
	return cs, nil
}

func (r *RecordSetRepo) GetRecordSets(ctx context.Context, zoneID, name string, rrType change.RRType) ([]change.RecordSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Wildcards[wildcardKey(zoneID, name, rrType)], nil
}

// SeedWildcard registers a stored record set so the bypass rule detects
// zoneID/name/type as a wildcard entry in tests.
func (r *RecordSetRepo) SeedWildcard(zoneID, name string, rrType change.RRType, rs change.RecordSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := wildcardKey(zoneID, name, rrType)
	r.Wildcards[key] = append(r.Wildcards[key], rs)
}

func wildcardKey(zoneID, name string, rrType change.RRType) string {
	return zoneID + "|" + name + "|" + string(rrType)
}

// ChangeRepo is an in-memory RecordChangeRepository fake.
type ChangeRepo struct {
	mu        sync.Mutex
	SaveCalls int
	Saved     []change.ChangeSet
}

func NewChangeRepo() *ChangeRepo {
	return &ChangeRepo{}
}

func (r *ChangeRepo) Save(ctx context.Context, cs change.ChangeSet) (change.ChangeSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SaveCalls++
	r.Saved = append(r.Saved, cs)
	return cs, nil
}

// BatchRepo is an in-memory BatchChangeRepository fake.
type BatchRepo struct {
	mu      sync.Mutex
	batches map[string]change.BatchChange
	Saves   int
}

func NewBatchRepo() *BatchRepo {
	return &BatchRepo{batches: make(map[string]change.BatchChange)}
}

// Seed installs a batch change as if it had been submitted previously.
func (r *BatchRepo) Seed(bc change.BatchChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[bc.ID] = bc
}

func (r *BatchRepo) GetBatchChange(ctx context.Context, id string) (change.BatchChange, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bc, ok := r.batches[id]
	return bc, ok, nil
}

func (r *BatchRepo) Save(ctx context.Context, bc change.BatchChange) (change.BatchChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saves++
	r.batches[bc.ID] = bc
	return bc, nil
}

// Get returns the current stored value for id, for test assertions.
func (r *BatchRepo) Get(id string) (change.BatchChange, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bc, ok := r.batches[id]
	return bc, ok
}

// BatchChangeIDsForSingleChanges scans the seeded batches for each
// requested sub-change id and reports which batch owns it.
func (r *BatchRepo) BatchChangeIDsForSingleChanges(ctx context.Context, singleChangeIDs []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool, len(singleChangeIDs))
	for _, id := range singleChangeIDs {
		want[id] = true
	}

	result := make(map[string]string)
	for batchID, bc := range r.batches {
		for _, sc := range bc.Changes {
			if want[sc.ID] {
				result[sc.ID] = batchID
			}
		}
	}
	return result, nil
}
