// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package connectortest provides an in-memory DnsConnector fake that
// returns scripted resolve results in sequence and counts calls, for the
// literal §8 end-to-end scenarios.
package connectortest

import (
	"context"
	"sync"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
)

// Fake is a scripted DnsConnector: each DnsResolve call consumes the next
// entry of ResolveScript (the last entry repeats once exhausted).
type Fake struct {
	mu sync.Mutex

	ResolveScript []ResolveResult
	UpdateResult  *connector.DnsResponse
	UpdateErr     *connector.DnsError

	ResolveCalls int
	UpdateCalls  int
}

// ResolveResult is one scripted outcome of DnsResolve.
type ResolveResult struct {
	RecordSets []change.RecordSet
	Err        *connector.DnsError
}

func New() *Fake {
	return &Fake{UpdateResult: &connector.DnsResponse{Code: connector.NoError}}
}

func (f *Fake) DnsResolve(ctx context.Context, name, zoneName string, rrType change.RRType) ([]change.RecordSet, *connector.DnsError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResolveCalls++

	if len(f.ResolveScript) == 0 {
		return []change.RecordSet{}, nil
	}
	idx := f.ResolveCalls - 1
	if idx >= len(f.ResolveScript) {
		idx = len(f.ResolveScript) - 1
	}
	result := f.ResolveScript[idx]
	return result.RecordSets, result.Err
}

func (f *Fake) DnsUpdate(ctx context.Context, rsc change.RecordSetChange) (*connector.DnsResponse, *connector.DnsError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	return f.UpdateResult, f.UpdateErr
}
