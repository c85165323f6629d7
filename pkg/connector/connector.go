// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package connector defines the DnsConnector capability the handler
// consumes, and a small provider registry for concrete backends
// (rfc2136, cloudflare), mirroring the teacher's DNS provider registry.
package connector

import (
	"context"
	"fmt"
	"sync"

	"recordchange/pkg/change"
)

// ErrorCode is the sealed set of wire-level outcomes a connector can
// report from dnsUpdate.
type ErrorCode string

const (
	NoError        ErrorCode = "NoError"
	Refused        ErrorCode = "Refused"
	NotAuthorized  ErrorCode = "NotAuthorized"
	ServerFailure  ErrorCode = "ServerFailure"
	FormatError    ErrorCode = "FormatError"
	NotZone        ErrorCode = "NotZone"
	Other          ErrorCode = "Other"
)

// DnsError is the failure half of the Either a connector call returns.
type DnsError struct {
	Code    ErrorCode
	Message string
}

func (e *DnsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DnsResponse is the success half of dnsUpdate.
type DnsResponse struct {
	Code ErrorCode
}

// DnsConnector is the capability the handler consumes to resolve and
// mutate a zone's authoritative state. Implementations must be safe for
// concurrent use.
type DnsConnector interface {
	// DnsResolve performs an authoritative lookup of name/type in zoneName.
	DnsResolve(ctx context.Context, name, zoneName string, rrType change.RRType) ([]change.RecordSet, *DnsError)

	// DnsUpdate submits an RFC-2136-style update for the change.
	DnsUpdate(ctx context.Context, rsc change.RecordSetChange) (*DnsResponse, *DnsError)
}

// Factory builds a DnsConnector from free-form settings (e.g. loaded from
// YAML config).
type Factory func(settings map[string]string) (DnsConnector, error)

var (
	mu        sync.Mutex
	factories = make(map[string]Factory)
)

// Register is called by connector packages (usually from an init) to
// self-register under a name.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[name]; dup {
		panic("connector: Register called twice for " + name)
	}
	factories[name] = f
}

// New looks up the named connector in the registry and builds it.
func New(name string, settings map[string]string) (DnsConnector, error) {
	mu.Lock()
	f, ok := factories[name]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("connector: unknown backend %q", name)
	}
	return f(settings)
}
