// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package change holds the data model the record-set change handler
// operates on: the pending intention, the record-set it targets, and the
// batch sub-changes it fulfills.
package change

import (
	"sort"
	"strings"
	"time"
)

// ChangeType is the kind of mutation a RecordSetChange requests.
type ChangeType string

const (
	Create ChangeType = "Create"
	Update ChangeType = "Update"
	Delete ChangeType = "Delete"
)

// RecordSetStatus is the lifecycle state of a RecordSet projection.
type RecordSetStatus string

const (
	RecordSetPending  RecordSetStatus = "Pending"
	RecordSetActive   RecordSetStatus = "Active"
	RecordSetInactive RecordSetStatus = "Inactive"
)

// ChangeStatus is the lifecycle state of a RecordSetChange or SingleChange.
type ChangeStatus string

const (
	StatusPending  ChangeStatus = "Pending"
	StatusComplete ChangeStatus = "Complete"
	StatusFailed   ChangeStatus = "Failed"
)

// ChangeSetStatus is the lifecycle state of a persisted ChangeSet.
type ChangeSetStatus string

const (
	ChangeSetPending ChangeSetStatus = "Pending"
	ChangeSetApplied ChangeSetStatus = "Applied"
	ChangeSetDone    ChangeSetStatus = "Complete"
)

// RRType is a DNS record type.
type RRType string

const (
	TypeA     RRType = "A"
	TypeAAAA  RRType = "AAAA"
	TypeNS    RRType = "NS"
	TypeCNAME RRType = "CNAME"
	TypeMX    RRType = "MX"
	TypeTXT   RRType = "TXT"
	TypePTR   RRType = "PTR"
	TypeSRV   RRType = "SRV"
	TypeSOA   RRType = "SOA"
)

// RRData is a tagged union of per-type RDATA. Only the fields relevant to
// Type are meaningful; the rest are left at their zero value.
type RRData struct {
	// Address holds the IP for A/AAAA records.
	Address string
	// Target holds the domain-name RDATA for CNAME/NS/PTR/MX/SRV records,
	// and the primary nameserver for SOA records.
	Target string
	// Text holds one or more TXT chunks.
	Text []string
	// Priority holds the MX/SRV priority.
	Priority uint16
	// Weight holds the SRV weight.
	Weight uint16
	// Port holds the SRV port.
	Port uint16
}

// Equal reports whether two RRData values are equivalent RDATA for
// equality purposes: domain-name fields compare case-insensitively and
// ignore a single trailing dot.
func (r RRData) Equal(o RRData) bool {
	if !strings.EqualFold(canonicalizeName(r.Target), canonicalizeName(o.Target)) {
		return false
	}
	if r.Address != o.Address {
		return false
	}
	if r.Priority != o.Priority || r.Weight != o.Weight || r.Port != o.Port {
		return false
	}
	return equalTextSlice(r.Text, o.Text)
}

func equalTextSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// canonicalizeName lowercases a domain name and strips a single trailing
// dot, so "Host.Example.com." and "host.example.com" compare equal.
func canonicalizeName(name string) string {
	name = strings.TrimSuffix(name, ".")
	return strings.ToLower(name)
}

// Zone identifies the authoritative DNS zone a change belongs to.
type Zone struct {
	ID   string
	Name string
}

// RecordSet is a (name, type) pair sharing one TTL and a set of RDATA
// values, plus the mutable status this handler assigns it.
type RecordSet struct {
	ID      string
	Name    string
	Type    RRType
	TTL     uint32
	Records []RRData
	Status  RecordSetStatus
}

// Equal reports structural equality per §4.1: name, type, ttl, and the
// multiset of RDATA values. Record order is irrelevant.
func (rs RecordSet) Equal(o RecordSet) bool {
	if !strings.EqualFold(canonicalizeName(rs.Name), canonicalizeName(o.Name)) {
		return false
	}
	if rs.Type != o.Type || rs.TTL != o.TTL {
		return false
	}
	return sameMultiset(rs.Records, o.Records)
}

// sameMultiset reports whether a and b contain the same RRData values,
// irrespective of order, allowing duplicates.
func sameMultiset(a, b []RRData) bool {
	if len(a) != len(b) {
		return false
	}
	remaining := make([]RRData, len(b))
	copy(remaining, b)
	for _, want := range a {
		found := -1
		for i, have := range remaining {
			if want.Equal(have) {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return true
}

// sortedRDataKeys produces a stable, sorted textual rendering of a
// record set's RDATA. Nothing in this module calls it.
func sortedRDataKeys(records []RRData) []string {
	keys := make([]string, 0, len(records))
	for _, r := range records {
		switch {
		case r.Address != "":
			keys = append(keys, r.Address)
		case r.Target != "":
			keys = append(keys, canonicalizeName(r.Target))
		case len(r.Text) > 0:
			keys = append(keys, strings.Join(r.Text, ""))
		}
	}
	sort.Strings(keys)
	return keys
}

// RecordSetChange is one pending intention: mutate a single record set.
type RecordSetChange struct {
	ID         string
	ChangeType ChangeType
	Zone       Zone
	RecordSet  RecordSet

	// Updates holds the record-set as currently believed to exist, for
	// Update changes only. Nil for Create/Delete.
	Updates *RecordSet

	// SingleBatchChangeIDs are the batch sub-changes this record-set
	// change fulfills. May be empty.
	SingleBatchChangeIDs []string

	// Status is the change's own lifecycle state, distinct from
	// RecordSet.Status. It starts Pending and leaves exactly once,
	// Complete or Failed.
	Status ChangeStatus

	// SystemMessage is the human-readable failure cause, set only on
	// failure.
	SystemMessage string
}

// ChangeSet is a persisted atom wrapping one or more RecordSetChanges.
type ChangeSet struct {
	ZoneID           string
	Status           ChangeSetStatus
	Changes          []RecordSetChange
	CreatedTimestamp time.Time
}

// SingleChange is one row of a user's batch submission.
type SingleChange struct {
	ID             string
	ZoneID         string
	ZoneName       string
	RecordName     string
	FQDN           string
	Type           RRType
	TTL            uint32
	RData          RRData
	Status         ChangeStatus
	RecordChangeID string
	RecordSetID    string
	SystemMessage  string
}

// BatchChange is a user-submitted group of SingleChanges.
type BatchChange struct {
	ID      string
	Changes []SingleChange
}
