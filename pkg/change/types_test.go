// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package change

import "testing"

func TestRecordSetEqual_NameCaseAndTrailingDot(t *testing.T) {
	a := RecordSet{Name: "Host.Example.com.", Type: TypeA, TTL: 300, Records: []RRData{{Address: "10.0.0.1"}}}
	b := RecordSet{Name: "host.example.com", Type: TypeA, TTL: 300, Records: []RRData{{Address: "10.0.0.1"}}}
	if !a.Equal(b) {
		t.Errorf("expected equal despite case/trailing-dot differences")
	}
}

func TestRecordSetEqual_TTLMismatch(t *testing.T) {
	a := RecordSet{Name: "host.example.com.", Type: TypeA, TTL: 300, Records: []RRData{{Address: "10.0.0.1"}}}
	b := RecordSet{Name: "host.example.com.", Type: TypeA, TTL: 60, Records: []RRData{{Address: "10.0.0.1"}}}
	if a.Equal(b) {
		t.Errorf("expected inequality on TTL mismatch")
	}
}

func TestRecordSetEqual_MultisetOrderIndependent(t *testing.T) {
	a := RecordSet{
		Name: "host.example.com.", Type: TypeA, TTL: 300,
		Records: []RRData{{Address: "10.0.0.1"}, {Address: "10.0.0.2"}},
	}
	b := RecordSet{
		Name: "host.example.com.", Type: TypeA, TTL: 300,
		Records: []RRData{{Address: "10.0.0.2"}, {Address: "10.0.0.1"}},
	}
	if !a.Equal(b) {
		t.Errorf("expected equal regardless of record order")
	}
}

func TestRecordSetEqual_DuplicateCountMatters(t *testing.T) {
	a := RecordSet{
		Name: "host.example.com.", Type: TypeA, TTL: 300,
		Records: []RRData{{Address: "10.0.0.1"}, {Address: "10.0.0.1"}},
	}
	b := RecordSet{
		Name: "host.example.com.", Type: TypeA, TTL: 300,
		Records: []RRData{{Address: "10.0.0.1"}},
	}
	if a.Equal(b) {
		t.Errorf("expected inequality when duplicate counts differ")
	}
}

func TestRecordSetEqual_TypeMismatch(t *testing.T) {
	a := RecordSet{Name: "host.example.com.", Type: TypeA, TTL: 300, Records: []RRData{{Address: "10.0.0.1"}}}
	b := RecordSet{Name: "host.example.com.", Type: TypeAAAA, TTL: 300, Records: []RRData{{Address: "10.0.0.1"}}}
	if a.Equal(b) {
		t.Errorf("expected inequality on type mismatch")
	}
}

func TestRRDataEqual_TargetCaseAndTrailingDot(t *testing.T) {
	a := RRData{Target: "Mail.Example.com."}
	b := RRData{Target: "mail.example.com"}
	if !a.Equal(b) {
		t.Errorf("expected equal target RDATA despite case/trailing-dot differences")
	}
}

func TestRRDataEqual_TextOrderMatters(t *testing.T) {
	a := RRData{Text: []string{"v=spf1", "a"}}
	b := RRData{Text: []string{"a", "v=spf1"}}
	if a.Equal(b) {
		t.Errorf("expected TXT chunk order to matter within a single RRData")
	}
}

func TestProcessingStatus_Constructors(t *testing.T) {
	if !Ready().IsReady() {
		t.Errorf("Ready() should be IsReady")
	}
	if !Applied().IsApplied() {
		t.Errorf("Applied() should be IsApplied")
	}
	f := Fail("boom")
	if !f.IsFailure() || f.Message != "boom" {
		t.Errorf("Fail() should be IsFailure with the given message, got %+v", f)
	}
}
