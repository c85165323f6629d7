// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package rfc2136

import (
	"testing"

	"github.com/miekg/dns"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
)

func TestNew_RequiresServer(t *testing.T) {
	if _, err := New(map[string]string{}); err == nil {
		t.Errorf("expected error for missing server setting")
	}
}

func TestNew_AppendsDefaultPort(t *testing.T) {
	c, err := New(map[string]string{"server": "ns1.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conn := c.(*Connector)
	if conn.server != "ns1.example.com:53" {
		t.Errorf("expected default port appended, got %q", conn.server)
	}
}

func TestMapRcode(t *testing.T) {
	cases := map[int]connector.ErrorCode{
		dns.RcodeSuccess:      connector.NoError,
		dns.RcodeRefused:      connector.Refused,
		dns.RcodeNotAuth:      connector.NotAuthorized,
		dns.RcodeServerFailure: connector.ServerFailure,
		dns.RcodeFormatError:  connector.FormatError,
		dns.RcodeNotZone:      connector.NotZone,
	}
	for rcode, want := range cases {
		if got := mapRcode(rcode); got != want {
			t.Errorf("mapRcode(%d) = %v, want %v", rcode, got, want)
		}
	}
}

func TestRecordSetToRRs_AThenBackToRData(t *testing.T) {
	rs := change.RecordSet{
		Name: "host.example.com.", Type: change.TypeA, TTL: 300,
		Records: []change.RRData{{Address: "10.0.0.1"}, {Address: "10.0.0.2"}},
	}
	rrs, err := recordSetToRRs(rs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rrs) != 2 {
		t.Fatalf("expected 2 RRs, got %d", len(rrs))
	}

	got, err := answersToRecordSet(rs.Name, rs.Type, rrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(rs) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, rs)
	}
}

func TestRecordSetToRRs_SOAThenBackToRData(t *testing.T) {
	rs := change.RecordSet{
		Name: "example.com.", Type: change.TypeSOA, TTL: 3600,
		Records: []change.RRData{{Target: "ns1.example.com."}},
	}
	rrs, err := recordSetToRRs(rs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rrs) != 1 {
		t.Fatalf("expected 1 RR, got %d", len(rrs))
	}

	got, err := answersToRecordSet(rs.Name, rs.Type, rrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(rs) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, rs)
	}
}

func TestRdataToRR_UnsupportedType(t *testing.T) {
	hdr := dns.RR_Header{}
	if _, err := rdataToRR(hdr, "BOGUS", change.RRData{}); err == nil {
		t.Errorf("expected error for unsupported record type")
	}
}

func TestRrTypeToQtype_AllSupportedTypes(t *testing.T) {
	types := []change.RRType{
		change.TypeA, change.TypeAAAA, change.TypeNS, change.TypeCNAME,
		change.TypeMX, change.TypeTXT, change.TypePTR, change.TypeSRV, change.TypeSOA,
	}
	for _, rt := range types {
		if _, ok := rrTypeToQtype(rt); !ok {
			t.Errorf("expected %q to be supported", rt)
		}
	}
	if _, ok := rrTypeToQtype("BOGUS"); ok {
		t.Errorf("expected BOGUS to be unsupported")
	}
}
