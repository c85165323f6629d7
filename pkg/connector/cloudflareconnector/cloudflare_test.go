// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cloudflareconnector

import (
	"testing"

	"recordchange/pkg/change"
)

func TestNew_RequiresZoneID(t *testing.T) {
	if _, err := New(map[string]string{"api_token": "tok"}); err == nil {
		t.Errorf("expected error for missing zone_id")
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New(map[string]string{"zone_id": "zone1"}); err == nil {
		t.Errorf("expected error for missing api_token/api_email+api_key")
	}
}

func TestRdataContent_ByType(t *testing.T) {
	cases := []struct {
		t    change.RRType
		r    change.RRData
		want string
	}{
		{change.TypeA, change.RRData{Address: "10.0.0.1"}, "10.0.0.1"},
		{change.TypeTXT, change.RRData{Text: []string{"v=spf1", " -all"}}, "v=spf1 -all"},
		{change.TypeCNAME, change.RRData{Target: "target.example.com."}, "target.example.com"},
	}
	for _, c := range cases {
		if got := rdataContent(c.t, c.r); got != c.want {
			t.Errorf("rdataContent(%v, %+v) = %q, want %q", c.t, c.r, got, c.want)
		}
	}
}

func TestRdataPriority_ZeroIsNil(t *testing.T) {
	if p := rdataPriority(change.RRData{Priority: 0}); p != nil {
		t.Errorf("expected nil priority for zero value, got %v", *p)
	}
	if p := rdataPriority(change.RRData{Priority: 10}); p == nil || *p != 10 {
		t.Errorf("expected priority 10, got %v", p)
	}
}

func TestContentToRData_RoundTrip(t *testing.T) {
	rd := contentToRData(change.TypeMX, "mail.example.com", 10)
	if rd.Target != "mail.example.com" || rd.Priority != 10 {
		t.Errorf("unexpected MX RData: %+v", rd)
	}
}
