// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package rfc2136 implements the DnsConnector capability against a
// primary nameserver speaking RFC-2136 dynamic update, using miekg/dns.
package rfc2136

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
)

func init() {
	connector.Register("rfc2136", New)
}

// Connector talks RFC-2136 dynamic update and standard DNS query to a
// single authoritative server.
type Connector struct {
	server     string
	tsigKey    string
	tsigSecret string
	timeout    time.Duration
	client     *dns.Client
}

// New builds a Connector from settings: server (host:port), and
// optionally tsig_key/tsig_secret for signed updates.
func New(settings map[string]string) (connector.DnsConnector, error) {
	server := settings["server"]
	if server == "" {
		return nil, fmt.Errorf("rfc2136: missing required setting \"server\"")
	}
	if !strings.Contains(server, ":") {
		server = server + ":53"
	}

	timeout := 5 * time.Second
	if v := settings["timeout"]; v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	c := &Connector{
		server:     server,
		tsigKey:    settings["tsig_key"],
		tsigSecret: settings["tsig_secret"],
		timeout:    timeout,
		client:     &dns.Client{Timeout: timeout},
	}
	if c.tsigKey != "" {
		c.client.TsigSecret = map[string]string{dns.Fqdn(c.tsigKey): c.tsigSecret}
	}
	return c, nil
}

// DnsResolve queries the primary directly for name/type and maps the
// answer section back into change.RecordSet values.
func (c *Connector) DnsResolve(ctx context.Context, name, zoneName string, rrType change.RRType) ([]change.RecordSet, *connector.DnsError) {
	qtype, ok := rrTypeToQtype(rrType)
	if !ok {
		return nil, &connector.DnsError{Code: connector.FormatError, Message: fmt.Sprintf("unsupported record type %q", rrType)}
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = false

	resp, _, err := c.exchangeContext(ctx, m)
	if err != nil {
		return nil, &connector.DnsError{Code: connector.ServerFailure, Message: err.Error()}
	}
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, &connector.DnsError{Code: mapRcode(resp.Rcode), Message: dns.RcodeToString[resp.Rcode]}
	}
	if len(resp.Answer) == 0 {
		return []change.RecordSet{}, nil
	}

	rs, convErr := answersToRecordSet(name, rrType, resp.Answer)
	if convErr != nil {
		return nil, &connector.DnsError{Code: connector.FormatError, Message: convErr.Error()}
	}
	return []change.RecordSet{rs}, nil
}

// DnsUpdate issues a single RFC-2136 dynamic update message built from
// the change's type: Create/Update insert the desired RRset (replacing
// any existing RRset of that name+type), Delete removes it.
func (c *Connector) DnsUpdate(ctx context.Context, rsc change.RecordSetChange) (*connector.DnsResponse, *connector.DnsError) {
	m := new(dns.Msg)
	m.SetUpdate(dns.Fqdn(rsc.Zone.Name))

	rrs, err := recordSetToRRs(rsc.RecordSet)
	if err != nil {
		return nil, &connector.DnsError{Code: connector.FormatError, Message: err.Error()}
	}

	switch rsc.ChangeType {
	case change.Delete:
		m.RemoveRRset(rrs)
	case change.Create, change.Update:
		m.RemoveRRset(rrs)
		m.Insert(rrs)
	default:
		return nil, &connector.DnsError{Code: connector.FormatError, Message: fmt.Sprintf("unsupported change type %q", rsc.ChangeType)}
	}

	resp, _, err := c.exchangeContext(ctx, m)
	if err != nil {
		return nil, &connector.DnsError{Code: connector.ServerFailure, Message: err.Error()}
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, &connector.DnsError{Code: mapRcode(resp.Rcode), Message: dns.RcodeToString[resp.Rcode]}
	}
	return &connector.DnsResponse{Code: connector.NoError}, nil
}

func (c *Connector) exchangeContext(ctx context.Context, m *dns.Msg) (*dns.Msg, time.Duration, error) {
	return c.client.ExchangeContext(ctx, m, c.server)
}

func mapRcode(rcode int) connector.ErrorCode {
	switch rcode {
	case dns.RcodeSuccess:
		return connector.NoError
	case dns.RcodeRefused:
		return connector.Refused
	case dns.RcodeNotAuth:
		return connector.NotAuthorized
	case dns.RcodeServerFailure:
		return connector.ServerFailure
	case dns.RcodeFormatError:
		return connector.FormatError
	case dns.RcodeNotZone:
		return connector.NotZone
	default:
		return connector.Other
	}
}

func rrTypeToQtype(t change.RRType) (uint16, bool) {
	switch t {
	case change.TypeA:
		return dns.TypeA, true
	case change.TypeAAAA:
		return dns.TypeAAAA, true
	case change.TypeNS:
		return dns.TypeNS, true
	case change.TypeCNAME:
		return dns.TypeCNAME, true
	case change.TypeMX:
		return dns.TypeMX, true
	case change.TypeTXT:
		return dns.TypeTXT, true
	case change.TypePTR:
		return dns.TypePTR, true
	case change.TypeSRV:
		return dns.TypeSRV, true
	case change.TypeSOA:
		return dns.TypeSOA, true
	default:
		return 0, false
	}
}

// recordSetToRRs converts a RecordSet's RDATA into dns.RR values sharing
// one owner name/type/ttl/class, for use with SetUpdate's Insert/RemoveRRset.
func recordSetToRRs(rs change.RecordSet) ([]dns.RR, error) {
	qtype, ok := rrTypeToQtype(rs.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported record type %q", rs.Type)
	}
	hdr := dns.RR_Header{
		Name:   dns.Fqdn(rs.Name),
		Rrtype: qtype,
		Class:  dns.ClassINET,
		Ttl:    rs.TTL,
	}

	rrs := make([]dns.RR, 0, len(rs.Records))
	for _, r := range rs.Records {
		rr, err := rdataToRR(hdr, rs.Type, r)
		if err != nil {
			return nil, err
		}
		rrs = append(rrs, rr)
	}
	return rrs, nil
}

func rdataToRR(hdr dns.RR_Header, t change.RRType, r change.RRData) (dns.RR, error) {
	switch t {
	case change.TypeA:
		return &dns.A{Hdr: hdr, A: parseIP(r.Address)}, nil
	case change.TypeAAAA:
		return &dns.AAAA{Hdr: hdr, AAAA: parseIP(r.Address)}, nil
	case change.TypeCNAME:
		return &dns.CNAME{Hdr: hdr, Target: dns.Fqdn(r.Target)}, nil
	case change.TypeNS:
		return &dns.NS{Hdr: hdr, Ns: dns.Fqdn(r.Target)}, nil
	case change.TypePTR:
		return &dns.PTR{Hdr: hdr, Ptr: dns.Fqdn(r.Target)}, nil
	case change.TypeSOA:
		return &dns.SOA{Hdr: hdr, Ns: dns.Fqdn(r.Target)}, nil
	case change.TypeMX:
		return &dns.MX{Hdr: hdr, Preference: r.Priority, Mx: dns.Fqdn(r.Target)}, nil
	case change.TypeSRV:
		return &dns.SRV{Hdr: hdr, Priority: r.Priority, Weight: r.Weight, Port: r.Port, Target: dns.Fqdn(r.Target)}, nil
	case change.TypeTXT:
		return &dns.TXT{Hdr: hdr, Txt: r.Text}, nil
	default:
		return nil, fmt.Errorf("unsupported record type %q", t)
	}
}

func parseIP(addr string) net.IP {
	return net.ParseIP(addr)
}

// answersToRecordSet collapses a DNS answer section (all sharing name and
// type by construction of the query) into a single change.RecordSet.
func answersToRecordSet(name string, rrType change.RRType, answers []dns.RR) (change.RecordSet, error) {
	var ttl uint32
	records := make([]change.RRData, 0, len(answers))

	for i, rr := range answers {
		hdr := rr.Header()
		if i == 0 {
			ttl = hdr.Ttl
		}

		rdata, err := rrToRData(rrType, rr)
		if err != nil {
			return change.RecordSet{}, err
		}
		records = append(records, rdata)
	}

	return change.RecordSet{
		Name:    name,
		Type:    rrType,
		TTL:     ttl,
		Records: records,
	}, nil
}

func rrToRData(t change.RRType, rr dns.RR) (change.RRData, error) {
	switch v := rr.(type) {
	case *dns.A:
		return change.RRData{Address: v.A.String()}, nil
	case *dns.AAAA:
		return change.RRData{Address: v.AAAA.String()}, nil
	case *dns.CNAME:
		return change.RRData{Target: v.Target}, nil
	case *dns.NS:
		return change.RRData{Target: v.Ns}, nil
	case *dns.PTR:
		return change.RRData{Target: v.Ptr}, nil
	case *dns.SOA:
		return change.RRData{Target: v.Ns}, nil
	case *dns.MX:
		return change.RRData{Target: v.Mx, Priority: v.Preference}, nil
	case *dns.SRV:
		return change.RRData{Target: v.Target, Priority: v.Priority, Weight: v.Weight, Port: v.Port}, nil
	case *dns.TXT:
		return change.RRData{Text: v.Txt}, nil
	default:
		return change.RRData{}, fmt.Errorf("unsupported answer RR type for %q", t)
	}
}
