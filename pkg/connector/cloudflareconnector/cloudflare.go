// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package cloudflareconnector implements the DnsConnector capability
// against the Cloudflare DNS API.
package cloudflareconnector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cloudflare "github.com/cloudflare/cloudflare-go"

	"recordchange/pkg/change"
	"recordchange/pkg/connector"
)

func init() {
	connector.Register("cloudflare", New)
}

// Connector talks to the Cloudflare DNS API for a single zone.
type Connector struct {
	api    *cloudflare.API
	zoneID string
}

// New builds a Connector from settings: api_token (preferred) or
// api_email+api_key, and zone_id.
func New(settings map[string]string) (connector.DnsConnector, error) {
	var api *cloudflare.API
	var err error

	if token := settings["api_token"]; token != "" {
		api, err = cloudflare.NewWithAPIToken(token)
	} else {
		email := settings["api_email"]
		key := settings["api_key"]
		if email == "" || key == "" {
			return nil, fmt.Errorf("cloudflareconnector: missing api_token or (api_email and api_key)")
		}
		api, err = cloudflare.New(key, email)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudflareconnector: failed to initialize API: %w", err)
	}

	zoneID := settings["zone_id"]
	if zoneID == "" {
		return nil, fmt.Errorf("cloudflareconnector: missing required setting \"zone_id\"")
	}

	return &Connector{api: api, zoneID: zoneID}, nil
}

func (c *Connector) DnsResolve(ctx context.Context, name, zoneName string, rrType change.RRType) ([]change.RecordSet, *connector.DnsError) {
	rc := cloudflare.ZoneIdentifier(c.zoneID)
	records, _, err := c.api.ListDNSRecords(ctx, rc, cloudflare.ListDNSRecordsParams{
		Name: strings.TrimSuffix(name, "."),
		Type: string(rrType),
	})
	if err != nil {
		return nil, mapAPIError(err)
	}
	if len(records) == 0 {
		return []change.RecordSet{}, nil
	}

	rs := change.RecordSet{
		Name: name,
		Type: rrType,
		TTL:  uint32(records[0].TTL),
	}
	for _, r := range records {
		var priority uint16
		if r.Priority != nil {
			priority = *r.Priority
		}
		rs.Records = append(rs.Records, contentToRData(rrType, r.Content, priority))
	}
	return []change.RecordSet{rs}, nil
}

func (c *Connector) DnsUpdate(ctx context.Context, rsc change.RecordSetChange) (*connector.DnsResponse, *connector.DnsError) {
	rc := cloudflare.ZoneIdentifier(c.zoneID)
	name := strings.TrimSuffix(rsc.RecordSet.Name, ".")

	existing, _, err := c.api.ListDNSRecords(ctx, rc, cloudflare.ListDNSRecordsParams{
		Name: name,
		Type: string(rsc.RecordSet.Type),
	})
	if err != nil {
		return nil, mapAPIError(err)
	}

	if rsc.ChangeType == change.Delete {
		for _, r := range existing {
			if err := c.api.DeleteDNSRecord(ctx, rc, r.ID); err != nil {
				return nil, mapAPIError(err)
			}
		}
		return &connector.DnsResponse{Code: connector.NoError}, nil
	}

	// Create/Update: replace the whole RRset since a Cloudflare record
	// only carries a single content value.
	for _, r := range existing {
		if err := c.api.DeleteDNSRecord(ctx, rc, r.ID); err != nil {
			return nil, mapAPIError(err)
		}
	}

	ttl := int(rsc.RecordSet.TTL)
	for _, rdata := range rsc.RecordSet.Records {
		proxied := false
		priority := rdataPriority(rdata)
		_, err := c.api.CreateDNSRecord(ctx, rc, cloudflare.CreateDNSRecordParams{
			Type:     string(rsc.RecordSet.Type),
			Name:     name,
			Content:  rdataContent(rsc.RecordSet.Type, rdata),
			TTL:      ttl,
			Priority: priority,
			Proxied:  &proxied,
		})
		if err != nil {
			return nil, mapAPIError(err)
		}
	}
	return &connector.DnsResponse{Code: connector.NoError}, nil
}

func rdataContent(t change.RRType, r change.RRData) string {
	switch t {
	case change.TypeA, change.TypeAAAA:
		return r.Address
	case change.TypeTXT:
		return strings.Join(r.Text, "")
	default:
		return strings.TrimSuffix(r.Target, ".")
	}
}

func rdataPriority(r change.RRData) *uint16 {
	if r.Priority == 0 {
		return nil
	}
	p := r.Priority
	return &p
}

func contentToRData(t change.RRType, content string, priority uint16) change.RRData {
	switch t {
	case change.TypeA, change.TypeAAAA:
		return change.RRData{Address: content}
	case change.TypeTXT:
		return change.RRData{Text: []string{content}}
	case change.TypeMX:
		return change.RRData{Target: content, Priority: priority}
	default:
		return change.RRData{Target: content}
	}
}

// mapAPIError maps a cloudflare-go error into the closest DnsError
// variant the handler's classifier understands.
func mapAPIError(err error) *connector.DnsError {
	var apiErr *cloudflare.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 403 || apiErr.StatusCode == 401:
			return &connector.DnsError{Code: connector.NotAuthorized, Message: apiErr.Error()}
		case apiErr.StatusCode == 400 || apiErr.StatusCode == 422:
			return &connector.DnsError{Code: connector.FormatError, Message: apiErr.Error()}
		case apiErr.StatusCode >= 500 || apiErr.StatusCode == 429:
			return &connector.DnsError{Code: connector.ServerFailure, Message: apiErr.Error()}
		}
	}
	return &connector.DnsError{Code: connector.ServerFailure, Message: err.Error()}
}
