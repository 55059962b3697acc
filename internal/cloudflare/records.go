/*
 * Records - DNS record operations.
 *
 * Copyright 2026 the cloudflare-dns-sync authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// recordsPageSize is the page size requested when listing records. Only one
// page is fetched.
const recordsPageSize = 100

// ListRecords returns the records of a zone. A single page of up to
// recordsPageSize entries is requested; zones holding more records than that
// are reconciled partially and a warning is emitted.
func (c *Client) ListRecords(ctx context.Context, zoneID string) ([]Record, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(recordsPageSize))
	resp := c.do(ctx, actListRecords, http.MethodGet, "/zones/"+zoneID+"/dns_records", query, nil)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("record list returned status %d", resp.StatusCode)
	}
	var payload recordListResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("decoding record list response: %w", err)
	}
	if !payload.Success {
		return nil, fmt.Errorf("record list failed: %s", apiErrorText(payload.Errors))
	}
	if payload.ResultInfo != nil && payload.ResultInfo.TotalPages > 1 {
		log.WithFields(log.Fields{
			"zone":       c.zoneName,
			"totalPages": payload.ResultInfo.TotalPages,
		}).Warnf("zone holds more than %d records, only the first page is reconciled", recordsPageSize)
	}
	return payload.Result, nil
}

// CreateRecord creates a record in the given zone.
func (c *Client) CreateRecord(ctx context.Context, zoneID string, params RecordParams) error {
	resp := c.do(ctx, actCreateRecord, http.MethodPost, "/zones/"+zoneID+"/dns_records", nil, params)
	return writeOutcome("create", params.Name, resp)
}

// UpdateRecord overwrites the record with the given id.
func (c *Client) UpdateRecord(ctx context.Context, zoneID, recordID string, params RecordParams) error {
	resp := c.do(ctx, actUpdateRecord, http.MethodPut, "/zones/"+zoneID+"/dns_records/"+recordID, nil, params)
	return writeOutcome("update", params.Name, resp)
}

// DeleteRecord removes the record with the given id.
func (c *Client) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	resp := c.do(ctx, actDeleteRecord, http.MethodDelete, "/zones/"+zoneID+"/dns_records/"+recordID, nil, nil)
	return writeOutcome("delete", recordID, resp)
}

// writeOutcome interprets a mutation response. A 200 status carrying a
// success envelope is the only accepted outcome.
func writeOutcome(op, subject string, resp apiResponse) error {
	if resp.StatusCode == 0 {
		return fmt.Errorf("%s %s: transport failure", op, subject)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d", op, subject, resp.StatusCode)
	}
	var payload recordWriteResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", op, subject, err)
	}
	if !payload.Success {
		return fmt.Errorf("%s %s: %s", op, subject, apiErrorText(payload.Errors))
	}
	return nil
}
