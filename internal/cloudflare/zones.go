/*
 * Zones - Zone name resolution.
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

	log "github.com/sirupsen/logrus"
)

// ZoneName returns the name of the zone this client manages.
func (c *Client) ZoneName() string {
	return c.zoneName
}

// ZoneID resolves the configured zone name to its identifier. The first
// successful resolution is kept for the lifetime of the process; zones are
// not expected to be recreated while the process runs.
func (c *Client) ZoneID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.zoneID != "" {
		return c.zoneID, nil
	}

	query := url.Values{}
	query.Set("name", c.zoneName)
	resp := c.do(ctx, actGetZone, http.MethodGet, "/zones", query, nil)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("zone lookup for %q returned status %d", c.zoneName, resp.StatusCode)
	}
	var payload zoneListResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", fmt.Errorf("decoding zone lookup response: %w", err)
	}
	if !payload.Success {
		return "", fmt.Errorf("zone lookup for %q failed: %s", c.zoneName, apiErrorText(payload.Errors))
	}
	if len(payload.Result) == 0 {
		return "", fmt.Errorf("zone %q not found", c.zoneName)
	}

	c.zoneID = payload.Result[0].ID
	log.WithFields(log.Fields{
		"zone":   c.zoneName,
		"zoneID": c.zoneID,
	}).Info("Found zone")
	return c.zoneID, nil
}
