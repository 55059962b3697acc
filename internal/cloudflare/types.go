/*
 * Cloudflare - API wire types.
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
	"fmt"
	"strings"
)

// Zone is a DNS zone as returned by the API.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is a DNS record as returned by the API. Name holds the fully
// qualified record name.
type Record struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
	TTL     int    `json:"ttl"`
	Comment string `json:"comment,omitempty"`
}

// RecordParams is the request body for record create and update calls.
type RecordParams struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
	TTL     int    `json:"ttl"`
	Comment string `json:"comment,omitempty"`
}

// apiError is a single entry of the error list carried by every response
// envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// resultInfo carries the pagination fields of a list response.
type resultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
}

// zoneListResponse is the envelope of a zone list call.
type zoneListResponse struct {
	Success    bool        `json:"success"`
	Errors     []apiError  `json:"errors"`
	Result     []Zone      `json:"result"`
	ResultInfo *resultInfo `json:"result_info"`
}

// recordListResponse is the envelope of a record list call.
type recordListResponse struct {
	Success    bool        `json:"success"`
	Errors     []apiError  `json:"errors"`
	Result     []Record    `json:"result"`
	ResultInfo *resultInfo `json:"result_info"`
}

// recordWriteResponse is the envelope of a record mutation call.
type recordWriteResponse struct {
	Success bool       `json:"success"`
	Errors  []apiError `json:"errors"`
	Result  *Record    `json:"result"`
}

// apiErrorText flattens the error list of a response envelope into a single
// message.
func apiErrorText(errs []apiError) string {
	if len(errs) == 0 {
		return "unknown API error"
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return strings.Join(parts, "; ")
}
