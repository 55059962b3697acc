/*
 * Client - Unit tests.
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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient returns a client aimed at a test server. Sleeps are recorded
// instead of performed.
func testClient(t *testing.T, baseURL string) (*Client, *[]time.Duration) {
	t.Helper()
	client, err := NewClient(Options{
		BaseURL:  baseURL,
		Token:    "test-token",
		ZoneName: "example.com",
	})
	require.NoError(t, err)
	var delays []time.Duration
	client.sleep = func(d time.Duration) {
		delays = append(delays, d)
	}
	return client, &delays
}

// cannedResponse describes the answer served for one request. The last entry
// of a sequence repeats for any further request.
type cannedResponse struct {
	status     int
	retryAfter string
	body       string
}

func Test_NewClient(t *testing.T) {
	type testCase struct {
		name     string
		opts     Options
		expected struct {
			err     string
			baseURL string
		}
	}

	run := func(t *testing.T, tc testCase) {
		exp := tc.expected
		client, err := NewClient(tc.opts)
		if exp.err != "" {
			assert.Nil(t, client)
			assert.EqualError(t, err, exp.err)
			return
		}
		require.NoError(t, err)
		assert.Equal(t, exp.baseURL, client.baseURL)
		assert.NotNil(t, client.sleep)
		assert.NotNil(t, client.httpClient)
	}

	testCases := []testCase{
		{
			name: "missing token",
			opts: Options{ZoneName: "example.com"},
			expected: struct {
				err     string
				baseURL string
			}{
				err: "nil API token provided",
			},
		},
		{
			name: "missing zone name",
			opts: Options{Token: "test-token"},
			expected: struct {
				err     string
				baseURL string
			}{
				err: "nil zone name provided",
			},
		},
		{
			name: "default endpoint",
			opts: Options{Token: "test-token", ZoneName: "example.com"},
			expected: struct {
				err     string
				baseURL string
			}{
				baseURL: defaultBaseURL,
			},
		},
		{
			name: "endpoint override",
			opts: Options{
				BaseURL:  "http://localhost:8484",
				Token:    "test-token",
				ZoneName: "example.com",
			},
			expected: struct {
				err     string
				baseURL string
			}{
				baseURL: "http://localhost:8484",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

// Test_Client_doWithRetries tests the rate limit retry loop.
func Test_Client_doWithRetries(t *testing.T) {
	type testCase struct {
		name      string
		responses []cannedResponse
		expected  struct {
			status int
			calls  int
			delays []time.Duration
			body   string
		}
	}

	run := func(t *testing.T, tc testCase) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idx := calls
			if idx >= len(tc.responses) {
				idx = len(tc.responses) - 1
			}
			calls++
			res := tc.responses[idx]
			if res.retryAfter != "" {
				w.Header().Set("Retry-After", res.retryAfter)
			}
			w.WriteHeader(res.status)
			_, _ = w.Write([]byte(res.body))
		}))
		defer srv.Close()

		client, delays := testClient(t, srv.URL)
		resp := client.doWithRetries(context.Background(), actListRecords, http.MethodGet, "/test", nil, nil)

		exp := tc.expected
		assert.Equal(t, exp.status, resp.StatusCode)
		assert.Equal(t, exp.calls, calls)
		assert.Equal(t, exp.delays, *delays)
		if exp.body != "" {
			assert.Equal(t, exp.body, string(resp.Body))
		}
	}

	testCases := []testCase{
		{
			name: "success first try",
			responses: []cannedResponse{
				{status: http.StatusOK, body: `{"success":true}`},
			},
			expected: struct {
				status int
				calls  int
				delays []time.Duration
				body   string
			}{
				status: http.StatusOK,
				calls:  1,
				delays: nil,
			},
		},
		{
			name: "retry-after honored",
			responses: []cannedResponse{
				{status: http.StatusTooManyRequests, retryAfter: "2"},
				{status: http.StatusOK, body: `{"success":true}`},
			},
			expected: struct {
				status int
				calls  int
				delays []time.Duration
				body   string
			}{
				status: http.StatusOK,
				calls:  2,
				delays: []time.Duration{2 * time.Second},
			},
		},
		{
			name: "backoff progression until budget spent",
			responses: []cannedResponse{
				{status: http.StatusTooManyRequests},
			},
			expected: struct {
				status int
				calls  int
				delays []time.Duration
				body   string
			}{
				status: http.StatusTooManyRequests,
				calls:  4,
				delays: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
			},
		},
		{
			name: "retry-after on every attempt",
			responses: []cannedResponse{
				{status: http.StatusTooManyRequests, retryAfter: "2"},
			},
			expected: struct {
				status int
				calls  int
				delays []time.Duration
				body   string
			}{
				status: http.StatusTooManyRequests,
				calls:  4,
				delays: []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second},
			},
		},
		{
			name: "other errors returned verbatim",
			responses: []cannedResponse{
				{status: http.StatusInternalServerError, body: "upstream exploded"},
			},
			expected: struct {
				status int
				calls  int
				delays []time.Duration
				body   string
			}{
				status: http.StatusInternalServerError,
				calls:  1,
				delays: nil,
				body:   "upstream exploded",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

// Test_Client_transportFailure verifies that a failed round trip yields a
// zero-status response instead of an error.
func Test_Client_transportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client, delays := testClient(t, base)
	resp := client.doWithRetries(context.Background(), actListRecords, http.MethodGet, "/test", nil, nil)

	assert.Equal(t, 0, resp.StatusCode)
	assert.Empty(t, *delays)
}

// Test_Client_requestShape verifies authentication headers and body encoding.
func Test_Client_requestShape(t *testing.T) {
	var gotAuth, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client, _ := testClient(t, srv.URL)
	params := RecordParams{
		Type:    "A",
		Name:    "app.example.com",
		Content: "1.2.3.4",
		Proxied: false,
		TTL:     1,
		Comment: "managed-by:cloudflare-dns-sync",
	}
	resp := client.do(context.Background(), actCreateRecord, http.MethodPost, "/zones/zone-1/dns_records", nil, params)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{
		"type": "A",
		"name": "app.example.com",
		"content": "1.2.3.4",
		"proxied": false,
		"ttl": 1,
		"comment": "managed-by:cloudflare-dns-sync"
	}`, gotBody)
}
