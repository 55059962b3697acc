/*
 * Client - This handles API calls towards the Cloudflare v4 API.
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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"cloudflare-dns-sync/internal/metrics"

	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.cloudflare.com/client/v4"

const (
	// Action constants used for metrics.
	actGetZone      = "get_zone"
	actListRecords  = "list_records"
	actCreateRecord = "create_record"
	actUpdateRecord = "update_record"
	actDeleteRecord = "delete_record"
)

const (
	// maxRetries bounds rate-limit retries; one call makes at most
	// maxRetries+1 attempts.
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second
)

// Options carries the connection settings for the API client.
type Options struct {
	// BaseURL overrides the public API endpoint. Empty selects the default.
	BaseURL string
	// Token is the API bearer token.
	Token string
	// ZoneName is the DNS zone managed by this process.
	ZoneName string
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers.
	ReadTimeout time.Duration
}

// apiResponse is the raw outcome of one API call. A StatusCode of zero marks
// a transport failure that produced no HTTP response.
type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues authenticated calls against the Cloudflare API. Rate-limited
// calls are retried transparently; transport failures never surface as
// errors from the request layer, they yield a response with status zero that
// the operation wrappers turn into ordinary error values.
type Client struct {
	baseURL    string
	token      string
	zoneName   string
	httpClient *http.Client
	metrics    *metrics.OpenMetrics

	// sleep is replaceable in tests.
	sleep func(time.Duration)

	mu     sync.Mutex
	zoneID string
}

// NewClient returns a new client. The API token is required.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, errors.New("nil API token provided")
	}
	if opts.ZoneName == "" {
		return nil, errors.New("nil zone name provided")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	return &Client{
		baseURL:  baseURL,
		token:    opts.Token,
		zoneName: opts.ZoneName,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				ResponseHeaderTimeout: opts.ReadTimeout,
			},
		},
		metrics: metrics.GetOpenMetricsInstance(),
		sleep:   time.Sleep,
	}, nil
}

// do issues one API call and records its outcome. Responses with status zero
// or an error status count as failed calls.
func (c *Client) do(ctx context.Context, action, method, path string, query url.Values, body any) apiResponse {
	start := time.Now()
	resp := c.doWithRetries(ctx, action, method, path, query, body)
	delay := time.Since(start)
	if resp.StatusCode == 0 || resp.StatusCode >= http.StatusBadRequest {
		c.metrics.IncFailedApiCallsTotal(action)
	} else {
		c.metrics.IncSuccessfulApiCallsTotal(action)
	}
	c.metrics.AddApiDelayCount(action, delay.Milliseconds())
	return resp
}

// doWithRetries retries an exchange answered with status 429, waiting the
// advertised Retry-After if the header carries an integer and an exponential
// backoff otherwise. The last response is returned as-is once the retry
// budget is spent. Statuses other than 429 are returned verbatim.
func (c *Client) doWithRetries(ctx context.Context, action, method, path string, query url.Values, body any) apiResponse {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			log.WithFields(log.Fields{
				"method": method,
				"path":   path,
			}).Errorf("encoding request body: %v", err)
			return apiResponse{}
		}
	}
	backoff := initialBackoff
	var resp apiResponse
	for attempt := 0; ; attempt++ {
		resp = c.roundTrip(ctx, method, path, query, payload)
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp
		}
		c.metrics.IncRateLimitedApiCallsTotal(action)
		delay, ok := parseRetryAfter(resp.Header)
		if !ok {
			delay = backoff
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
			"delay":  delay,
		}).Warn("API rate limit hit, backing off")
		c.sleep(delay)
	}
}

// roundTrip performs a single HTTP exchange. Transport failures are logged
// and reported as a zero-status response.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte) apiResponse {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
		}).Errorf("building request: %v", err)
		return apiResponse{}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
		}).Warnf("request error: %v", err)
		return apiResponse{}
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
		}).Warnf("reading response body: %v", err)
		return apiResponse{}
	}
	return apiResponse{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       data,
	}
}
