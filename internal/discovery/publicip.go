/*
 * PublicIP - external address resolution for dynamic DNS records.
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
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const publicIPTimeout = 5 * time.Second

// PublicIPFetcher resolves the host's public address.
type PublicIPFetcher interface {
	FetchPublicIP(ctx context.Context) (string, error)
}

// HTTPPublicIP fetches the public address from an endpoint answering with
// the caller's IP as plain text.
type HTTPPublicIP struct {
	url    string
	client *http.Client
}

// NewHTTPPublicIP returns a fetcher for the given endpoint.
func NewHTTPPublicIP(url string) *HTTPPublicIP {
	return &HTTPPublicIP{
		url:    url,
		client: &http.Client{Timeout: publicIPTimeout},
	}
}

// FetchPublicIP returns the address reported by the endpoint.
func (h *HTTPPublicIP) FetchPublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", err
	}
	res, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public IP endpoint returned status %d", res.StatusCode)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(string(data))
	if _, err := netip.ParseAddr(ip); err != nil {
		return "", fmt.Errorf("public IP endpoint returned invalid address %q", ip)
	}
	return ip, nil
}

// passIPCache caches the public address for the duration of one discovery
// pass. Only one fetch is attempted per pass, even when it fails.
type passIPCache struct {
	fetcher   PublicIPFetcher
	ip        string
	attempted bool
}

func newPassIPCache(fetcher PublicIPFetcher) *passIPCache {
	return &passIPCache{fetcher: fetcher}
}

// get returns the cached address, fetching it on first use.
func (p *passIPCache) get(ctx context.Context) (string, bool) {
	if !p.attempted {
		p.attempted = true
		ip, err := p.fetcher.FetchPublicIP(ctx)
		if err != nil {
			log.Errorf("Failed to fetch external IP: %v", err)
			return "", false
		}
		p.ip = ip
	}
	return p.ip, p.ip != ""
}
