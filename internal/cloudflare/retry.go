/*
 * Retry - Rate limit response headers.
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
	"net/http"
	"strconv"
	"time"
)

const hdrRetryAfter = "Retry-After"

// parseRetryAfter returns the wait advertised by a Retry-After header. Only
// the integer-seconds form is recognized; the HTTP-date form and malformed
// values are ignored so that the caller falls back to its own backoff.
func parseRetryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get(hdrRetryAfter)
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
