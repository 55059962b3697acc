/*
 * Common test objects.
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

import "context"

// mockLister returns a canned container list.
type mockLister struct {
	containers []Container
	err        error
}

func (m *mockLister) ListContainers(_ context.Context) ([]Container, error) {
	return m.containers, m.err
}

// mockIPFetcher counts fetches and returns a canned address.
type mockIPFetcher struct {
	ip    string
	err   error
	calls int
}

func (m *mockIPFetcher) FetchPublicIP(_ context.Context) (string, error) {
	m.calls++
	return m.ip, m.err
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

// labels builds a label map from alternating key/value arguments.
func labels(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
