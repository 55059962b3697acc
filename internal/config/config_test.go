/*
 * Config - unit tests.
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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
global:
  docker_discovery: false
  default_ip: "10.0.0.5"
  docker_defaults:
    proxied: true
    ttl: 120
    type: CNAME
manual_records:
  - name: "www"
    type: CNAME
    content: "example.com"
  - name: "@"
    content: "1.2.3.4"
    proxied: true
    ttl: 300
`

// Test_Load tests configuration file loading.
func Test_Load(t *testing.T) {
	type testCase struct {
		name     string
		content  string
		missing  bool
		expected Config
	}

	run := func(t *testing.T, tc testCase) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if !tc.missing {
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
		}

		actual := Load(path)

		assert.Equal(t, tc.expected, actual)
	}

	boolPtr := func(b bool) *bool { return &b }
	intPtr := func(n int) *int { return &n }

	testCases := []testCase{
		{
			name:    "full config",
			content: testConfigYAML,
			expected: Config{
				Global: GlobalSettings{
					DockerDiscovery: boolPtr(false),
					DefaultIP:       "10.0.0.5",
					DockerDefaults: DockerDefaults{
						Proxied: boolPtr(true),
						TTL:     intPtr(120),
						Type:    "CNAME",
					},
				},
				ManualRecords: []ManualRecord{
					{
						Name:    "www",
						Type:    "CNAME",
						Content: "example.com",
					},
					{
						Name:    "@",
						Content: "1.2.3.4",
						Proxied: boolPtr(true),
						TTL:     intPtr(300),
					},
				},
			},
		},
		{
			name:     "missing file",
			missing:  true,
			expected: Config{},
		},
		{
			name:     "malformed yaml",
			content:  "global: [not: a: mapping\n",
			expected: Config{},
		},
		{
			name:     "empty file",
			content:  "",
			expected: Config{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

// Test_GlobalSettings tests the fallback accessors.
func Test_GlobalSettings(t *testing.T) {
	enabled := true
	disabled := false

	assert.True(t, GlobalSettings{}.DockerDiscoveryEnabled())
	assert.True(t, GlobalSettings{DockerDiscovery: &enabled}.DockerDiscoveryEnabled())
	assert.False(t, GlobalSettings{DockerDiscovery: &disabled}.DockerDiscoveryEnabled())

	assert.Equal(t, fallbackRecordIP, GlobalSettings{}.GetDefaultIP())
	assert.Equal(t, "10.0.0.5", GlobalSettings{DefaultIP: "10.0.0.5"}.GetDefaultIP())
}

// Test_DockerDefaults tests the fallback accessors.
func Test_DockerDefaults(t *testing.T) {
	proxied := true
	ttl := 0

	assert.False(t, DockerDefaults{}.GetProxied())
	assert.True(t, DockerDefaults{Proxied: &proxied}.GetProxied())

	assert.Equal(t, 1, DockerDefaults{}.GetTTL())
	assert.Equal(t, 0, DockerDefaults{TTL: &ttl}.GetTTL())

	assert.Equal(t, "A", DockerDefaults{}.GetType())
	assert.Equal(t, "TXT", DockerDefaults{Type: "TXT"}.GetType())
}

// Test_ManualRecord tests the fallback accessors.
func Test_ManualRecord(t *testing.T) {
	proxied := true
	ttl := 300

	assert.False(t, ManualRecord{}.GetProxied())
	assert.True(t, ManualRecord{Proxied: &proxied}.GetProxied())

	assert.Equal(t, 1, ManualRecord{}.GetTTL())
	assert.Equal(t, 300, ManualRecord{TTL: &ttl}.GetTTL())

	assert.Equal(t, "A", ManualRecord{}.GetType())
	assert.Equal(t, "AAAA", ManualRecord{Type: "AAAA"}.GetType())
}
