/*
 * Options - service configuration from the environment.
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
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
)

// Options contains the arguments passed as environment variables that
// influence the synchronization service.
type Options struct {
	// Path of the file holding the API bearer token
	APITokenFile string `env:"CF_API_TOKEN_FILE" envDefault:"/run/secrets/cf_api_token"`
	// Name of the managed zone
	ZoneName string `env:"CF_ZONE_NAME" envDefault:"example.com"`
	// API endpoint
	APIURL string `env:"CF_API_URL" envDefault:"https://api.cloudflare.com/client/v4"`
	// Path of the configuration file
	ConfigFile string `env:"CF_CONFIG_FILE" envDefault:"/app/config.yaml"`
	// Comment marking the records owned by this process
	ManagedComment string `env:"CF_MANAGED_COMMENT" envDefault:"managed-by:cloudflare-dns-sync"`
	// Shared secret required on container labels. Empty disables the gate.
	LabelToken string `env:"CF_LABEL_TOKEN" envDefault:""`
	// Log level
	LogLevel string `env:"CF_LOG_LEVEL" envDefault:"info"`
	// Connection timeout in seconds
	ConnectTimeout int `env:"CF_CONNECT_TIMEOUT" envDefault:"5"`
	// Response read timeout in seconds
	ReadTimeout int `env:"CF_READ_TIMEOUT" envDefault:"30"`
	// Watch container lifecycle events
	WatchDocker bool `env:"WATCH_DOCKER" envDefault:"true"`
	// Fallback sync period in seconds
	SyncInterval int `env:"SYNC_INTERVAL" envDefault:"300"`
	// Endpoint returning the host's public IP as plain text
	PublicIPURL string `env:"PUBLIC_IP_URL" envDefault:"https://ipinfo.io/ip"`
	// If true, log planned changes without executing them
	DryRun bool `env:"DRY_RUN" envDefault:"false"`
}

// NewOptions creates an Options object populated from the environment.
func NewOptions() (*Options, error) {
	opts := &Options{}
	if err := env.Parse(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// GetConnectTimeout returns the connection timeout.
func (o Options) GetConnectTimeout() time.Duration {
	return time.Duration(o.ConnectTimeout) * time.Second
}

// GetReadTimeout returns the response read timeout.
func (o Options) GetReadTimeout() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Second
}

// GetSyncInterval returns the fallback sync period.
func (o Options) GetSyncInterval() time.Duration {
	return time.Duration(o.SyncInterval) * time.Second
}

// ReadAPIToken reads the API token from the token file, trimming surrounding
// whitespace.
func (o Options) ReadAPIToken() (string, error) {
	data, err := os.ReadFile(o.APITokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
