/*
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
package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
)

// SocketOptions contains the arguments passed as environment variables that
// influence the metrics and probe socket.
type SocketOptions struct {
	// Metrics and probe host
	MetricsHost string `env:"METRICS_HOST" envDefault:"0.0.0.0"`
	// Metrics and probe port
	MetricsPort uint16 `env:"METRICS_PORT" envDefault:"8080"`
	// Read timeout in milliseconds
	ReadTimeout int `env:"READ_TIMEOUT" envDefault:"60000"`
	// Write timeout in milliseconds
	WriteTimeout int `env:"WRITE_TIMEOUT" envDefault:"60000"`
}

// NewSocketOptions reads the socket options from the environment.
func NewSocketOptions() (*SocketOptions, error) {
	options := SocketOptions{}
	if err := env.Parse(&options); err != nil {
		return nil, err
	}
	return &options, nil
}

// GetMetricsAddress returns the address of the metrics and probe socket as
// "host:port".
func (o SocketOptions) GetMetricsAddress() string {
	return fmt.Sprintf("%s:%d", o.MetricsHost, o.MetricsPort)
}

// GetReadTimeout returns the read timeout as a duration.
func (o SocketOptions) GetReadTimeout() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the write timeout as a duration.
func (o SocketOptions) GetWriteTimeout() time.Duration {
	return time.Duration(o.WriteTimeout) * time.Millisecond
}
