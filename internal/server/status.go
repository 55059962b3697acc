/*
 * Status - server status.
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
package server

import "sync"

// mutexedBool is a mutex-protected boolean value.
type mutexedBool struct {
	m sync.Mutex
	v bool
}

// Set sets the value for this instance.
func (b *mutexedBool) Set(v bool) {
	b.m.Lock()
	b.v = v
	b.m.Unlock()
}

// Get gets the value from this instance.
func (b *mutexedBool) Get() bool {
	var v bool
	b.m.Lock()
	v = b.v
	b.m.Unlock()
	return v
}

// Status contains the health and ready statuses for the service.
type Status struct {
	healthy mutexedBool
	ready   mutexedBool
}

// SetHealthy sets the health status.
func (s *Status) SetHealthy(v bool) {
	s.healthy.Set(v)
}

// SetReady sets the readiness status.
func (s *Status) SetReady(v bool) {
	s.ready.Set(v)
}

// IsHealthy returns the healthy flag.
func (s *Status) IsHealthy() bool {
	return s.healthy.Get()
}

// IsReady returns the readiness status.
func (s *Status) IsReady() bool {
	return s.ready.Get()
}
