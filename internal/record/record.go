/*
 * Record - desired-state record model.
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
package record

// Record types managed by this system.
const (
	TypeA     = "A"
	TypeAAAA  = "AAAA"
	TypeCNAME = "CNAME"
	TypeTXT   = "TXT"
)

// Origin tells where a desired record came from.
type Origin string

// Known origins.
const (
	OriginManual Origin = "manual"
	OriginDocker Origin = "docker"
)

// Desired is a record in its desired state. Desired records are recomputed
// on every cycle and never persisted.
type Desired struct {
	// Name is the record name relative to the zone, or "@" for the apex.
	Name string
	// Type is one of the managed record types.
	Type string
	// Content is the record value (address, target or text).
	Content string
	// Proxied routes traffic through the provider's edge network.
	Proxied bool
	// TTL in seconds; 1 selects the provider's automatic TTL.
	TTL int
	// Origin tells whether the record was configured or discovered.
	Origin Origin
	// Container holds the source container name for discovered records.
	Container string
}

// Key identifies a record for diffing. At most one existing record per key
// takes part in a diff.
type Key struct {
	FQDN string
	Type string
}
