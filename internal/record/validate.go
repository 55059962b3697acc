/*
 * Validate - hostname and record content validation.
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

import (
	"net/netip"
	"regexp"
	"strings"
)

// labelPattern matches a single DNS label: alphanumeric with internal
// hyphens, at most 63 characters.
var labelPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// maxTXTLength is the longest TXT content accepted.
const maxTXTLength = 255

// NormalizeType returns the canonical form of a record type.
func NormalizeType(recordType string) string {
	return strings.ToUpper(strings.TrimSpace(recordType))
}

// IsAllowedType checks whether a record type is one this system manages.
func IsAllowedType(recordType string) bool {
	switch NormalizeType(recordType) {
	case TypeA, TypeAAAA, TypeCNAME, TypeTXT:
		return true
	default:
		return false
	}
}

// IsValidHostname validates a record name. "@" denotes the zone apex and is
// always valid. Otherwise every dot-separated label must be a wildcard or
// match labelPattern; empty names and leading or trailing dots are rejected.
func IsValidHostname(name string) bool {
	if name == "@" {
		return true
	}
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if label == "*" {
			continue
		}
		if !labelPattern.MatchString(label) {
			return false
		}
	}
	return true
}

// IsValidContent validates record content for the given type. A records need
// an IPv4 literal, AAAA an IPv6 literal, CNAME a valid hostname (a trailing
// dot is tolerated) and TXT a non-empty value of at most 255 characters.
// Unknown types are invalid.
func IsValidContent(recordType, content string) bool {
	switch NormalizeType(recordType) {
	case TypeA:
		addr, err := netip.ParseAddr(content)
		return err == nil && addr.Is4()
	case TypeAAAA:
		addr, err := netip.ParseAddr(content)
		return err == nil && addr.Is6()
	case TypeCNAME:
		return IsValidHostname(strings.TrimRight(content, "."))
	case TypeTXT:
		return content != "" && len(content) <= maxTXTLength
	default:
		return false
	}
}
