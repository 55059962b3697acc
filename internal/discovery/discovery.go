/*
 * Discovery - desired records from container labels.
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
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cloudflare-dns-sync/internal/config"
	"cloudflare-dns-sync/internal/metrics"
	"cloudflare-dns-sync/internal/record"

	log "github.com/sirupsen/logrus"
)

// Label keys recognized on containers.
const (
	labelPrefix    = "cloudflare-dns-sync."
	labelExpose    = labelPrefix + "expose"
	labelSubdomain = labelPrefix + "subdomain"
	labelIP        = labelPrefix + "ip"
	labelProxied   = labelPrefix + "proxied"
	labelType      = labelPrefix + "type"
	labelTTL       = labelPrefix + "ttl"
	labelDyndns    = labelPrefix + "dyndns"
	labelToken     = labelPrefix + "token"
)

// hostRulePattern extracts the backtick-quoted hostname of a traefik router
// rule such as "Host(`app.example.com`)".
var hostRulePattern = regexp.MustCompile("Host\\(`([^`]+)`\\)")

// resolution classifies the discovery outcome for one container.
type resolution int

const (
	resolved resolution = iota
	// notExposed containers carry no expose label and do not participate.
	notExposed
	// skipped containers asked for a record that could not be resolved.
	skipped
)

// Discoverer turns labeled containers into desired records.
type Discoverer struct {
	lister     ContainerLister
	publicIP   PublicIPFetcher
	labelToken string
	metrics    *metrics.OpenMetrics
}

// NewDiscoverer returns a Discoverer. An empty labelToken disables the
// shared-secret gate.
func NewDiscoverer(lister ContainerLister, publicIP PublicIPFetcher, labelToken string) *Discoverer {
	return &Discoverer{
		lister:     lister,
		publicIP:   publicIP,
		labelToken: labelToken,
		metrics:    metrics.GetOpenMetricsInstance(),
	}
}

// Discover returns the records declared by running containers. Failures are
// contained: a container that cannot be resolved is skipped with a warning
// and an unreachable runtime yields an empty list.
func (d *Discoverer) Discover(ctx context.Context, settings config.GlobalSettings) []record.Desired {
	containers, err := d.lister.ListContainers(ctx)
	if err != nil {
		log.Errorf("Failed to discover Docker records: %v", err)
		return nil
	}

	ipCache := newPassIPCache(d.publicIP)
	var records []record.Desired
	dropped := 0
	for _, ctr := range containers {
		desired, outcome := d.resolveContainer(ctx, ctr, settings, ipCache)
		switch outcome {
		case resolved:
			records = append(records, desired)
		case skipped:
			dropped++
		}
	}
	d.metrics.SetSkippedContainers(dropped)
	return records
}

// resolveContainer applies the label policy to a single container.
func (d *Discoverer) resolveContainer(ctx context.Context, ctr Container, settings config.GlobalSettings, ipCache *passIPCache) (record.Desired, resolution) {
	expose := strings.ToLower(ctr.Labels[labelExpose])
	switch expose {
	case "true", "private", "public":
	default:
		return record.Desired{}, notExposed
	}

	if d.labelToken != "" && ctr.Labels[labelToken] != d.labelToken {
		log.WithFields(log.Fields{
			"container": ctr.Name,
		}).Warn("Skipping container missing label token")
		return record.Desired{}, skipped
	}

	subdomain := subdomainFromLabels(ctr)

	isDyndns := truthyLabel(ctr.Labels[labelDyndns])
	var content string
	if isDyndns {
		ip, ok := ipCache.get(ctx)
		if !ok {
			log.WithFields(log.Fields{
				"container": ctr.Name,
			}).Warn("Skipping dynamic DNS container due to missing external IP")
			return record.Desired{}, skipped
		}
		content = ip
	} else {
		content = ctr.Labels[labelIP]
		if content == "" {
			content = settings.GetDefaultIP()
		}
	}

	defaults := settings.DockerDefaults
	var proxied bool
	switch strings.ToLower(ctr.Labels[labelProxied]) {
	case "true":
		proxied = true
	case "false":
		proxied = false
	default:
		proxied = defaults.GetProxied()
	}

	recordType := ctr.Labels[labelType]
	if recordType == "" {
		recordType = defaults.GetType()
	}
	recordType = record.NormalizeType(recordType)
	if !record.IsAllowedType(recordType) {
		log.WithFields(log.Fields{
			"container":  ctr.Name,
			"recordType": recordType,
		}).Warn("Skipping record with invalid type")
		return record.Desired{}, skipped
	}

	ttl := defaults.GetTTL()
	if ttlLabel := ctr.Labels[labelTTL]; ttlLabel != "" {
		parsed, err := strconv.Atoi(ttlLabel)
		if err != nil {
			log.WithFields(log.Fields{
				"container": ctr.Name,
				"ttl":       ttlLabel,
			}).Warnf("Ignoring unparsable TTL label: %v", err)
		} else {
			ttl = parsed
		}
	}

	if !record.IsValidHostname(subdomain) {
		log.WithFields(log.Fields{
			"container": ctr.Name,
			"subdomain": subdomain,
		}).Warn("Skipping record with invalid name")
		return record.Desired{}, skipped
	}
	if !record.IsValidContent(recordType, content) {
		log.WithFields(log.Fields{
			"container":  ctr.Name,
			"recordType": recordType,
			"content":    content,
		}).Warn("Skipping record with invalid content")
		return record.Desired{}, skipped
	}

	log.WithFields(log.Fields{
		"container": ctr.Name,
		"subdomain": subdomain,
		"ip":        content,
		"expose":    expose,
		"dyndns":    isDyndns,
	}).Info("Discovered Docker service")

	return record.Desired{
		Name:      subdomain,
		Type:      recordType,
		Content:   content,
		Proxied:   proxied,
		TTL:       ttl,
		Origin:    record.OriginDocker,
		Container: ctr.Name,
	}, resolved
}

// subdomainFromLabels resolves the record name for a container: an explicit
// subdomain label wins, then a hostname extracted from a traefik router
// rule, then the container's own name. Rule labels are scanned in sorted
// order so the choice is stable.
func subdomainFromLabels(ctr Container) string {
	if sub := ctr.Labels[labelSubdomain]; sub != "" {
		return sub
	}
	keys := make([]string, 0, len(ctr.Labels))
	for key := range ctr.Labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !strings.Contains(key, "traefik.http.routers") || !strings.HasSuffix(key, ".rule") {
			continue
		}
		if m := hostRulePattern.FindStringSubmatch(ctr.Labels[key]); m != nil {
			return strings.Split(m[1], ".")[0]
		}
	}
	return ctr.Name
}

// truthyLabel reports whether a label value opts in. Accepted spellings are
// 1, true, yes and on.
func truthyLabel(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
