/*
 * Aggregate - desired state assembly from all sources.
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
package sync

import (
	"context"

	"cloudflare-dns-sync/internal/config"
	"cloudflare-dns-sync/internal/record"

	log "github.com/sirupsen/logrus"
)

// recordDiscoverer supplies the records declared by running containers.
type recordDiscoverer interface {
	Discover(ctx context.Context, settings config.GlobalSettings) []record.Desired
}

// Aggregator assembles the desired record set for one pass: manual records
// from the configuration file plus records discovered from containers.
type Aggregator struct {
	configFile  string
	watchDocker bool
	discoverer  recordDiscoverer
}

// NewAggregator returns an Aggregator. Container discovery runs only when
// watchDocker is set and the configuration file does not disable it.
func NewAggregator(configFile string, watchDocker bool, discoverer recordDiscoverer) *Aggregator {
	return &Aggregator{
		configFile:  configFile,
		watchDocker: watchDocker,
		discoverer:  discoverer,
	}
}

// Collect loads the configuration and merges manual records with discovered
// ones. The configuration is re-read on every pass so that file edits take
// effect without a restart.
func (a *Aggregator) Collect(ctx context.Context) []record.Desired {
	cfg := config.Load(a.configFile)
	records := manualRecords(cfg.ManualRecords)
	manualCount := len(records)

	dockerCount := 0
	if a.watchDocker && cfg.Global.DockerDiscoveryEnabled() {
		discovered := a.discoverer.Discover(ctx, cfg.Global)
		dockerCount = len(discovered)
		records = append(records, discovered...)
	}

	if len(records) > 0 {
		log.WithFields(log.Fields{
			"manualCount": manualCount,
			"dockerCount": dockerCount,
			"total":       len(records),
		}).Info("Total records to sync")
	}
	return records
}

// manualRecords validates and normalizes the configured record list. Entries
// that fail validation are dropped with a warning.
func manualRecords(entries []config.ManualRecord) []record.Desired {
	var records []record.Desired
	for _, entry := range entries {
		recordType := record.NormalizeType(entry.GetType())
		if !record.IsAllowedType(recordType) {
			log.WithFields(log.Fields{
				"name":       entry.Name,
				"recordType": recordType,
			}).Warn("Skipping manual record with invalid type")
			continue
		}
		if !record.IsValidHostname(entry.Name) {
			log.WithFields(log.Fields{
				"name": entry.Name,
			}).Warn("Skipping manual record with invalid name")
			continue
		}
		if !record.IsValidContent(recordType, entry.Content) {
			log.WithFields(log.Fields{
				"name":       entry.Name,
				"recordType": recordType,
				"content":    entry.Content,
			}).Warn("Skipping manual record with invalid content")
			continue
		}
		records = append(records, record.Desired{
			Name:    entry.Name,
			Type:    recordType,
			Content: entry.Content,
			Proxied: entry.GetProxied(),
			TTL:     entry.GetTTL(),
			Origin:  record.OriginManual,
		})
	}
	return records
}
