/*
 * Reconciler - diffs desired records against the zone and applies changes.
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
	"sort"
	"strings"

	"cloudflare-dns-sync/internal/cloudflare"
	"cloudflare-dns-sync/internal/metrics"
	"cloudflare-dns-sync/internal/record"

	log "github.com/sirupsen/logrus"
)

// apiClient abstracts the DNS provider operations used by a reconciliation
// pass.
type apiClient interface {
	ZoneID(ctx context.Context) (string, error)
	ListRecords(ctx context.Context, zoneID string) ([]cloudflare.Record, error)
	CreateRecord(ctx context.Context, zoneID string, params cloudflare.RecordParams) error
	UpdateRecord(ctx context.Context, zoneID, recordID string, params cloudflare.RecordParams) error
	DeleteRecord(ctx context.Context, zoneID, recordID string) error
}

// Reconciler brings the zone in line with a desired record set. Records it
// writes carry the managed comment, and only records carrying that comment
// are ever deleted.
type Reconciler struct {
	client         apiClient
	zoneName       string
	managedComment string
	dryRun         bool
	metrics        *metrics.OpenMetrics
}

// NewReconciler returns a Reconciler for the given zone.
func NewReconciler(client apiClient, zoneName, managedComment string, dryRun bool) *Reconciler {
	return &Reconciler{
		client:         client,
		zoneName:       zoneName,
		managedComment: managedComment,
		dryRun:         dryRun,
		metrics:        metrics.GetOpenMetricsInstance(),
	}
}

// Reconcile synchronizes the zone with the desired record set and returns
// the number of changes that were applied. When the zone cannot be resolved
// or its records cannot be listed, the pass is aborted without any changes.
func (r *Reconciler) Reconcile(ctx context.Context, desired []record.Desired) int {
	zoneID, err := r.client.ZoneID(ctx)
	if err != nil {
		log.Errorf("Failed to get zone ID: %v", err)
		return 0
	}

	existing, err := r.client.ListRecords(ctx, zoneID)
	if err != nil {
		log.Errorf("Failed to get DNS records: %v", err)
		return 0
	}
	index := indexRecords(existing)
	log.WithFields(log.Fields{
		"zone":  r.zoneName,
		"count": len(index),
	}).Info("Found existing records")

	r.metrics.SetDesiredRecords(len(desired))

	keys, byKey := r.dedupeByKey(desired)
	changes := &syncChanges{dryRun: r.dryRun}
	for _, key := range keys {
		r.planRecord(changes, zoneID, key, byKey[key], index)
	}
	r.planStaleDeletions(changes, zoneID, index, byKey)

	applied := changes.ApplyChanges(ctx, r.client, r.metrics)
	if applied == 0 {
		log.Info("No DNS record changes")
	} else {
		log.WithFields(log.Fields{
			"changes": applied,
		}).Info("Applied DNS record changes")
	}
	return applied
}

// fullRecordName returns the fully qualified name of a record in the zone.
// The apex marker "@" and names already carrying the zone suffix pass
// through unchanged.
func (r *Reconciler) fullRecordName(name string) string {
	if name == "@" || name == r.zoneName {
		return r.zoneName
	}
	if strings.HasSuffix(name, "."+r.zoneName) {
		return name
	}
	return name + "." + r.zoneName
}

// dedupeByKey qualifies each desired name and collapses entries sharing a
// record key. The later entry wins, so container labels can override manual
// records for the same name and type.
func (r *Reconciler) dedupeByKey(desired []record.Desired) ([]record.Key, map[record.Key]record.Desired) {
	keys := make([]record.Key, 0, len(desired))
	byKey := make(map[record.Key]record.Desired, len(desired))
	for _, d := range desired {
		key := record.Key{FQDN: r.fullRecordName(d.Name), Type: d.Type}
		if _, ok := byKey[key]; ok {
			log.WithFields(log.Fields{
				"fqdn":       key.FQDN,
				"recordType": key.Type,
			}).Debug("Duplicate desired record, keeping the later entry")
		} else {
			keys = append(keys, key)
		}
		byKey[key] = d
	}
	return keys, byKey
}

// planRecord compares one desired record against the zone and plans a create
// or update when they differ. A record created by someone else keeps its key
// occupied: it is neither overwritten nor duplicated.
func (r *Reconciler) planRecord(changes *syncChanges, zoneID string, key record.Key, d record.Desired, index map[record.Key]cloudflare.Record) {
	params := cloudflare.RecordParams{
		Type:    key.Type,
		Name:    key.FQDN,
		Content: d.Content,
		Proxied: d.Proxied,
		TTL:     d.TTL,
		Comment: r.managedComment,
	}
	current, ok := index[key]
	if !ok {
		changes.AddChangeCreate(zoneID, params)
		return
	}
	if current.Content == d.Content && current.Proxied == d.Proxied && current.TTL == d.TTL {
		log.WithFields(log.Fields{
			"fqdn":       key.FQDN,
			"recordType": key.Type,
		}).Debug("Record already up to date")
		return
	}
	if current.Comment != r.managedComment {
		log.WithFields(log.Fields{
			"fqdn":       key.FQDN,
			"recordType": key.Type,
		}).Warn("Record exists but is not managed, skipping update")
		return
	}
	changes.AddChangeUpdate(zoneID, current.ID, params)
}

// planStaleDeletions plans the removal of zone records that are no longer
// desired. Records not carrying the managed comment were created by someone
// else and are never touched.
func (r *Reconciler) planStaleDeletions(changes *syncChanges, zoneID string, index map[record.Key]cloudflare.Record, byKey map[record.Key]record.Desired) {
	keys := make([]record.Key, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].FQDN != keys[j].FQDN {
			return keys[i].FQDN < keys[j].FQDN
		}
		return keys[i].Type < keys[j].Type
	})
	for _, key := range keys {
		if _, ok := byKey[key]; ok {
			continue
		}
		rec := index[key]
		if rec.Comment != r.managedComment {
			continue
		}
		changes.AddChangeDelete(zoneID, rec)
	}
}

// indexRecords maps zone records by name and type. When the zone holds
// duplicates for a key the last one listed wins.
func indexRecords(records []cloudflare.Record) map[record.Key]cloudflare.Record {
	index := make(map[record.Key]cloudflare.Record, len(records))
	for _, rec := range records {
		key := record.Key{FQDN: rec.Name, Type: rec.Type}
		if _, ok := index[key]; ok {
			log.WithFields(log.Fields{
				"fqdn":       rec.Name,
				"recordType": rec.Type,
			}).Debug("Duplicate record in zone, keeping the last one")
		}
		index[key] = rec
	}
	return index
}
