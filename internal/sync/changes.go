/*
 * Changes - planned DNS operations for one reconciliation pass.
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

	"cloudflare-dns-sync/internal/cloudflare"
	"cloudflare-dns-sync/internal/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// syncChanges holds the changes planned for a zone. Changes are applied
// creates first, then updates, then deletes, so that stale records are only
// removed once their replacements exist.
type syncChanges struct {
	dryRun bool

	creates []*changeCreate
	updates []*changeUpdate
	deletes []*changeDelete
}

// changeCreate is a record to be created.
type changeCreate struct {
	ZoneID string
	Params cloudflare.RecordParams
}

// GetLogFields returns the log fields for this change.
func (c changeCreate) GetLogFields() log.Fields {
	return log.Fields{
		"name":       c.Params.Name,
		"recordType": c.Params.Type,
		"content":    c.Params.Content,
		"proxied":    c.Params.Proxied,
	}
}

// changeUpdate is an existing record to be overwritten.
type changeUpdate struct {
	ZoneID   string
	RecordID string
	Params   cloudflare.RecordParams
}

// GetLogFields returns the log fields for this change.
func (c changeUpdate) GetLogFields() log.Fields {
	return log.Fields{
		"name":       c.Params.Name,
		"recordType": c.Params.Type,
		"content":    c.Params.Content,
		"proxied":    c.Params.Proxied,
	}
}

// changeDelete is an existing record to be removed.
type changeDelete struct {
	ZoneID string
	Record cloudflare.Record
}

// GetLogFields returns the log fields for this change.
func (c changeDelete) GetLogFields() log.Fields {
	return log.Fields{
		"name":       c.Record.Name,
		"recordType": c.Record.Type,
	}
}

// empty returns true if no changes are planned.
func (c *syncChanges) empty() bool {
	return len(c.creates) == 0 && len(c.updates) == 0 && len(c.deletes) == 0
}

// AddChangeCreate adds a creation to the planned changes.
func (c *syncChanges) AddChangeCreate(zoneID string, params cloudflare.RecordParams) {
	c.creates = append(c.creates, &changeCreate{
		ZoneID: zoneID,
		Params: params,
	})
}

// AddChangeUpdate adds an overwrite of an existing record to the planned
// changes.
func (c *syncChanges) AddChangeUpdate(zoneID, recordID string, params cloudflare.RecordParams) {
	c.updates = append(c.updates, &changeUpdate{
		ZoneID:   zoneID,
		RecordID: recordID,
		Params:   params,
	})
}

// AddChangeDelete adds a removal of an existing record to the planned
// changes.
func (c *syncChanges) AddChangeDelete(zoneID string, rec cloudflare.Record) {
	c.deletes = append(c.deletes, &changeDelete{
		ZoneID: zoneID,
		Record: rec,
	})
}

// applyCreates issues the planned creations and returns how many succeeded.
func (c *syncChanges) applyCreates(ctx context.Context, client apiClient, m *metrics.OpenMetrics) int {
	applied := 0
	for _, e := range c.creates {
		if c.dryRun {
			log.WithFields(e.GetLogFields()).Info("Would create DNS record")
			applied++
			continue
		}
		if err := client.CreateRecord(ctx, e.ZoneID, e.Params); err != nil {
			log.WithFields(log.Fields{
				"name": e.Params.Name,
			}).Errorf("Failed to create DNS record: %v", err)
			continue
		}
		m.IncRecordChangesTotal(opCreate)
		log.WithFields(e.GetLogFields()).Info("DNS record created")
		applied++
	}
	return applied
}

// applyUpdates issues the planned overwrites and returns how many succeeded.
func (c *syncChanges) applyUpdates(ctx context.Context, client apiClient, m *metrics.OpenMetrics) int {
	applied := 0
	for _, e := range c.updates {
		if c.dryRun {
			log.WithFields(e.GetLogFields()).Info("Would update DNS record")
			applied++
			continue
		}
		if err := client.UpdateRecord(ctx, e.ZoneID, e.RecordID, e.Params); err != nil {
			log.WithFields(log.Fields{
				"name": e.Params.Name,
			}).Errorf("Failed to update DNS record: %v", err)
			continue
		}
		m.IncRecordChangesTotal(opUpdate)
		log.WithFields(e.GetLogFields()).Info("DNS record updated")
		applied++
	}
	return applied
}

// applyDeletes issues the planned removals and returns how many succeeded.
func (c *syncChanges) applyDeletes(ctx context.Context, client apiClient, m *metrics.OpenMetrics) int {
	applied := 0
	for _, e := range c.deletes {
		if c.dryRun {
			log.WithFields(e.GetLogFields()).Info("Would delete DNS record")
			applied++
			continue
		}
		if err := client.DeleteRecord(ctx, e.ZoneID, e.Record.ID); err != nil {
			log.WithFields(log.Fields{
				"name": e.Record.Name,
			}).Errorf("Failed to delete DNS record: %v", err)
			continue
		}
		m.IncRecordChangesTotal(opDelete)
		log.WithFields(e.GetLogFields()).Info("DNS record deleted")
		applied++
	}
	return applied
}

// ApplyChanges applies the planned changes and returns the number of
// operations that succeeded. A failed operation is logged and does not stop
// the remaining ones.
func (c *syncChanges) ApplyChanges(ctx context.Context, client apiClient, m *metrics.OpenMetrics) int {
	if c.empty() {
		return 0
	}
	applied := c.applyCreates(ctx, client, m)
	applied += c.applyUpdates(ctx, client, m)
	applied += c.applyDeletes(ctx, client, m)
	return applied
}
