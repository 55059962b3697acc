/*
 * Common test routines for the sync package.
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
	"fmt"

	"cloudflare-dns-sync/internal/cloudflare"
	"cloudflare-dns-sync/internal/config"
	"cloudflare-dns-sync/internal/record"
)

// testZoneID is the zone identifier returned by the mock client.
const testZoneID = "023e105f4ecef8ad9ca31a8372d0c353"

// testComment is the ownership comment used in tests.
const testComment = "managed-by:cloudflare-dns-sync"

// zoneIDResponse simulates a zone lookup result.
type zoneIDResponse struct {
	id  string
	err error
}

// listResponse simulates a record listing result.
type listResponse struct {
	records []cloudflare.Record
	err     error
}

// recordUpdate captures the arguments of an update call.
type recordUpdate struct {
	RecordID string
	Params   cloudflare.RecordParams
}

// mockClientState keeps track of the calls issued during a pass.
type mockClientState struct {
	ZoneIDCalls int
	ListCalls   int
	Creates     []cloudflare.RecordParams
	Updates     []recordUpdate
	Deletes     []string
}

// mockClient simulates the DNS provider API. Write failures are injected per
// record name through writeErrs and per record ID through deleteErrs. With
// applyWrites set, writes become visible to subsequent ListRecords calls.
type mockClient struct {
	zoneID      zoneIDResponse
	list        listResponse
	writeErrs   map[string]error
	deleteErrs  map[string]error
	applyWrites bool
	nextID      int
	state       mockClientState
}

// GetState returns the internal state.
func (m *mockClient) GetState() mockClientState {
	return m.state
}

// ZoneID simulates a zone lookup.
func (m *mockClient) ZoneID(ctx context.Context) (string, error) {
	m.state.ZoneIDCalls++
	r := m.zoneID
	return r.id, r.err
}

// ListRecords simulates a record listing.
func (m *mockClient) ListRecords(ctx context.Context, zoneID string) ([]cloudflare.Record, error) {
	m.state.ListCalls++
	r := m.list
	return append([]cloudflare.Record(nil), r.records...), r.err
}

// CreateRecord simulates a record creation.
func (m *mockClient) CreateRecord(ctx context.Context, zoneID string, params cloudflare.RecordParams) error {
	m.state.Creates = append(m.state.Creates, params)
	if err := m.writeErrs[params.Name]; err != nil {
		return err
	}
	if m.applyWrites {
		m.nextID++
		m.list.records = append(m.list.records, cloudflare.Record{
			ID:      fmt.Sprintf("rec-%d", m.nextID),
			Type:    params.Type,
			Name:    params.Name,
			Content: params.Content,
			Proxied: params.Proxied,
			TTL:     params.TTL,
			Comment: params.Comment,
		})
	}
	return nil
}

// UpdateRecord simulates a record overwrite.
func (m *mockClient) UpdateRecord(ctx context.Context, zoneID, recordID string, params cloudflare.RecordParams) error {
	m.state.Updates = append(m.state.Updates, recordUpdate{
		RecordID: recordID,
		Params:   params,
	})
	if err := m.writeErrs[params.Name]; err != nil {
		return err
	}
	if m.applyWrites {
		for i, rec := range m.list.records {
			if rec.ID == recordID {
				m.list.records[i] = cloudflare.Record{
					ID:      recordID,
					Type:    params.Type,
					Name:    params.Name,
					Content: params.Content,
					Proxied: params.Proxied,
					TTL:     params.TTL,
					Comment: params.Comment,
				}
			}
		}
	}
	return nil
}

// DeleteRecord simulates a record removal.
func (m *mockClient) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	m.state.Deletes = append(m.state.Deletes, recordID)
	if err := m.deleteErrs[recordID]; err != nil {
		return err
	}
	if m.applyWrites {
		kept := m.list.records[:0]
		for _, rec := range m.list.records {
			if rec.ID != recordID {
				kept = append(kept, rec)
			}
		}
		m.list.records = kept
	}
	return nil
}

// managedRecord builds a zone record carrying the ownership comment.
func managedRecord(id, name, recordType, content string, proxied bool, ttl int) cloudflare.Record {
	rec := foreignRecord(id, name, recordType, content, proxied, ttl)
	rec.Comment = testComment
	return rec
}

// foreignRecord builds a zone record created outside of this service.
func foreignRecord(id, name, recordType, content string, proxied bool, ttl int) cloudflare.Record {
	return cloudflare.Record{
		ID:      id,
		Type:    recordType,
		Name:    name,
		Content: content,
		Proxied: proxied,
		TTL:     ttl,
	}
}

// desiredRecord builds a desired record.
func desiredRecord(name, recordType, content string, proxied bool, ttl int) record.Desired {
	return record.Desired{
		Name:    name,
		Type:    recordType,
		Content: content,
		Proxied: proxied,
		TTL:     ttl,
	}
}

// expectParams builds the write parameters the reconciler is expected to
// produce for a record.
func expectParams(name, recordType, content string, proxied bool, ttl int) cloudflare.RecordParams {
	return cloudflare.RecordParams{
		Type:    recordType,
		Name:    name,
		Content: content,
		Proxied: proxied,
		TTL:     ttl,
		Comment: testComment,
	}
}

// mockDiscoverer simulates container discovery.
type mockDiscoverer struct {
	records  []record.Desired
	calls    int
	settings config.GlobalSettings
}

// Discover returns the canned records and saves the settings it was given.
func (m *mockDiscoverer) Discover(ctx context.Context, settings config.GlobalSettings) []record.Desired {
	m.calls++
	m.settings = settings
	return m.records
}
