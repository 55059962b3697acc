/*
 * Service - serialized reconciliation passes driven by triggers.
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
	gosync "sync"
	"time"

	"cloudflare-dns-sync/internal/metrics"
	"cloudflare-dns-sync/internal/record"

	log "github.com/sirupsen/logrus"
)

// recordCollector assembles the desired record set for one pass.
type recordCollector interface {
	Collect(ctx context.Context) []record.Desired
}

// recordReconciler applies a desired record set to the zone.
type recordReconciler interface {
	Reconcile(ctx context.Context, desired []record.Desired) int
}

// Service runs reconciliation passes. Passes are serialized behind a mutex,
// so triggers firing while a pass is running queue up instead of
// interleaving.
type Service struct {
	mu         gosync.Mutex
	collector  recordCollector
	reconciler recordReconciler
	interval   time.Duration
	metrics    *metrics.OpenMetrics
}

// NewService returns a Service that reconciles every interval and whenever
// SyncAll is called by a trigger.
func NewService(collector recordCollector, reconciler recordReconciler, interval time.Duration) *Service {
	return &Service{
		collector:  collector,
		reconciler: reconciler,
		interval:   interval,
		metrics:    metrics.GetOpenMetricsInstance(),
	}
}

// SyncAll runs one full reconciliation pass. The pass runs on its own
// context so that a shutdown lets in-flight API calls complete. An empty
// desired set skips reconciliation entirely rather than deleting every
// managed record.
func (s *Service) SyncAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	records := s.collector.Collect(ctx)
	if len(records) == 0 {
		log.Warn("No records found from any source")
	} else {
		s.reconciler.Reconcile(ctx, records)
	}
	s.metrics.IncSyncRunsTotal()
	log.Info("Sync cycle complete")
}

// SyncAfter waits for a settling delay and then runs a pass. Container
// event triggers use it so rapid lifecycle transitions coalesce into the
// state observed after the delay.
func (s *Service) SyncAfter(delay time.Duration) {
	time.Sleep(delay)
	s.SyncAll()
}

// Run performs an initial pass and then blocks, reconciling every interval
// until ctx is canceled. The periodic pass is a backup for triggers that
// were missed.
func (s *Service) Run(ctx context.Context) {
	log.WithFields(log.Fields{
		"interval": s.interval,
	}).Info("DNS sync service starting")
	s.SyncAll()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down gracefully")
			return
		case <-ticker.C:
			log.Info("Periodic sync (backup)")
			s.SyncAll()
		}
	}
}
