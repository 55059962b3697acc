/*
 * Metrics - OpenMetrics implementation.
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
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics instance
var metrics *OpenMetrics

type OpenMetrics struct {
	registry *prometheus.Registry

	successfulApiCallsTotal *prometheus.CounterVec
	failedApiCallsTotal     *prometheus.CounterVec
	rateLimitedCallsTotal   *prometheus.CounterVec

	recordChangesTotal *prometheus.CounterVec
	syncRunsTotal      prometheus.Counter
	desiredRecords     prometheus.Gauge
	skippedContainers  prometheus.Gauge
	apiDelayCount      *prometheus.HistogramVec
}

// GetOpenMetricsInstance returns the current OpenMetrics instance or creates a
// new one if required.
func GetOpenMetricsInstance() *OpenMetrics {
	if metrics == nil {
		reg := prometheus.NewRegistry()
		metrics = &OpenMetrics{
			registry: reg,
			successfulApiCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "successful_api_calls_total",
					Help: "The number of successful Cloudflare API calls",
				},
				[]string{"action"},
			),
			failedApiCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "failed_api_calls_total",
					Help: "The number of Cloudflare API calls that returned an error",
				},
				[]string{"action"},
			),
			rateLimitedCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limited_api_calls_total",
					Help: "The number of Cloudflare API calls answered with status 429",
				},
				[]string{"action"},
			),
			recordChangesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "record_changes_total",
					Help: "The number of DNS record changes applied, by operation",
				},
				[]string{"op"},
			),
			syncRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "sync_runs_total",
				Help: "The number of completed synchronization passes",
			}),
			desiredRecords: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "desired_records",
				Help: "The number of desired records collected in the last pass",
			}),
			skippedContainers: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "skipped_containers",
				Help: "The number of containers excluded in the last discovery pass",
			}),
			apiDelayCount: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "api_delay_count",
					Help:    "Histogram of the delay in milliseconds when calling the Cloudflare API",
					Buckets: []float64{10, 100, 250, 500, 1000, 1500, 2000},
				},
				[]string{"action"},
			),
		}
		reg.MustRegister(metrics.successfulApiCallsTotal)
		reg.MustRegister(metrics.failedApiCallsTotal)
		reg.MustRegister(metrics.rateLimitedCallsTotal)
		reg.MustRegister(metrics.recordChangesTotal)
		reg.MustRegister(metrics.syncRunsTotal)
		reg.MustRegister(metrics.desiredRecords)
		reg.MustRegister(metrics.skippedContainers)
		reg.MustRegister(metrics.apiDelayCount)
	}
	return metrics
}

// getLabels builds the label map.
func getLabels(action string) prometheus.Labels {
	return prometheus.Labels{"action": action}
}

func (m OpenMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// IncSuccessfulApiCallsTotal increments the successful_api_calls_total counter.
func (m *OpenMetrics) IncSuccessfulApiCallsTotal(action string) {
	m.successfulApiCallsTotal.With(getLabels(action)).Inc()
}

// IncFailedApiCallsTotal increments the failed_api_calls_total counter.
func (m *OpenMetrics) IncFailedApiCallsTotal(action string) {
	m.failedApiCallsTotal.With(getLabels(action)).Inc()
}

// IncRateLimitedApiCallsTotal increments the rate_limited_api_calls_total
// counter.
func (m *OpenMetrics) IncRateLimitedApiCallsTotal(action string) {
	m.rateLimitedCallsTotal.With(getLabels(action)).Inc()
}

// IncRecordChangesTotal increments the record_changes_total counter for an
// operation ("create", "update" or "delete").
func (m *OpenMetrics) IncRecordChangesTotal(op string) {
	m.recordChangesTotal.With(prometheus.Labels{"op": op}).Inc()
}

// IncSyncRunsTotal increments the sync_runs_total counter.
func (m *OpenMetrics) IncSyncRunsTotal() {
	m.syncRunsTotal.Inc()
}

// SetDesiredRecords sets the value for the desired_records gauge.
func (m *OpenMetrics) SetDesiredRecords(num int) {
	m.desiredRecords.Set(float64(num))
}

// SetSkippedContainers sets the value for the skipped_containers gauge.
func (m *OpenMetrics) SetSkippedContainers(num int) {
	m.skippedContainers.Set(float64(num))
}

func (m *OpenMetrics) AddApiDelayCount(action string, delay int64) {
	m.apiDelayCount.With(getLabels(action)).Observe(float64(delay))
}
