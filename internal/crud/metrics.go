// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crud

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restop_requests_total",
			Help: "Total operations executed by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restop_request_duration_seconds",
			Help:    "Duration of operation execution including token acquisition",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	errorsByType = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restop_errors_total",
			Help: "Total operation errors by classified type",
		},
		[]string{"resource", "error_type"},
	)
)

// recordRequest records one operation execution.
func recordRequest(resource, outcome string, duration time.Duration) {
	requestsTotal.WithLabelValues(resource, outcome).Inc()
	requestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// recordError records a classified operation error.
func recordError(resource, errorType string) {
	errorsByType.WithLabelValues(resource, errorType).Inc()
}
