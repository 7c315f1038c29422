// Copyright 2024-2025 NetCracker Technology Corporation
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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TotalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testcasehub_http_requests_total",
		Help: "Number of http requests.",
	},
	[]string{"path", "code", "method"},
)

var HttpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "testcasehub_http_request_duration_seconds_historgram",
		Buckets: []float64{
			0.1, // 100 ms
			0.2,
			0.25,
			0.5,
			1,
			1.5,
			3,
			5,
			10,
		},
	},
	[]string{"path", "code", "method"},
)

var CheckInsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testcasehub_checkins_total",
		Help: "Number of check-ins that created a new version.",
	},
	[]string{},
)

var NoOpCheckInsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testcasehub_noop_checkins_total",
		Help: "Number of check-ins rejected as unchanged by content hash.",
	},
	[]string{},
)

var DocumentUploadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testcasehub_document_uploads_total",
		Help: "Number of version files uploaded to document storage.",
	},
	[]string{},
)

var CleanupRemovedFilesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testcasehub_cleanup_removed_files_total",
		Help: "Number of stale or orphaned files removed by the cleanup job.",
	},
	[]string{"kind"},
)

func RegisterAllPrometheusApplicationMetrics() {
	prometheus.Register(TotalRequests)
	prometheus.Register(HttpDuration)
	prometheus.Register(CheckInsTotal)
	prometheus.Register(NoOpCheckInsTotal)
	prometheus.Register(DocumentUploadsTotal)
	prometheus.Register(CleanupRemovedFilesTotal)
}
