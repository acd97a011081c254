/*
Copyright 2014-2017 Bo Blanton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// render and http stats, exposed on /metrics
package stats

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	STATUS_OK   = "ok"
	STATUS_FAIL = "fail"
)

var (
	GraphsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badlogvis_graphs_rendered_total",
			Help: "Graphs run through the pipeline, by outcome",
		},
		[]string{"status"},
	)

	GraphErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badlogvis_graph_errors_total",
			Help: "Failed graphs by error kind",
		},
		[]string{"kind"},
	)

	SeriesPoints = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badlogvis_series_points_total",
			Help: "Points loaded from all series sources",
		},
	)

	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "badlogvis_render_duration_seconds",
			Help:    "Time to load, assemble and render a full dashboard",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badlogvis_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "badlogvis_http_request_duration_seconds",
			Help:    "HTTP request time by route",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
)

var NAME_SANITIZER *strings.Replacer

// SanitizeName makes a label value out of anything
func SanitizeName(name string) string {
	return NAME_SANITIZER.Replace(name)
}

// ObserveSince is a handy "defer" function for timers, in seconds
func ObserveSince(obs prometheus.Observer, start time.Time) {
	obs.Observe(time.Since(start).Seconds())
}

// GraphDone counts one graph outcome, kind is the error kind for failures
func GraphDone(kind string) {
	if kind == "" {
		GraphsRendered.WithLabelValues(STATUS_OK).Inc()
		return
	}
	GraphsRendered.WithLabelValues(STATUS_FAIL).Inc()
	GraphErrors.WithLabelValues(SanitizeName(kind)).Inc()
}

func init() {
	NAME_SANITIZER = strings.NewReplacer(
		"..", ".",
		",", "_",
		"=", "_",
		"*", "_",
		"(", "_",
		")", "_",
		"{", "_",
		"}", "_",
		":", "_",
		"$", "_",
		" ", "_",
		"/", "_",
		"]", "_",
		"[", "_",
		"|", "_",
		"\\", "_",
		";", "_",
		"\"", "_",
	)
}
