// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	FilesIngested    prometheus.Counter
	MoviesCreated    prometheus.Counter
	MoviesUpdated    prometheus.Counter
	EnrichmentMisses prometheus.Counter
	Deliveries       *prometheus.CounterVec
	Expiries         prometheus.Counter
}

// Delivery outcome label values.
const (
	DeliveryOutcomeSent         = "sent"
	DeliveryOutcomeNotFound     = "not_found"
	DeliveryOutcomeSendFailed   = "send_failed"
	DeliveryOutcomeLookupFailed = "lookup_failed"
)

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		FilesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviezone_files_ingested_total",
			Help: "Number of files ingested from the source channel",
		}),
		MoviesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviezone_movies_created_total",
			Help: "Number of new catalog entries created by ingests",
		}),
		MoviesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviezone_movies_updated_total",
			Help: "Number of ingests merged into existing catalog entries",
		}),
		EnrichmentMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviezone_enrichment_misses_total",
			Help: "Number of ingests that fell back to the raw filename title",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviezone_deliveries_total",
			Help: "Number of access code redemptions by outcome",
		}, []string{"outcome"}),
		Expiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moviezone_expiries_total",
			Help: "Number of delivered messages removed by the expiry scheduler",
		}),
	}

	registry.MustRegister(
		m.FilesIngested,
		m.MoviesCreated,
		m.MoviesUpdated,
		m.EnrichmentMisses,
		m.Deliveries,
		m.Expiries,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
