// Package telemetry exposes Prometheus metrics for a running simulation.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// Collector holds the metrics of one simulation process behind a private
// registry, so scrapes see only what the simulation publishes. A nil
// Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	rounds     prometheus.Counter
	broadcasts prometheus.Counter
	mutations  prometheus.Counter
	accepts    prometheus.Counter

	roundDuration prometheus.Histogram

	avgEntropy  prometheus.Gauge
	opinionated prometheus.Gauge

	buildInfo *prometheus.GaugeVec
}

// NewCollector builds a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rumorsim",
			Name:      "rounds_total",
			Help:      "Total number of completed simulation rounds.",
		}),
		broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rumorsim",
			Name:      "broadcasts_total",
			Help:      "Total number of rumors broadcast by nodes.",
		}),
		mutations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rumorsim",
			Name:      "mutations_total",
			Help:      "Total number of rumor mutations.",
		}),
		accepts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rumorsim",
			Name:      "accepts_total",
			Help:      "Total number of rumors accepted into a memory.",
		}),

		roundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rumorsim",
			Name:      "round_duration_seconds",
			Help:      "Wall-clock time spent per simulation round.",
			// Rounds on small networks finish in well under a
			// millisecond. This covers 10µs .. ~0.3s.
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),

		avgEntropy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rumorsim",
			Name:      "avg_entropy_bits",
			Help:      "Average memory entropy across all nodes after the latest round.",
		}),
		opinionated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rumorsim",
			Name:      "opinionated_fraction",
			Help:      "Fraction of nodes holding at least one rumor after the latest round.",
		}),

		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rumorsim",
			Name:      "build_info",
			Help:      "Build info (constant 1, labeled by version and commit).",
		}, []string{"version", "commit"}),
	}

	startTime := time.Now()
	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "rumorsim",
		Name:      "uptime_seconds",
		Help:      "Process uptime in seconds.",
	}, func() float64 { return time.Since(startTime).Seconds() })

	c.registry.MustRegister(
		c.rounds, c.broadcasts, c.mutations, c.accepts,
		c.roundDuration, c.avgEntropy, c.opinionated,
		c.buildInfo, uptime,
	)
	return c
}

// Handler exposes /metrics. Mount it with mux.Handle("/metrics", collector.Handler()).
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// SetBuildInfo should be called once at startup, e.g. with ldflags-provided values.
func (c *Collector) SetBuildInfo(version, commit string) {
	if c == nil {
		return
	}
	c.buildInfo.WithLabelValues(version, commit).Set(1)
}

// ObserveRound records the aggregates of one completed round.
func (c *Collector) ObserveRound(snap spreading.Snapshot, elapsed time.Duration) {
	if c == nil {
		return
	}

	c.rounds.Inc()
	c.broadcasts.Add(float64(snap.Broadcasts))
	c.mutations.Add(float64(snap.Mutations))
	c.accepts.Add(float64(snap.Accepts))
	c.roundDuration.Observe(elapsed.Seconds())

	c.avgEntropy.Set(snap.AvgEntropy)
	if n := len(snap.HasOpinion); n > 0 {
		held := 0
		for _, ok := range snap.HasOpinion {
			if ok {
				held++
			}
		}
		c.opinionated.Set(float64(held) / float64(n))
	}
}
