package globaladdr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricProbeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "selfaddr",
		Subsystem: "globaladdr",
		Name:      "probe_results_total",
		Help:      "Number of finished probes, per prober and result (vote, failed).",
	}, []string{"prober", "result"})

	metricVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "selfaddr",
		Subsystem: "globaladdr",
		Name:      "votes_total",
		Help:      "Number of datagrams received by vote listeners, per result (counted, rejected).",
	}, []string{"result"})

	metricDiscoveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "selfaddr",
		Subsystem: "globaladdr",
		Name:      "discovery_duration_seconds",
		Help:      "Time taken by one global address discovery.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	metricDiscoveredAddresses = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "selfaddr",
		Subsystem: "globaladdr",
		Name:      "discovered_addresses",
		Help:      "Number of distinct addresses returned by the latest discovery.",
	})
)

const (
	resultVote     = "vote"
	resultFailed   = "failed"
	resultCounted  = "counted"
	resultRejected = "rejected"
)
