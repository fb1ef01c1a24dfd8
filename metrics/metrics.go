// Package metrics exposes the proxy's prometheus instrumentation:
// connection counts, auth latency, backpressure, and compression
// ratio. Grounded on the teacher's worker.playersConnected gauge
// (worker/backend.go) and processRequests histogram (worker/worker.go),
// extended with an auth-latency histogram and a backpressure gauge for
// the connection-state and worker-pool behavior this build adds on top
// of the teacher's pure passthrough design.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlayersConnected mirrors worker.playersConnected, labeled by the
	// backend server a session is attached to.
	PlayersConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bamboo",
		Name:      "players_connected",
		Help:      "Number of client sessions currently forwarded to a backend.",
	}, []string{"backend"})

	// ConnectionsTotal counts accepted connections by the outcome they
	// ended in, mirroring the "action" label processRequests used.
	ConnectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bamboo",
		Name:      "connections_total",
		Help:      "Accepted connections, labeled by terminal outcome.",
	}, []string{"outcome"})

	authLatencyBuckets = []float64{.01, .05, .1, .25, .5, 1, 2, 5}
	// AuthLatencySeconds times the login sequence, from LoginStart to
	// either LoginSuccess or a rejection.
	AuthLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bamboo",
		Name:      "auth_latency_seconds",
		Help:      "Time spent completing the login/encryption handshake.",
		Buckets:   authLatencyBuckets,
	}, []string{"online_mode", "result"})

	// Backpressure reports the worker pool's current load against its
	// configured high-water mark (0 = empty, 1 = at the limit).
	Backpressure = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bamboo",
		Name:      "backpressure_ratio",
		Help:      "Active sessions divided by the pool's high-water mark.",
	})

	// CompressionRatio reports compressed/uncompressed byte ratio,
	// observed per outgoing frame once compression is enabled.
	CompressionRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bamboo",
		Name:      "compression_ratio",
		Help:      "Compressed frame size divided by uncompressed payload size.",
		Buckets:   []float64{.1, .25, .5, .75, .9, 1},
	})
)
