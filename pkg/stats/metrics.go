package stats

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dtrex"

var (
	// Registry holds every collector of the daemon, go runtime and process
	// ones included.
	Registry = prometheus.NewRegistry()

	VerifierTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verifier",
		Name:      "ticks_total",
		Help:      "Number of verification passes run.",
	})
	VerifierErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verifier",
		Name:      "errors_total",
		Help:      "Number of chain lookups that failed during verification.",
	})
	VerifierConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verifier",
		Name:      "confirmed_total",
		Help:      "Number of ledger entries confirmed by the verifier.",
	})
	LedgerStaleFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "stale_failed_total",
		Help:      "Number of stale ledger entries marked as failed.",
	})

	rpcRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Total JSON-RPC requests processed.",
	}, []string{"method", "code"})
	rpcDurations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "Duration of JSON-RPC requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		VerifierTicks, VerifierErrors, VerifierConfirmed, LedgerStaleFailed,
		rpcRequests, rpcDurations,
	)
}

// ObserveRPC records the outcome of a JSON-RPC call. A zero code means
// success.
func ObserveRPC(method string, code int, started time.Time) {
	rpcRequests.WithLabelValues(method, codeLabel(code)).Inc()
	rpcDurations.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func codeLabel(code int) string {
	if code == 0 {
		return "ok"
	}
	return strconv.Itoa(code)
}
