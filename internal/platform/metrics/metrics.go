package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	coverCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookalchemy",
		Name:      "cover_cache_hits_total",
		Help:      "Cover lookups answered from the in-process cache",
	})
	coverCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookalchemy",
		Name:      "cover_cache_misses_total",
		Help:      "Cover lookups that had to be resolved remotely",
	})
	coverRemoteFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookalchemy",
		Name:      "cover_remote_failures_total",
		Help:      "Failed remote calls by call type (catalog, cover)",
	}, []string{"call"})
	coverCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookalchemy",
		Name:      "cover_cache_entries",
		Help:      "Entries held by the cover cache (never evicted)",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookalchemy",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code",
	}, []string{"method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookalchemy",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(coverCacheHits, coverCacheMisses, coverRemoteFailures, coverCacheEntries,
			httpRequests, httpDuration)
	})
}

// Cover implements cover.Metrics.
type Cover struct{}

func (Cover) CacheHit()                 { coverCacheHits.Inc() }
func (Cover) CacheMiss()                { coverCacheMisses.Inc() }
func (Cover) RemoteFailure(call string) { coverRemoteFailures.WithLabelValues(call).Inc() }
func (Cover) CacheSize(n int)           { coverCacheEntries.Set(float64(n)) }

// knownMethods bounds the method label; anything else is recorded as OTHER.
var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

func methodLabel(method string) string {
	if knownMethods[method] {
		return method
	}
	return "OTHER"
}

func ObserveRequest(method string, status int, d time.Duration) {
	method = methodLabel(method)
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(d.Seconds())
}
