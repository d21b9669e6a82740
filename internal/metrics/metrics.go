// Package metrics provides Prometheus metrics for the meshdrop viewer.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshdrop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meshdrop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Selection and load metrics
	selectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshdrop_selections_total",
			Help: "Total selections by result",
		},
		[]string{"result"},
	)

	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshdrop_loads_total",
			Help: "Total model loads by result",
		},
		[]string{"result"},
	)

	loadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshdrop_load_duration_seconds",
			Help:    "Time from selection to load completion",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Resolver metrics
	resolverLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshdrop_resolver_lookups_total",
			Help: "Asset URI lookups by resolution",
		},
		[]string{"resolution"},
	)

	objectRefsMinted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshdrop_object_refs_minted_total",
			Help: "Total object references minted",
		},
	)

	objectRefsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meshdrop_object_refs_live",
			Help: "Object references currently resolvable",
		},
	)

	objectBytesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meshdrop_object_bytes_served_total",
			Help: "Bytes served through object references",
		},
	)

	// Viewport metrics
	rescalesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshdrop_rescales_total",
			Help: "Rescale requests by result",
		},
		[]string{"result"},
	)

	websocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meshdrop_websocket_clients",
			Help: "Connected viewport clients",
		},
	)

	websocketEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshdrop_websocket_events_total",
			Help: "Events broadcast to viewport clients",
		},
		[]string{"type"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSelection records whether a selection was accepted.
func RecordSelection(accepted bool) {
	result := "accepted"
	if !accepted {
		result = "invalid"
	}
	selectionsTotal.WithLabelValues(result).Inc()
}

// RecordLoad records a finished load and its duration.
func RecordLoad(result string, duration time.Duration) {
	loadsTotal.WithLabelValues(result).Inc()
	loadDuration.Observe(duration.Seconds())
}

// RecordResolverLookup records how the resolver handled a URI.
func RecordResolverLookup(resolution string) {
	resolverLookupsTotal.WithLabelValues(resolution).Inc()
}

// RecordObjectMinted records a new object reference.
func RecordObjectMinted() {
	objectRefsMinted.Inc()
}

// SetObjectRefsLive sets the number of live object references.
func SetObjectRefsLive(count int) {
	objectRefsLive.Set(float64(count))
}

// RecordObjectServed records bytes served for an object reference.
func RecordObjectServed(bytes int64) {
	objectBytesServed.Add(float64(bytes))
}

// RecordRescale records a rescale request.
func RecordRescale(applied bool) {
	result := "applied"
	if !applied {
		result = "ignored"
	}
	rescalesTotal.WithLabelValues(result).Inc()
}

// SetWebsocketClients sets the number of connected viewport clients.
func SetWebsocketClients(count int) {
	websocketClients.Set(float64(count))
}

// RecordWebsocketEvent records a broadcast event.
func RecordWebsocketEvent(eventType string) {
	websocketEventsTotal.WithLabelValues(eventType).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets websocket upgrades pass through the middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns HTTP middleware that records request metrics.
// Requests are labelled by their mux pattern to keep object tokens
// out of the label set.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
