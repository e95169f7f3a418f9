package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matstore"

// Collector exposes Prometheus metrics for inbound HTTP requests and for the
// forecasting/recommendation engines.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	predictionsTotal *prometheus.CounterVec
	trainDuration    prometheus.Histogram
	trainTotal       *prometheus.CounterVec
	fallbacksTotal   prometheus.Counter
}

// NewCollector constructs a collector with default histograms/counters.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	predictionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "forecast",
		Name:      "predictions_total",
		Help:      "Demand predictions served, by timeframe.",
	}, []string{"timeframe"})

	trainDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "train_duration_seconds",
		Help:      "Duration of collaborative-filtering index rebuilds.",
		Buckets:   prometheus.DefBuckets,
	})

	trainTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "train_total",
		Help:      "Collaborative-filtering train runs, by outcome.",
	}, []string{"outcome"})

	fallbacksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "recommend",
		Name:      "fallbacks_total",
		Help:      "Recommendation requests that degraded to a fallback path.",
	})

	for _, c := range []prometheus.Collector{
		requestDuration, requestTotal, predictionsTotal, trainDuration, trainTotal, fallbacksTotal,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Collector{
		registry:         registry,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		predictionsTotal: predictionsTotal,
		trainDuration:    trainDuration,
		trainTotal:       trainTotal,
		fallbacksTotal:   fallbacksTotal,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// ObservePrediction records one served demand prediction.
func (c *Collector) ObservePrediction(timeframe string) {
	c.predictionsTotal.WithLabelValues(timeframe).Inc()
}

// ObserveTrain records one index rebuild and its duration.
func (c *Collector) ObserveTrain(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.trainTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		c.trainDuration.Observe(duration.Seconds())
	}
}

// ObserveFallback records a recommendation request that degraded.
func (c *Collector) ObserveFallback() {
	c.fallbacksTotal.Inc()
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
