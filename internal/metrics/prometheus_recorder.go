package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	retrievalDuration *prom.HistogramVec
	retrievalResults  *prom.CounterVec
	transformDuration prom.Histogram
	retries           prom.Counter
	retriesExhausted  prom.Counter
	activeContainers  prom.Gauge
	httpRequests      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.retrievalDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docview",
			Name:      "retrieval_duration_seconds",
			Help:      "Duration of individual document retrievals",
			Buckets:   prom.DefBuckets,
		}, []string{"source", "result"})
		pr.retrievalResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docview",
			Name:      "retrieval_results_total",
			Help:      "Retrieval outcomes by result",
		}, []string{"result"})
		pr.transformDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docview",
			Name:      "transform_duration_seconds",
			Help:      "Duration of markup-to-HTML transformation",
			Buckets:   prom.DefBuckets,
		})
		pr.retries = prom.NewCounter(prom.CounterOpts{
			Namespace: "docview",
			Name:      "retrieval_retries_total",
			Help:      "Total retrieval retry attempts",
		})
		pr.retriesExhausted = prom.NewCounter(prom.CounterOpts{
			Namespace: "docview",
			Name:      "retrieval_retry_exhausted_total",
			Help:      "Count of containers whose retry budget was exhausted",
		})
		pr.activeContainers = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docview",
			Name:      "active_containers",
			Help:      "Number of content containers currently managed",
		})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docview",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by the viewer",
		}, []string{"method", "status"})
		reg.MustRegister(pr.retrievalDuration, pr.retrievalResults, pr.transformDuration, pr.retries, pr.retriesExhausted, pr.activeContainers, pr.httpRequests)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRetrievalDuration(source string, d time.Duration, success bool) {
	if p == nil || p.retrievalDuration == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	p.retrievalDuration.WithLabelValues(source, result).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRetrievalResult(result ResultLabel) {
	if p == nil || p.retrievalResults == nil {
		return
	}
	p.retrievalResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveTransformDuration(d time.Duration) {
	if p == nil || p.transformDuration == nil {
		return
	}
	p.transformDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRetry() {
	if p == nil || p.retries == nil {
		return
	}
	p.retries.Inc()
}

func (p *PrometheusRecorder) IncRetryExhausted() {
	if p == nil || p.retriesExhausted == nil {
		return
	}
	p.retriesExhausted.Inc()
}

func (p *PrometheusRecorder) SetActiveContainers(n int) {
	if p == nil || p.activeContainers == nil {
		return
	}
	p.activeContainers.Set(float64(n))
}

func (p *PrometheusRecorder) IncHTTPRequest(method string, status int) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// HTTPHandler returns an http.Handler serving Prometheus metrics for the
// provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
