package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/tourdesk/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry       *prometheus.Registry
	namespace      string
	httpReqCnt     *prometheus.CounterVec
	httpDur        *prometheus.HistogramVec
	httpInfl       *prometheus.GaugeVec
	transitionCnt  *prometheus.CounterVec
	inventoryCnt   *prometheus.CounterVec
	bulkFailureCnt *prometheus.CounterVec
	eventCnt       *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	transitionCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "booking_transitions_total"}, []string{"from", "to", "result"})
	inventoryCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "inventory_writes_total"}, []string{"result"})
	bulkFailureCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "bulk_failures_total"}, []string{"op"})
	eventCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "events_published_total"}, []string{"type", "result"})
	r.MustRegister(transitionCnt, inventoryCnt, bulkFailureCnt, eventCnt)

	return &Metrics{
		registry:       r,
		namespace:      ns,
		httpReqCnt:     httpReqCnt,
		httpDur:        httpDur,
		httpInfl:       httpInfl,
		transitionCnt:  transitionCnt,
		inventoryCnt:   inventoryCnt,
		bulkFailureCnt: bulkFailureCnt,
		eventCnt:       eventCnt,
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// BookingTransition counts an attempted status change
func (m *Metrics) BookingTransition(from, to string, err error) {
	if m == nil {
		return
	}
	m.transitionCnt.WithLabelValues(from, to, result(err)).Inc()
}

// InventoryWrite counts an attempted inventory upsert
func (m *Metrics) InventoryWrite(err error) {
	if m == nil {
		return
	}
	m.inventoryCnt.WithLabelValues(result(err)).Inc()
}

// BulkFailures adds the failed ids of one bulk operation
func (m *Metrics) BulkFailures(op string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.bulkFailureCnt.WithLabelValues(op).Add(float64(n))
}

// EventPublished counts a notifier publish
func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	m.eventCnt.WithLabelValues(eventType, result(err)).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := httpStatus(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func httpStatus(code int) string { return strconv.Itoa(code) }
