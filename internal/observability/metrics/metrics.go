package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	salesTotal       prometheus.Counter
	saleQuantity     prometheus.Counter
	saleFailures     *prometheus.CounterVec
	catalogMutations *prometheus.CounterVec
	storeSaves       *prometheus.CounterVec
}

// New registers the instrument set on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kantin_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kantin_http_request_duration_seconds",
			Help:    "HTTP request duration by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		salesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kantin_sales_total",
			Help: "Completed sale transactions.",
		}),
		saleQuantity: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kantin_sale_units_total",
			Help: "Units sold across all completed sales.",
		}),
		saleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kantin_sale_failures_total",
			Help: "Rejected sales by reason.",
		}, []string{"reason"}),
		catalogMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kantin_catalog_mutations_total",
			Help: "Catalog mutations by operation.",
		}, []string{"op"}),
		storeSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kantin_store_saves_total",
			Help: "Record store table saves by kind.",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.httpRequests,
			m.httpDuration,
			m.salesTotal,
			m.saleQuantity,
			m.saleFailures,
			m.catalogMutations,
			m.storeSaves,
		)
	}

	return m
}

// NewDefault registers on the default prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) ObserveSale(quantity int) {
	if m == nil {
		return
	}
	m.salesTotal.Inc()
	m.saleQuantity.Add(float64(quantity))
}

func (m *Metrics) ObserveSaleFailure(reason string) {
	if m == nil {
		return
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	m.saleFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveCatalogMutation(op string) {
	if m == nil {
		return
	}
	m.catalogMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveStoreSave(kind string) {
	if m == nil {
		return
	}
	m.storeSaves.WithLabelValues(kind).Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequests.WithLabelValues(route, method, status).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
