package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LedgerTransactions   *prometheus.CounterVec
	InventoryConsumption *prometheus.CounterVec
	OrdersCreated        *prometheus.CounterVec
	StockAlerts          *prometheus.CounterVec
}

// New builds the collectors on a private registry under the given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	m.LedgerTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_transactions_total",
			Help:      "Ledger entries recorded, by transaction type",
		},
		[]string{"type"},
	)

	m.InventoryConsumption = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_consumption_total",
			Help:      "Recipe ingredient deductions attempted for order lines, by outcome",
		},
		[]string{"outcome"},
	)

	m.OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders created",
		},
		[]string{"order_type"},
	)

	m.StockAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_alerts_total",
			Help:      "Inventory alerts raised by the scheduled scans",
		},
		[]string{"kind"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LedgerTransactions,
		m.InventoryConsumption,
		m.OrdersCreated,
		m.StockAlerts,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordLedgerTransaction(txType string) {
	m.LedgerTransactions.WithLabelValues(txType).Inc()
}

func (m *Metrics) RecordConsumption(outcome string) {
	m.InventoryConsumption.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordOrderCreated(orderType string) {
	m.OrdersCreated.WithLabelValues(orderType).Inc()
}

func (m *Metrics) RecordStockAlerts(kind string, count int) {
	m.StockAlerts.WithLabelValues(kind).Add(float64(count))
}
