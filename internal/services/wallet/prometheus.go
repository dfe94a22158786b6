package wallet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetricsCollector exports wallet metrics to a prometheus registry.
type PrometheusMetricsCollector struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	errors            *prometheus.CounterVec
	transactionVolume *prometheus.CounterVec
	transactionCount  *prometheus.CounterVec
	cashbackAwarded   prometheus.Counter
}

// NewPrometheusMetricsCollector registers the wallet metrics on reg.
func NewPrometheusMetricsCollector(reg prometheus.Registerer) *PrometheusMetricsCollector {
	factory := promauto.With(reg)
	return &PrometheusMetricsCollector{
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_operation_duration_seconds",
			Help:    "Latency distribution of wallet operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		operationResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_operation_results_total",
			Help: "Wallet operations by outcome",
		}, []string{"operation", "result"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_cache_lookups_total",
			Help: "Statement cache lookups by outcome",
		}, []string{"outcome"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_errors_total",
			Help: "Wallet operation errors by code",
		}, []string{"operation", "code"}),
		transactionVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transaction_volume_total",
			Help: "Sum of ledger entry amounts by kind",
		}, []string{"kind"}),
		transactionCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transactions_total",
			Help: "Number of ledger entries by kind",
		}, []string{"kind"}),
		cashbackAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "wallet_cashback_awarded_total",
			Help: "Sum of cashback credited to accounts",
		}),
	}
}

func (p *PrometheusMetricsCollector) RecordOperationDuration(operation string, duration time.Duration) {
	p.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *PrometheusMetricsCollector) RecordOperationResult(operation, result string) {
	p.operationResults.WithLabelValues(operation, result).Inc()
}

func (p *PrometheusMetricsCollector) RecordCacheHit(string) {
	p.cacheLookups.WithLabelValues("hit").Inc()
}

func (p *PrometheusMetricsCollector) RecordCacheMiss(string) {
	p.cacheLookups.WithLabelValues("miss").Inc()
}

func (p *PrometheusMetricsCollector) RecordError(operation, errType string) {
	p.errors.WithLabelValues(operation, errType).Inc()
}

func (p *PrometheusMetricsCollector) RecordTransaction(kind string, amount float64) {
	p.transactionCount.WithLabelValues(kind).Inc()
	p.transactionVolume.WithLabelValues(kind).Add(amount)
}

func (p *PrometheusMetricsCollector) RecordCashback(amount float64) {
	p.cashbackAwarded.Add(amount)
}
