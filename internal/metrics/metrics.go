package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring pipeline health and performance
var (
	ContractsAnalyzedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_contracts_analyzed_total",
			Help: "Total number of contracts analyzed",
		},
	)

	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_signals_total",
			Help: "Total number of trading signals generated, by action",
		},
		[]string{"action"},
	)

	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_trades_total",
			Help: "Total number of trade executions, by status",
		},
		[]string{"status"},
	)

	RiskCheckFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fund_risk_check_failures_total",
			Help: "Total number of failed risk checks, by check",
		},
		[]string{"check"},
	)

	KalshiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fund_kalshi_request_duration_seconds",
			Help:    "Duration of Kalshi API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	LLMRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fund_llm_request_duration_seconds",
			Help:    "Duration of LLM analysis requests",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	ContractCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fund_contract_cache_hits_total",
			Help: "Total number of contract cache hits",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(ContractsAnalyzedTotal)
	prometheus.MustRegister(SignalsTotal)
	prometheus.MustRegister(TradesTotal)
	prometheus.MustRegister(RiskCheckFailuresTotal)
	prometheus.MustRegister(KalshiRequestDuration)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(ContractCacheHitsTotal)
}
