package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
)

var (
	// Analysis metrics
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantum_tradebot_analyses_total",
			Help: "Total number of completed analyses by overall decision",
		},
		[]string{"symbol", "signal"},
	)

	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantum_tradebot_signals_total",
			Help: "Total number of indicator signals emitted",
		},
		[]string{"indicator", "signal"},
	)

	analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quantum_tradebot_analysis_duration_seconds",
			Help:    "Time spent fetching and analyzing one symbol",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quantum_tradebot_current_price",
			Help: "Latest close price of an analyzed symbol",
		},
		[]string{"symbol"},
	)

	klinesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantum_tradebot_klines_fetched_total",
			Help: "Total number of candles fetched from a data source",
		},
		[]string{"source"},
	)

	// Decision metrics
	decisionConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quantum_tradebot_decision_confidence",
			Help: "Confidence of the latest decision",
		},
		[]string{"symbol"},
	)

	riskScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quantum_tradebot_risk_score",
			Help: "Latest ATR-to-price risk score",
		},
		[]string{"symbol"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantum_tradebot_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(analysesTotal)
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(analysisDuration)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(klinesFetched)
	prometheus.MustRegister(decisionConfidence)
	prometheus.MustRegister(riskScore)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{handler: promhttp.Handler()}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// RecordAnalysis updates decision, price and per-signal metrics
func RecordAnalysis(result *analysis.Result) {
	if result == nil {
		return
	}
	analysesTotal.WithLabelValues(result.Symbol, result.OverallSignal.String()).Inc()
	currentPrice.WithLabelValues(result.Symbol).Set(result.Price)
	decisionConfidence.WithLabelValues(result.Symbol).Set(result.Confidence)
	riskScore.WithLabelValues(result.Symbol).Set(result.RiskScore)

	for _, s := range result.Signals {
		signalsTotal.WithLabelValues(s.Indicator, s.Type.String()).Inc()
	}
}

// ObserveDuration records how long one symbol took
func ObserveDuration(source string, d time.Duration) {
	analysisDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordKlines counts fetched candles
func RecordKlines(source string, count int) {
	klinesFetched.WithLabelValues(source).Add(float64(count))
}

// RecordError records an error metric
func RecordError(category string) {
	errorsTotal.WithLabelValues(category).Inc()
}
