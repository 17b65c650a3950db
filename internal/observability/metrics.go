package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	assessmentsSubmitted  *prometheus.CounterVec
	assessmentsRejected   *prometheus.CounterVec
	skippedAnswersTotal   prometheus.Counter
	totalPercentageValues prometheus.Histogram
	catalogCacheLookups   *prometheus.CounterVec
	resultStreamClients   prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqtest_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eqtest_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqtest_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		assessmentsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqtest_assessments_submitted_total",
			Help: "Scored and stored questionnaire submissions by level.",
		}, []string{"level"})

		assessmentsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqtest_assessments_rejected_total",
			Help: "Questionnaire submissions that could not be scored, by reason.",
		}, []string{"reason"})

		skippedAnswersTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eqtest_assessment_skipped_answers_total",
			Help: "Answers ignored because their question id is not in the catalog.",
		})

		totalPercentageValues = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eqtest_assessment_total_percentage",
			Help:    "Distribution of overall percentages of stored results.",
			Buckets: []float64{40, 55, 70, 85, 100},
		})

		catalogCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eqtest_catalog_cache_lookups_total",
			Help: "Catalog cache lookups by result (hit, miss, error).",
		}, []string{"result"})

		resultStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "eqtest_result_stream_clients_active",
			Help: "Number of websocket clients subscribed to the live result feed.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			assessmentsSubmitted,
			assessmentsRejected,
			skippedAnswersTotal,
			totalPercentageValues,
			catalogCacheLookups,
			resultStreamClients,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// AssessmentsSubmitted exposes the stored submission counter.
func AssessmentsSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return assessmentsSubmitted
}

// AssessmentsRejected exposes the rejected submission counter.
func AssessmentsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return assessmentsRejected
}

// SkippedAnswers exposes the skipped answer counter.
func SkippedAnswers() prometheus.Counter {
	RegisterMetrics()
	return skippedAnswersTotal
}

// TotalPercentage exposes the overall percentage histogram.
func TotalPercentage() prometheus.Histogram {
	RegisterMetrics()
	return totalPercentageValues
}

// CatalogCacheLookups exposes the catalog cache lookup counter.
func CatalogCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return catalogCacheLookups
}

// ResultStreamClients exposes the gauge of live feed subscribers.
func ResultStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return resultStreamClients
}
