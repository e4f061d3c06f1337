package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run counters on a private registry. A nil *Metrics is
// valid and records nothing, which keeps test wiring short.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests   *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
}

// Summary aggregates the counters across subscriptions for the end-of-run log
type Summary struct {
	APIRequests   int
	RateLimited   int
	FetchFailures int
}

// New creates the run counters and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costreport_api_requests_total",
				Help: "Total Cost Management API requests issued",
			},
			[]string{"subscription"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costreport_rate_limited_total",
				Help: "Total HTTP 429 responses received",
			},
			[]string{"subscription"},
		),
		fetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costreport_fetch_failures_total",
				Help: "Total subscriptions skipped due to fetch or parse failures",
			},
			[]string{"subscription"},
		),
	}

	m.registry.MustRegister(m.apiRequests, m.rateLimited, m.fetchFailures)
	return m
}

// IncAPIRequest counts one issued API request
func (m *Metrics) IncAPIRequest(subscription string) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(subscription).Inc()
}

// IncRateLimited counts one 429 response
func (m *Metrics) IncRateLimited(subscription string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(subscription).Inc()
}

// IncFetchFailure counts one skipped subscription
func (m *Metrics) IncFetchFailure(subscription string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(subscription).Inc()
}

// Gather totals the counters for the end-of-run summary
func (m *Metrics) Gather() Summary {
	var s Summary
	if m == nil {
		return s
	}

	families, err := m.registry.Gather()
	if err != nil {
		return s
	}

	for _, family := range families {
		total := 0
		for _, metric := range family.GetMetric() {
			total += int(metric.GetCounter().GetValue())
		}
		switch family.GetName() {
		case "costreport_api_requests_total":
			s.APIRequests = total
		case "costreport_rate_limited_total":
			s.RateLimited = total
		case "costreport_fetch_failures_total":
			s.FetchFailures = total
		}
	}

	return s
}
