// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes
const (
	OutcomeAccepted      = "accepted"
	OutcomeDuplicate     = "duplicate"
	OutcomeInvalidCode   = "invalid_code"
	OutcomeRateLimited   = "rate_limited"
	OutcomeInvalid       = "invalid"
	OutcomeInternalError = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	SubmissionsTotal       *prometheus.CounterVec
	VerificationCodesTotal prometheus.Counter
	RateLimitedTotal       *prometheus.CounterVec
	StoreErrorsTotal       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, so several instances can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "julisha_submissions_total",
			Help: "Signature submissions by outcome",
		}, []string{"outcome"}),
		VerificationCodesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "julisha_verification_codes_issued_total",
			Help: "Verification codes issued",
		}),
		RateLimitedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "julisha_rate_limited_total",
			Help: "Requests rejected by a rate limit",
		}, []string{"policy"}),
		StoreErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "julisha_store_errors_total",
			Help: "Failed store operations",
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementSubmission(outcome string) {
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementCodesIssued() {
	m.VerificationCodesTotal.Inc()
}

func (m *Metrics) IncrementRateLimited(policy string) {
	m.RateLimitedTotal.WithLabelValues(policy).Inc()
}

func (m *Metrics) IncrementStoreErrors(operation string) {
	m.StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
