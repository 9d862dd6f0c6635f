// Package monitoring exposes Prometheus metrics for the grading pipeline.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors tracked across grading requests.
type Metrics struct {
	GradingsTotal   *prometheus.CounterVec
	GradingDuration *prometheus.HistogramVec

	CappedGradesTotal *prometheus.CounterVec
	ParseMissesTotal  *prometheus.CounterVec

	GradingsInFlight prometheus.Gauge
}

// New registers the grading metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GradingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comic_grader_gradings_total",
				Help: "Total number of grading requests by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		GradingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "comic_grader_grading_duration_seconds",
				Help:    "Provider grading call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),
		CappedGradesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comic_grader_capped_grades_total",
				Help: "Gradings where the page quality cap lowered the grade",
			},
			[]string{"provider"},
		),
		ParseMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comic_grader_parse_misses_total",
				Help: "Responses where a section could not be extracted",
			},
			[]string{"provider", "field"},
		),
		GradingsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "comic_grader_gradings_in_flight",
				Help: "Number of grading requests currently being processed",
			},
		),
	}
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordGrading(provider, status string, duration time.Duration) {
	m.GradingsTotal.WithLabelValues(provider, status).Inc()
	m.GradingDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordCappedGrade(provider string) {
	m.CappedGradesTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordParseMiss(provider, field string) {
	m.ParseMissesTotal.WithLabelValues(provider, field).Inc()
}

func (m *Metrics) IncInFlight() {
	m.GradingsInFlight.Inc()
}

func (m *Metrics) DecInFlight() {
	m.GradingsInFlight.Dec()
}
