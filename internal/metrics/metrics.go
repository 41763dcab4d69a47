// Package metrics exports run outcomes as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/report"
)

const namespace = "moneytck"

// Metrics is a harness.Observer counting scenario outcomes, plus per run
// gauges updated from finished reports.
type Metrics struct {
	scenarios *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	runs      *prometheus.CounterVec
	lastRun   *prometheus.GaugeVec
	lastTime  prometheus.Gauge
}

var _ harness.Observer = (*Metrics)(nil)

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Finished scenarios by clause and status.",
		}, []string{"clause", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Wall time of executed scenarios by clause.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 7),
		}, []string{"clause"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by configuration and verdict.",
		}, []string{"configuration", "verdict"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_scenarios",
			Help:      "Scenario counts of the last finished run by status.",
		}, []string{"status"}),
		lastTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Finish time of the last run.",
		}),
	}
	for _, c := range []prometheus.Collector{m.scenarios, m.duration, m.runs, m.lastRun, m.lastTime} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ScenarioFinished counts r. Durations are observed for executed
// scenarios only.
func (m *Metrics) ScenarioFinished(r harness.ScenarioResult) {
	m.scenarios.WithLabelValues(r.Clause, string(r.Status)).Inc()
	switch r.Status {
	case harness.StatusPass, harness.StatusFail, harness.StatusError:
		m.duration.WithLabelValues(r.Clause).Observe(r.Duration.Seconds())
	}
}

// RunFinished records the verdict and counts of r.
func (m *Metrics) RunFinished(r *report.Report) {
	verdict := "pass"
	if !r.Passed {
		verdict = "fail"
	}
	m.runs.WithLabelValues(r.Configuration, verdict).Inc()

	s := r.Summary
	for status, n := range map[harness.Status]int{
		harness.StatusPass:    s.Passed,
		harness.StatusFail:    s.Failed,
		harness.StatusError:   s.Errored,
		harness.StatusSkip:    s.Skipped,
		harness.StatusPending: s.Pending,
	} {
		m.lastRun.WithLabelValues(string(status)).Set(float64(n))
	}
	m.lastTime.Set(float64(r.FinishedAt.UnixNano()) / 1e9)
}
