package metrics

import (
	"strings"

	coremetrics "github.com/MathiasVDS1/ProjectManagement/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records decision events in Prometheus metrics.
type PromSink struct {
	decisions   *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	profit      *prometheus.GaugeVec
	profitDist  *prometheus.HistogramVec
	elapsed     *prometheus.HistogramVec
	schedules   *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// NewPromSink registers decision metrics on the default Prometheus registerer.
// The Prometheus server should be started separately on the configured port.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expedite_decisions_total",
		Help: "Total number of expedite decisions",
	}, []string{"service", "site", "strategy"})
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expedite_evaluations_total",
		Help: "Total number of Monte Carlo evaluations spent on decisions",
	}, []string{"service", "strategy"})
	profit := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "decision_expected_profit",
		Help: "Expected profit of the latest decision",
	}, []string{"service", "site"})
	profitDist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "decision_expected_profit_distribution",
		Help:    "Distribution of expected profit over decisions",
		Buckets: prometheus.LinearBuckets(0, 100, 11),
	}, []string{"service"})
	elapsed := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "decision_elapsed_seconds",
		Help:    "Time spent optimizing one decision",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})
	schedules := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expected_schedules_total",
		Help: "Total number of expected timelines built",
	}, []string{"site"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "decision_requests_total",
		Help: "Total number of decide and schedule requests by outcome",
	}, []string{"operation", "outcome"})

	if err := reg.Register(decisions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			decisions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(evaluations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			evaluations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(profit); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			profit = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(profitDist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			profitDist = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(elapsed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			elapsed = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(schedules); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			schedules = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(requests); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			requests = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{decisions: decisions, evaluations: evaluations, profit: profit,
		profitDist: profitDist, elapsed: elapsed, schedules: schedules, requests: requests}, nil
}

// RecordDecision increments the decision counter and tracks profit and
// optimization latency.
func (s *PromSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	s.decisions.WithLabelValues(ev.Service, ev.Site, ev.Strategy).Inc()
	s.profit.WithLabelValues(ev.Service, ev.Site).Set(ev.ExpectedProfit)
	s.profitDist.WithLabelValues(ev.Service).Observe(ev.ExpectedProfit)
	s.elapsed.WithLabelValues(ev.Strategy).Observe(ev.ElapsedMS / 1000)
	return nil
}

// RecordEvaluation adds the evaluations one decision consumed.
func (s *PromSink) RecordEvaluation(ev coremetrics.EvaluationEvent) error {
	s.evaluations.WithLabelValues(ev.Service, ev.Strategy).Add(float64(ev.Count))
	return nil
}

// RecordSchedule counts built timelines per site.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	s.schedules.WithLabelValues(ev.Site).Inc()
	return nil
}

// RecordRequest counts request outcomes.
func (s *PromSink) RecordRequest(ev coremetrics.RequestEvent) error {
	s.requests.WithLabelValues(strings.ToLower(ev.Operation), ev.Outcome).Inc()
	return nil
}
