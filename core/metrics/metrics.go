package metrics

import "time"

// DecisionEvent represents one completed expedite decision to be recorded.
type DecisionEvent struct {
	DecisionID     string
	Service        string
	Site           string
	Strategy       string
	Expedite       []string
	Trials         int
	Evaluations    int
	ExpectedProfit float64
	ExpressCost    float64
	MeanLateCost   float64
	ProbOnTime     float64
	ElapsedMS      float64
	Time           time.Time
}

// Sink records decision events for observability purposes.
type Sink interface {
	RecordDecision(ev DecisionEvent) error
}

// EvaluationEvent reports the Monte Carlo evaluations a decision consumed.
type EvaluationEvent struct {
	DecisionID string
	Service    string
	Strategy   string
	Count      int
	Time       time.Time
}

// EvaluationRecorder is implemented by sinks able to record evaluation
// counts.
type EvaluationRecorder interface {
	RecordEvaluation(ev EvaluationEvent) error
}

// ScheduleEvent captures one expected-timeline build.
type ScheduleEvent struct {
	Site          string
	Stages        int
	TotalDuration float64
	Time          time.Time
}

// ScheduleRecorder is implemented by sinks able to record schedule builds.
type ScheduleRecorder interface {
	RecordSchedule(ev ScheduleEvent) error
}

// RequestEvent captures the outcome of one decide or schedule request.
type RequestEvent struct {
	Operation string
	// Outcome is "ok", "invalid" or "error".
	Outcome string
	Elapsed time.Duration
	Time    time.Time
}

// RequestRecorder is implemented by sinks able to record request outcomes.
type RequestRecorder interface {
	RecordRequest(ev RequestEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDecision(DecisionEvent) error { return nil }

func (NopSink) RecordEvaluation(EvaluationEvent) error { return nil }

func (NopSink) RecordSchedule(ScheduleEvent) error { return nil }
func (NopSink) RecordRequest(RequestEvent) error   { return nil }
