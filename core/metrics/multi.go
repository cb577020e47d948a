package metrics

// MultiSink fans decision events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDecision forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordDecision(ev DecisionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDecision(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEvaluation forwards evaluation counts to sinks that record them.
func (m *MultiSink) RecordEvaluation(ev EvaluationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(EvaluationRecorder); ok {
			if err := rec.RecordEvaluation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSchedule forwards schedule builds to sinks that record them.
func (m *MultiSink) RecordSchedule(ev ScheduleEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ScheduleRecorder); ok {
			if err := rec.RecordSchedule(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRequest forwards request outcomes to sinks that record them.
func (m *MultiSink) RecordRequest(ev RequestEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RequestRecorder); ok {
			if err := rec.RecordRequest(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
