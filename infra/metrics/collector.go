package metrics

import (
	"context"
	"time"

	"github.com/MathiasVDS1/ProjectManagement/core/events"
	coremetrics "github.com/MathiasVDS1/ProjectManagement/core/metrics"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// decision and schedule events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.DecisionEvent:
					_ = sink.RecordDecision(DecisionEvent(e.Decision))
					if r, ok := sink.(coremetrics.EvaluationRecorder); ok && e.Decision.Evaluations > 0 {
						_ = r.RecordEvaluation(coremetrics.EvaluationEvent{
							DecisionID: e.Decision.ID,
							Service:    string(e.Decision.Service),
							Strategy:   e.Decision.Strategy,
							Count:      e.Decision.Evaluations,
							Time:       e.Decision.CreatedAt,
						})
					}
				case events.ScheduleEvent:
					if r, ok := sink.(coremetrics.ScheduleRecorder); ok {
						_ = r.RecordSchedule(coremetrics.ScheduleEvent{
							Site:          e.Schedule.Site,
							Stages:        len(e.Schedule.Entries),
							TotalDuration: e.Schedule.TotalDuration,
							Time:          time.Now(),
						})
					}
				}
			}
		}
	}()
}

// DecisionEvent flattens a decision into its metrics event.
func DecisionEvent(d model.Decision) coremetrics.DecisionEvent {
	return coremetrics.DecisionEvent{
		DecisionID:     d.ID,
		Service:        string(d.Service),
		Site:           d.Site,
		Strategy:       d.Strategy,
		Expedite:       d.Expedite,
		Trials:         d.Trials,
		Evaluations:    d.Evaluations,
		ExpectedProfit: d.Metrics.ExpectedProfit,
		ExpressCost:    d.Metrics.ExpressCost,
		MeanLateCost:   d.Metrics.MeanLateCost,
		ProbOnTime:     d.Metrics.ProbOnTime,
		ElapsedMS:      d.ElapsedMS,
		Time:           d.CreatedAt,
	}
}
