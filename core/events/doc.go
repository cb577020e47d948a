// Package events defines the decision related events emitted on the event bus.
//
// Available event types:
//   - DecisionEvent: a completed expedite decision
//   - ScheduleEvent: a built expected timeline
package events
