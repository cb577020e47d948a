package events

import "github.com/MathiasVDS1/ProjectManagement/core/model"

// ScheduleEvent is published after an expected timeline is built.
type ScheduleEvent struct {
	Schedule model.Schedule
}
