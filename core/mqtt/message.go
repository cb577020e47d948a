package mqtt

import "github.com/MathiasVDS1/ProjectManagement/core/model"

// DecideRequest is the payload expected on the decide request topic. The
// request id is assigned by the gateway when absent.
type DecideRequest struct {
	RequestID string                `json:"request_id,omitempty"`
	ReplyTo   string                `json:"reply_to,omitempty"`
	Request   model.DecisionRequest `json:"request"`
}

// ScheduleRequest is the payload expected on the schedule request topic.
type ScheduleRequest struct {
	RequestID string                `json:"request_id,omitempty"`
	ReplyTo   string                `json:"reply_to,omitempty"`
	Request   model.ScheduleRequest `json:"request"`
}

// DecideReply carries the decision, or an error message, back to the
// requester.
type DecideReply struct {
	RequestID string          `json:"request_id"`
	Decision  *model.Decision `json:"decision,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ScheduleReply carries the expected schedule, or an error message.
type ScheduleReply struct {
	RequestID string          `json:"request_id"`
	Schedule  *model.Schedule `json:"schedule,omitempty"`
	Error     string          `json:"error,omitempty"`
}
