package events

import "github.com/MathiasVDS1/ProjectManagement/core/model"

// DecisionEvent is published after every completed expedite decision.
type DecisionEvent struct {
	Decision model.Decision
}
