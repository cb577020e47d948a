package model

import (
	"fmt"
	"time"
)

// Service is the promised delivery service level.
type Service string

const (
	ServiceNormal  Service = "normal"
	ServiceExpress Service = "express"
)

// ParseService validates a service level string. Unknown values are an
// invalid-request error, never silently defaulted.
func ParseService(s string) (Service, error) {
	switch Service(s) {
	case ServiceNormal:
		return ServiceNormal, nil
	case ServiceExpress:
		return ServiceExpress, nil
	default:
		return "", Invalidf("unknown service level %q", s)
	}
}

// SiteAuto requests an independent optimization per configured site, keeping
// the one with the higher expected profit.
const SiteAuto = "auto"

// DecisionRequest asks for an expedite strategy.
type DecisionRequest struct {
	Service Service `json:"service"`
	// Site is a catalog site id, or SiteAuto to compare all sites.
	Site string `json:"site"`
	// Missing lists backordered component ids per site.
	Missing map[string][]string `json:"missing"`
	// Expedite, when non-empty, skips optimization and evaluates exactly
	// this set.
	Expedite []string `json:"expedite,omitempty"`
	// Trials overrides the configured trial count when positive.
	Trials int `json:"trials,omitempty"`
	// Strategy selects the optimizer: "exhaustive", "greedy" or "auto".
	// Empty means the configured default.
	Strategy string `json:"strategy,omitempty"`
}

// ScheduleRequest asks for the deterministic expected timeline.
type ScheduleRequest struct {
	Site     string   `json:"site"`
	Missing  []string `json:"missing"`
	Expedite []string `json:"expedite,omitempty"`
}

// Metrics summarizes one Monte Carlo evaluation of an expedite set. It is
// recomputed for every evaluation and never cached.
type Metrics struct {
	Site             string  `json:"site"`
	PromisedLeadTime float64 `json:"promised_lead_time"`
	Margin           float64 `json:"margin"`
	ExpressCost      float64 `json:"express_cost"`
	MeanCompletion   float64 `json:"mean_completion"`
	MeanDelay        float64 `json:"mean_delay"`
	MeanChurnProb    float64 `json:"mean_churn_prob"`
	ProbOnTime       float64 `json:"prob_on_time"`
	ProbLate         float64 `json:"prob_late"`
	ProbLateOver5    float64 `json:"prob_late_over_5"`
	MeanDiscountCost float64 `json:"mean_discount_cost"`
	MeanChurnCost    float64 `json:"mean_churn_cost"`
	MeanLateCost     float64 `json:"mean_late_cost"`
	ExpectedProfit   float64 `json:"expected_profit"`
}

// Decision is the outcome of one expedite optimization.
type Decision struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Service   Service   `json:"service"`
	// Site is the chosen production site.
	Site     string   `json:"site"`
	Strategy string   `json:"strategy"`
	Trials   int      `json:"trials"`
	Expedite []string `json:"expedite"`
	// Metrics describes the chosen site; SiteMetrics reports every site
	// that was evaluated, including the chosen one.
	Metrics     Metrics            `json:"metrics"`
	SiteMetrics map[string]Metrics `json:"site_metrics"`
	// Evaluations counts the Monte Carlo evaluations behind this decision,
	// summed over all sites searched.
	Evaluations int     `json:"evaluations"`
	ElapsedMS   float64 `json:"elapsed_ms"`
}

// ScheduleEntry is one bar of the expected timeline, in days from order
// confirmation.
type ScheduleEntry struct {
	StageID  string  `json:"stage_id"`
	Label    string  `json:"label"`
	Start    float64 `json:"start"`
	Finish   float64 `json:"finish"`
	Duration float64 `json:"duration"`
}

// Schedule is the deterministic mean-based timeline. Entries are sorted by
// start time and exclude the terminal stage; TotalDuration is the terminal
// stage's earliest finish.
type Schedule struct {
	Site          string          `json:"site"`
	Entries       []ScheduleEntry `json:"entries"`
	TotalDuration float64         `json:"total_duration"`
}

// String renders the decision one-line summary used in logs.
func (d Decision) String() string {
	return fmt.Sprintf("decision %s: site=%s service=%s expedite=%v profit=%.2f",
		d.ID, d.Site, d.Service, d.Expedite, d.Metrics.ExpectedProfit)
}
