// Package costing prices late deliveries. A completion time is compared to
// the promised lead time; lateness costs a per-day discount plus the
// expected loss of the customer, modeled as a logistic churn probability
// rising with the delay.
package costing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Policy holds the commercial constants of the cost model. All durations are
// working days.
type Policy struct {
	BaseMargin       float64 `json:"base_margin"`
	ExpressSurcharge float64 `json:"express_surcharge"`
	NormalLeadTime   float64 `json:"normal_lead_time"`
	ExpressLeadTime  float64 `json:"express_lead_time"`
	DiscountPerDay   float64 `json:"discount_per_day"`
	// CustomerValue is the expected future value lost when the customer
	// churns.
	CustomerValue float64 `json:"customer_value"`
	// ChurnMidpointDays is the delay at which churn risk reaches 50%.
	ChurnMidpointDays float64 `json:"churn_midpoint_days"`
	ChurnSteepness    float64 `json:"churn_steepness"`
	// LateBucketDays bounds the "very late" reporting bucket.
	LateBucketDays float64 `json:"late_bucket_days"`
}

// DefaultPolicy returns the standard commercial constants.
func DefaultPolicy() Policy {
	return Policy{
		BaseMargin:        1000,
		ExpressSurcharge:  250,
		NormalLeadTime:    14,
		ExpressLeadTime:   7,
		DiscountPerDay:    100,
		CustomerValue:     4000,
		ChurnMidpointDays: 4,
		ChurnSteepness:    1,
		LateBucketDays:    5,
	}
}

// Validate checks the policy constants.
func (p Policy) Validate() error {
	if p.NormalLeadTime <= 0 || p.ExpressLeadTime <= 0 {
		return fmt.Errorf("lead times must be positive")
	}
	if p.ChurnSteepness <= 0 {
		return fmt.Errorf("churn steepness must be positive")
	}
	for name, v := range map[string]float64{
		"base_margin":       p.BaseMargin,
		"express_surcharge": p.ExpressSurcharge,
		"discount_per_day":  p.DiscountPerDay,
		"customer_value":    p.CustomerValue,
		"late_bucket_days":  p.LateBucketDays,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// Margin returns the customer margin for a service level.
func (p Policy) Margin(svc model.Service) float64 {
	if svc == model.ServiceExpress {
		return p.BaseMargin + p.ExpressSurcharge
	}
	return p.BaseMargin
}

// LeadTime returns the promised lead time for a service level.
func (p Policy) LeadTime(svc model.Service) float64 {
	if svc == model.ServiceExpress {
		return p.ExpressLeadTime
	}
	return p.NormalLeadTime
}

// Breakdown is the cost decomposition of a single completion time.
type Breakdown struct {
	Delay        float64
	ChurnProb    float64
	DiscountCost float64
	ChurnCost    float64
	LateCost     float64
}

// Costs prices one completion time against a promised lead time. An on-time
// delivery (delay <= 0) is free of every cost term.
func (p Policy) Costs(completion, promised float64) Breakdown {
	delay := completion - promised
	if delay <= 0 {
		return Breakdown{}
	}
	churn := 1 / (1 + math.Exp(-p.ChurnSteepness*(delay-p.ChurnMidpointDays)))
	churn = math.Max(0, math.Min(1, churn))
	discount := p.DiscountPerDay * delay
	churnCost := churn * p.CustomerValue
	return Breakdown{
		Delay:        delay,
		ChurnProb:    churn,
		DiscountCost: discount,
		ChurnCost:    churnCost,
		LateCost:     discount + churnCost,
	}
}

// Aggregate summarizes a completion-time sample against the promised lead
// time. Site, margin, express cost and expected profit are owned by the
// caller and left zero.
func (p Policy) Aggregate(samples []float64, promised float64) model.Metrics {
	n := float64(len(samples))
	m := model.Metrics{
		PromisedLeadTime: promised,
		MeanCompletion:   stat.Mean(samples, nil),
	}
	var sumDelay, sumChurn, sumDiscount, sumChurnCost, sumLate float64
	var late, veryLate int
	for _, completion := range samples {
		b := p.Costs(completion, promised)
		sumDelay += b.Delay
		sumChurn += b.ChurnProb
		sumDiscount += b.DiscountCost
		sumChurnCost += b.ChurnCost
		sumLate += b.LateCost
		if b.Delay > 0 {
			late++
			if b.Delay > p.LateBucketDays {
				veryLate++
			}
		}
	}
	m.MeanDelay = sumDelay / n
	m.MeanChurnProb = sumChurn / n
	m.MeanDiscountCost = sumDiscount / n
	m.MeanChurnCost = sumChurnCost / n
	m.MeanLateCost = sumLate / n
	m.ProbOnTime = (n - float64(late)) / n
	m.ProbLate = float64(late) / n
	m.ProbLateOver5 = float64(veryLate) / n
	return m
}
