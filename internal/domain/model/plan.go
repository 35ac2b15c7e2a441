package model

import (
	"time"

	"template-checkout/internal/domain"
)

// BillingInterval selects how a plan is billed. Quarterly is charged as three
// months up front; the discounted quarterly rate on Plan is display-only.
type BillingInterval string

const (
	IntervalMonthly   BillingInterval = "monthly"
	IntervalQuarterly BillingInterval = "quarterly"
)

// ParseInterval normalizes a client-supplied interval, defaulting to monthly.
func ParseInterval(s string) (BillingInterval, error) {
	switch BillingInterval(s) {
	case IntervalMonthly, "":
		return IntervalMonthly, nil
	case IntervalQuarterly:
		return IntervalQuarterly, nil
	}
	return "", domain.ErrInvalidArgument
}

// Plan is a purchasable site plan. Prices are whole naira.
// MonthlyNGN is the billing basis for both intervals; QuarterlyNGN is the
// discounted effective-monthly rate shown in "you save" messaging.
type Plan struct {
	ID           string
	Name         string
	MonthlyNGN   int64
	QuarterlyNGN int64
	Features     []string
	CreatedAt    time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, monthlyNGN, quarterlyNGN int64, features []string) (*Plan, error) {
	if id == "" || name == "" || monthlyNGN <= 0 || quarterlyNGN <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:           id,
		Name:         name,
		MonthlyNGN:   monthlyNGN,
		QuarterlyNGN: quarterlyNGN,
		Features:     features,
		CreatedAt:    time.Now(),
	}, nil
}
