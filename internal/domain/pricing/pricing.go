// Package pricing is the only place money math happens. Every function is
// pure: no I/O, no clock, deterministic for given inputs.
package pricing

import (
	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
)

// QuarterMonths is the billing basis for quarterly plans: three months paid
// up front at the full monthly rate. The discounted quarterly figure on the
// plan is informational only.
const QuarterMonths = 3

// Total computes the amount to charge for a plan under the given interval.
// Monthly billing adds domainCost when the add-on is selected; quarterly
// billing bundles the domain at no extra charge.
func Total(plan *model.Plan, interval model.BillingInterval, domainAdded bool, domainCostNGN int64) (int64, error) {
	if plan.IsZero() {
		return 0, domain.ErrNotFound
	}
	var total int64
	switch interval {
	case model.IntervalMonthly:
		total = plan.MonthlyNGN
		if domainAdded {
			total += domainCostNGN
		}
	case model.IntervalQuarterly:
		total = plan.MonthlyNGN * QuarterMonths
	default:
		return 0, domain.ErrInvalidArgument
	}
	if total <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	return total, nil
}

// Savings returns the display-only "you save X per quarter" figure derived
// from the discounted quarterly rate. Zero when the plan has no discount.
func Savings(plan *model.Plan) int64 {
	if plan.IsZero() || plan.QuarterlyNGN >= plan.MonthlyNGN {
		return 0
	}
	return (plan.MonthlyNGN - plan.QuarterlyNGN) * QuarterMonths
}
