// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/domain/pricing"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase is the coordinator over the per-session selection facts.
// It is the only writer of cross-fact state: writes flow coordinator ->
// state repository, never the other way.
type CheckoutUseCase interface {
	// SetChoice atomically updates template, plan and interval and re-derives
	// the domain add-on. A changed choice clears any frozen total; repeating
	// the stored choice leaves it frozen.
	SetChoice(ctx context.Context, sessionID, templateID, planID string, interval model.BillingInterval) (model.OrderDraft, error)
	// SetDomain records the user's explicit add-on toggle; rejected while quarterly.
	SetDomain(ctx context.Context, sessionID string, added bool) (model.OrderDraft, error)
	// FreezeTotal computes the total once from the server catalog and stores it.
	// Repeated calls return the already-frozen value unchanged.
	FreezeTotal(ctx context.Context, sessionID string) (model.OrderDraft, error)
	// Snapshot composes the read-only draft for the UI and the payment step.
	Snapshot(ctx context.Context, sessionID string) (model.OrderDraft, error)
	// SetDetails persists the contact details captured before payment.
	SetDetails(ctx context.Context, sessionID string, d model.RegisterDetails) error
	Details(ctx context.Context, sessionID string) (model.RegisterDetails, error)
	// Clear wipes all session facts once a payment reaches paid.
	Clear(ctx context.Context, sessionID string) error
}

type checkoutUC struct {
	state         repository.CheckoutStateRepository
	plans         repository.PlanRepository
	domainCostNGN int64
	log           *zerolog.Logger
}

func NewCheckoutUseCase(state repository.CheckoutStateRepository, plans repository.PlanRepository, domainCostNGN int64, log *zerolog.Logger) *checkoutUC {
	return &checkoutUC{state: state, plans: plans, domainCostNGN: domainCostNGN, log: log}
}

func (u *checkoutUC) SetChoice(ctx context.Context, sessionID, templateID, planID string, interval model.BillingInterval) (model.OrderDraft, error) {
	if sessionID == "" {
		return model.OrderDraft{}, domain.ErrInvalidArgument
	}
	if interval == "" {
		interval = model.IntervalMonthly
	}

	st, err := u.state.GetCheckout(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return model.OrderDraft{}, err
		}
		st = &model.CheckoutState{}
	}

	// The frozen total survives a resubmit of the stored choice (clients
	// re-issue it on page load); only an actual change invalidates it.
	changed := true
	if sel, err := u.state.GetTemplate(ctx, sessionID); err == nil {
		if pr, err := u.state.GetPricing(ctx, sessionID); err == nil {
			changed = sel.SelectedID != templateID || pr.PlanID != planID || pr.Interval != interval
		} else if !errors.Is(err, domain.ErrNotFound) {
			return model.OrderDraft{}, err
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return model.OrderDraft{}, err
	}

	// Quarterly bundles the domain; monthly restores the user's last explicit
	// choice.
	st.DomainAdded = interval == model.IntervalQuarterly || st.DomainChoice
	if interval == model.IntervalMonthly {
		st.DomainAdded = st.DomainChoice
	}
	if changed {
		st.TotalNGN = nil
	}

	if err := u.state.SetTemplate(ctx, sessionID, &model.TemplateSelection{SelectedID: templateID}); err != nil {
		return model.OrderDraft{}, err
	}
	if err := u.state.SetPricing(ctx, sessionID, &model.PricingSelection{PlanID: planID, Interval: interval}); err != nil {
		return model.OrderDraft{}, err
	}
	if err := u.state.SetCheckout(ctx, sessionID, st); err != nil {
		return model.OrderDraft{}, err
	}
	return u.Snapshot(ctx, sessionID)
}

func (u *checkoutUC) SetDomain(ctx context.Context, sessionID string, added bool) (model.OrderDraft, error) {
	pr, err := u.state.GetPricing(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return model.OrderDraft{}, err
	}
	if pr != nil && pr.Interval == model.IntervalQuarterly {
		return model.OrderDraft{}, domain.ErrInvalidArgument
	}

	st, err := u.state.GetCheckout(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return model.OrderDraft{}, err
		}
		st = &model.CheckoutState{}
	}
	st.DomainChoice = added
	st.DomainAdded = added
	st.TotalNGN = nil
	if err := u.state.SetCheckout(ctx, sessionID, st); err != nil {
		return model.OrderDraft{}, err
	}
	return u.Snapshot(ctx, sessionID)
}

func (u *checkoutUC) FreezeTotal(ctx context.Context, sessionID string) (model.OrderDraft, error) {
	draft, err := u.Snapshot(ctx, sessionID)
	if err != nil {
		return model.OrderDraft{}, err
	}
	if draft.TotalNGN != nil {
		// Already frozen; reloads must read the stored value, not recompute.
		return draft, nil
	}
	if !draft.Complete() {
		return model.OrderDraft{}, domain.ErrDraftIncomplete
	}

	plan, err := u.plans.FindByID(ctx, draft.PlanID)
	if err != nil {
		return model.OrderDraft{}, err
	}
	total, err := pricing.Total(plan, draft.Interval, draft.DomainAdded, u.domainCostNGN)
	if err != nil {
		return model.OrderDraft{}, err
	}

	st, err := u.state.GetCheckout(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return model.OrderDraft{}, err
		}
		st = &model.CheckoutState{DomainAdded: draft.DomainAdded}
	}
	st.TotalNGN = &total
	if err := u.state.SetCheckout(ctx, sessionID, st); err != nil {
		return model.OrderDraft{}, err
	}

	u.log.Debug().Str("session_id", sessionID).Int64("total_ngn", total).Msg("order draft total frozen")
	draft.TotalNGN = &total
	return draft, nil
}

func (u *checkoutUC) Snapshot(ctx context.Context, sessionID string) (model.OrderDraft, error) {
	draft := model.OrderDraft{Interval: model.IntervalMonthly}

	if sel, err := u.state.GetTemplate(ctx, sessionID); err == nil {
		draft.TemplateID = sel.SelectedID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return model.OrderDraft{}, err
	}
	if pr, err := u.state.GetPricing(ctx, sessionID); err == nil {
		draft.PlanID = pr.PlanID
		if pr.Interval != "" {
			draft.Interval = pr.Interval
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return model.OrderDraft{}, err
	}
	if st, err := u.state.GetCheckout(ctx, sessionID); err == nil {
		draft.DomainAdded = st.DomainAdded
		draft.TotalNGN = st.TotalNGN
	} else if !errors.Is(err, domain.ErrNotFound) {
		return model.OrderDraft{}, err
	}

	// The derived rule holds even for state written before an interval flip.
	if draft.Interval == model.IntervalQuarterly {
		draft.DomainAdded = true
	}
	return draft, nil
}

func (u *checkoutUC) SetDetails(ctx context.Context, sessionID string, d model.RegisterDetails) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument
	}
	return u.state.SetRegister(ctx, sessionID, &d)
}

func (u *checkoutUC) Details(ctx context.Context, sessionID string) (model.RegisterDetails, error) {
	d, err := u.state.GetRegister(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.RegisterDetails{}, nil
		}
		return model.RegisterDetails{}, err
	}
	return *d, nil
}

func (u *checkoutUC) Clear(ctx context.Context, sessionID string) error {
	return u.state.Clear(ctx, sessionID)
}
