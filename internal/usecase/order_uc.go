// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/domain/pricing"
	"template-checkout/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderUseCase is the order registrar: it prices and persists a pending
// order exactly once, then hands the frozen amount to the gateway.
type OrderUseCase interface {
	// Create validates the request, resolves the amount server-side, persists
	// a pending order under a fresh unique reference, and initializes the
	// gateway checkout. The order row always exists before the gateway is
	// contacted.
	Create(ctx context.Context, in CreateOrderInput) (*model.Order, string, error)
	// Reinitialize restarts the hosted checkout for an existing pending
	// order, reusing its reference instead of minting a new one.
	Reinitialize(ctx context.Context, reference string) (*model.Order, string, error)
}

type CreateOrderInput struct {
	PlanID    string
	Interval  model.BillingInterval
	Name      string
	Email     string
	SessionID string
	// AmountHint is the client-echoed frozen total. It is advisory: accepted
	// only when it matches the draft the coordinator froze server-side.
	AmountHint int64
}

type orderUC struct {
	orders   repository.OrderRepository
	plans    repository.PlanRepository
	checkout CheckoutUseCase
	gateway  adapter.PaymentGateway
	locker   repository.Locker

	domainCostNGN int64
	idemWindow    time.Duration
	log           *zerolog.Logger
}

func NewOrderUseCase(
	orders repository.OrderRepository,
	plans repository.PlanRepository,
	checkout CheckoutUseCase,
	gateway adapter.PaymentGateway,
	locker repository.Locker,
	domainCostNGN int64,
	idemWindow time.Duration,
	log *zerolog.Logger,
) *orderUC {
	if idemWindow <= 0 {
		idemWindow = 90 * time.Second
	}
	return &orderUC{
		orders:        orders,
		plans:         plans,
		checkout:      checkout,
		gateway:       gateway,
		locker:        locker,
		domainCostNGN: domainCostNGN,
		idemWindow:    idemWindow,
		log:           log,
	}
}

func (u *orderUC) Create(ctx context.Context, in CreateOrderInput) (*model.Order, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || !model.ValidEmail(email) {
		return nil, "", domain.ErrValidation
	}
	if in.Interval == "" {
		in.Interval = model.IntervalMonthly
	}

	amount, err := u.resolveAmount(ctx, in)
	if err != nil {
		return nil, "", err
	}

	// Rapid double-submits collapse onto the same pending order instead of
	// minting a second reference.
	lockKey := fmt.Sprintf("order_init:%s:%s:%d", email, in.PlanID, amount)
	token, lockErr := u.locker.TryLock(ctx, lockKey, int(u.idemWindow.Seconds()))
	if lockErr != nil {
		if errors.Is(lockErr, domain.ErrLockBusy) {
			if prev, err := u.orders.FindRecentPending(ctx, nil, email, in.PlanID, amount, time.Now().Add(-u.idemWindow)); err == nil {
				u.log.Info().Str("reference", prev.Reference).Msg("reusing in-flight pending order")
				return u.Reinitialize(ctx, prev.Reference)
			}
			return nil, "", domain.ErrLockBusy
		}
		// Lock store down: proceed without the idempotency window rather than
		// blocking checkout. Reference uniqueness still holds.
		u.log.Warn().Err(lockErr).Msg("idempotency lock unavailable")
	}
	// The lock is NOT released on success: it holds for the full window so a
	// rapid resubmit lands on FindRecentPending instead of a new reference.
	// It is released only when no order was persisted.
	unlockOnFailure := func() {
		if lockErr == nil {
			_ = u.locker.Unlock(ctx, lockKey, token)
		}
	}

	reference := uuid.NewString()
	order, err := model.NewOrder(reference, in.PlanID, in.Interval, amount, name, email, in.SessionID)
	if err != nil {
		unlockOnFailure()
		return nil, "", err
	}

	// Persist before contacting the gateway: a crash here leaves a
	// reconcilable pending order, never an order-less charge.
	if err := u.orders.Insert(ctx, nil, order); err != nil {
		unlockOnFailure()
		return nil, "", err
	}
	metrics.IncOrder(string(model.OrderStatusPending))
	u.log.Info().
		Str("reference", reference).
		Str("plan_id", in.PlanID).
		Int64("amount_ngn", amount).
		Msg("order registered")

	res, err := u.gateway.Initialize(ctx, adapter.InitRequest{
		AmountNGN:     order.AmountNGN,
		Reference:     order.Reference,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
	})
	if err != nil {
		// The pending order stays on record; the reconciler or a retry with
		// the same reference can still finish the flow.
		u.log.Error().Err(err).Str("reference", reference).Msg("gateway initialize failed after order persist")
		return order, "", err
	}
	return order, res.CheckoutURL, nil
}

func (u *orderUC) Reinitialize(ctx context.Context, reference string) (*model.Order, string, error) {
	order, err := u.orders.FindByReference(ctx, nil, reference)
	if err != nil {
		return nil, "", err
	}
	if order.Status != model.OrderStatusPending {
		return order, "", domain.ErrInvalidArgument
	}
	res, err := u.gateway.Initialize(ctx, adapter.InitRequest{
		AmountNGN:     order.AmountNGN,
		Reference:     order.Reference,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
	})
	if err != nil {
		return order, "", err
	}
	return order, res.CheckoutURL, nil
}

// resolveAmount prices the order from the server's catalog. A client hint is
// honored only when it matches the session's frozen draft total; anything
// else is ignored in favor of the catalog price.
func (u *orderUC) resolveAmount(ctx context.Context, in CreateOrderInput) (int64, error) {
	if in.AmountHint > 0 && in.SessionID != "" {
		draft, err := u.checkout.Snapshot(ctx, in.SessionID)
		if err == nil && draft.TotalNGN != nil && *draft.TotalNGN == in.AmountHint &&
			draft.PlanID == in.PlanID && draft.Interval == in.Interval {
			return in.AmountHint, nil
		}
	}

	plan, err := u.plans.FindByID(ctx, in.PlanID)
	if err != nil {
		return 0, err
	}
	domainAdded := in.Interval == model.IntervalQuarterly
	if in.SessionID != "" {
		if draft, err := u.checkout.Snapshot(ctx, in.SessionID); err == nil {
			domainAdded = draft.DomainAdded
		}
	}
	return pricing.Total(plan, in.Interval, domainAdded, u.domainCostNGN)
}
