// File: internal/usecase/verify_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/infra/metrics"
)

// Compile-time check
var _ VerifyUseCase = (*verifyUC)(nil)

// VerifyUseCase resolves a payment reference to its true status. The
// browser's completion callback is only ever a trigger to call Resolve; the
// result reported to the user always comes from the gateway's authoritative
// query, folded into the order record monotonically (pending -> paid|failed).
type VerifyUseCase interface {
	// Resolve needs nothing but the reference, so a reload or a returning
	// user can resume verification from the URL alone.
	Resolve(ctx context.Context, reference string) (Resolution, error)
}

// Resolution is the outcome of one verification pass.
type Resolution struct {
	Order  *model.Order
	Status adapter.VerifyStatus
	Raw    map[string]interface{}
}

// Settled reports whether the reference has reached a terminal state.
func (r Resolution) Settled() bool {
	return r.Status == adapter.VerifyPaid || r.Status == adapter.VerifyFailed
}

type verifyUC struct {
	orders   repository.OrderRepository
	gateway  adapter.PaymentGateway
	checkout CheckoutUseCase
	log      *zerolog.Logger
}

func NewVerifyUseCase(orders repository.OrderRepository, gateway adapter.PaymentGateway, checkout CheckoutUseCase, log *zerolog.Logger) *verifyUC {
	return &verifyUC{orders: orders, gateway: gateway, checkout: checkout, log: log}
}

func (u *verifyUC) Resolve(ctx context.Context, reference string) (Resolution, error) {
	if reference == "" {
		return Resolution{}, domain.ErrInvalidArgument
	}

	order, err := u.orders.FindByReference(ctx, nil, reference)
	if err != nil {
		return Resolution{}, err
	}

	// Terminal orders are settled; no gateway round trip.
	if order.Status.Terminal() {
		return Resolution{Order: order, Status: statusOf(order)}, nil
	}

	vr, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		// Transport or auth failure means "unknown", never "failed". The
		// order stays pending and a later poll or the reconciler retries.
		u.log.Warn().Err(err).Str("reference", reference).Msg("verify unresolved")
		return Resolution{Order: order, Status: adapter.VerifyPending}, err
	}

	switch vr.Status {
	case adapter.VerifyPaid:
		if vr.AmountNGN > 0 && vr.AmountNGN < order.AmountNGN {
			// Gateway says paid but short of the frozen amount. Keep the
			// order pending for manual reconciliation rather than granting it.
			u.log.Error().
				Str("reference", reference).
				Int64("expected_ngn", order.AmountNGN).
				Int64("paid_ngn", vr.AmountNGN).
				Msg("underpaid order left pending")
			return Resolution{Order: order, Status: adapter.VerifyPending, Raw: vr.Raw}, nil
		}
		now := time.Now()
		gref := gatewayRef(vr.Raw)
		moved, err := u.orders.UpdateStatusIfPending(ctx, nil, reference, model.OrderStatusPaid, gref, &now)
		if err != nil {
			return Resolution{Order: order, Status: adapter.VerifyPending, Raw: vr.Raw}, err
		}
		if moved {
			metrics.IncOrder(string(model.OrderStatusPaid))
			metrics.AddOrderRevenue("NGN", order.AmountNGN)
			// The cart is spent: wipe the session's selection state so a new
			// visit starts clean.
			if order.SessionID != "" {
				if err := u.checkout.Clear(ctx, order.SessionID); err != nil {
					u.log.Warn().Err(err).Str("session_id", order.SessionID).Msg("clear checkout state failed")
				}
			}
			u.log.Info().Str("reference", reference).Msg("order paid")
		}
		return u.reread(ctx, reference, adapter.VerifyPaid, vr.Raw)

	case adapter.VerifyPending:
		return Resolution{Order: order, Status: adapter.VerifyPending, Raw: vr.Raw}, nil

	default: // FAILED or NOT_FOUND
		moved, err := u.orders.UpdateStatusIfPending(ctx, nil, reference, model.OrderStatusFailed, nil, nil)
		if err != nil {
			return Resolution{Order: order, Status: adapter.VerifyPending, Raw: vr.Raw}, err
		}
		if moved {
			metrics.IncOrder(string(model.OrderStatusFailed))
			u.log.Info().Str("reference", reference).Str("gateway_status", string(vr.Status)).Msg("order failed")
		}
		return u.reread(ctx, reference, vr.Status, vr.Raw)
	}
}

// reread reloads the order after a CAS attempt so a lost race against a
// concurrent verifier still reports the winner's terminal status.
func (u *verifyUC) reread(ctx context.Context, reference string, fallback adapter.VerifyStatus, raw map[string]interface{}) (Resolution, error) {
	order, err := u.orders.FindByReference(ctx, nil, reference)
	if err != nil {
		return Resolution{Status: fallback, Raw: raw}, err
	}
	st := fallback
	if order.Status.Terminal() {
		st = statusOf(order)
	}
	return Resolution{Order: order, Status: st, Raw: raw}, nil
}

func statusOf(o *model.Order) adapter.VerifyStatus {
	switch o.Status {
	case model.OrderStatusPaid:
		return adapter.VerifyPaid
	case model.OrderStatusFailed:
		return adapter.VerifyFailed
	default:
		return adapter.VerifyPending
	}
}

func gatewayRef(raw map[string]interface{}) *string {
	body, ok := raw["responseBody"].(map[string]interface{})
	if !ok {
		return nil
	}
	if s, ok := body["transactionReference"].(string); ok && s != "" {
		return &s
	}
	return nil
}
