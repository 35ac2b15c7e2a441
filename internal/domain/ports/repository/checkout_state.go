package repository

import (
	"context"

	"template-checkout/internal/domain/model"
)

// CheckoutStateRepository is the durable per-session store behind the
// checkout coordinator. Each fact is persisted and cleared independently so
// a page reload reconstructs the exact same draft.
type CheckoutStateRepository interface {
	SetTemplate(ctx context.Context, sessionID string, sel *model.TemplateSelection) error
	GetTemplate(ctx context.Context, sessionID string) (*model.TemplateSelection, error)

	SetPricing(ctx context.Context, sessionID string, sel *model.PricingSelection) error
	GetPricing(ctx context.Context, sessionID string) (*model.PricingSelection, error)

	SetCheckout(ctx context.Context, sessionID string, st *model.CheckoutState) error
	GetCheckout(ctx context.Context, sessionID string) (*model.CheckoutState, error)

	SetRegister(ctx context.Context, sessionID string, d *model.RegisterDetails) error
	GetRegister(ctx context.Context, sessionID string) (*model.RegisterDetails, error)

	// Clear wipes every fact for the session; called once a payment reaches
	// the paid terminal state (the cart is spent).
	Clear(ctx context.Context, sessionID string) error
}

// Locker provides short-lived mutual exclusion, used as the idempotency
// window around order creation.
type Locker interface {
	TryLock(ctx context.Context, key string, ttlSeconds int) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
