package payment

import (
	"context"
	"fmt"

	"template-checkout/internal/domain/ports/adapter"
)

// NoopGateway is used in dev mode: every initialize succeeds with a fake
// checkout URL and every verify reports PAID.
type NoopGateway struct{}

func NewNoopGateway() *NoopGateway { return &NoopGateway{} }

func (NoopGateway) Name() string { return "noop" }

func (NoopGateway) Initialize(_ context.Context, in adapter.InitRequest) (adapter.InitResult, error) {
	return adapter.InitResult{
		CheckoutURL: fmt.Sprintf("https://example.invalid/checkout/%s", in.Reference),
		Reference:   in.Reference,
	}, nil
}

func (NoopGateway) Verify(_ context.Context, reference string) (adapter.VerifyResult, error) {
	return adapter.VerifyResult{Status: adapter.VerifyPaid, Reference: reference}, nil
}
