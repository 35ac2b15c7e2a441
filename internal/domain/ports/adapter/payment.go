package adapter

import "context"

// VerifyStatus is the normalized gateway outcome. Downstream logic branches
// only on these four values, never on vendor response codes.
type VerifyStatus string

const (
	VerifyPaid     VerifyStatus = "PAID"
	VerifyPending  VerifyStatus = "PENDING"
	VerifyNotFound VerifyStatus = "NOT_FOUND"
	VerifyFailed   VerifyStatus = "FAILED"
)

// InitRequest carries the exact persisted order amount and reference. The
// adapter must never recompute either.
type InitRequest struct {
	AmountNGN     int64
	Reference     string
	CustomerName  string
	CustomerEmail string
}

// InitResult is the handle for a hosted checkout flow.
type InitResult struct {
	CheckoutURL string
	Reference   string
}

// VerifyResult is the authoritative record for a reference. Raw preserves
// the vendor payload for diagnostics; AmountNGN is zero when the gateway did
// not report one.
type VerifyResult struct {
	Status    VerifyStatus
	AmountNGN int64
	Reference string
	Raw       map[string]interface{}
}

// PaymentGateway is the hex port for the external payment provider.
// Transport or auth failures are returned as errors, distinct from a FAILED
// status: an error means "unknown", not "failed".
type PaymentGateway interface {
	Name() string
	Initialize(ctx context.Context, req InitRequest) (InitResult, error)
	Verify(ctx context.Context, reference string) (VerifyResult, error)
}
