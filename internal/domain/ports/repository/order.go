package repository

import (
	"context"
	"time"

	"template-checkout/internal/domain/model"
)

// OrderRepository persists checkout orders. Orders are inserted once by the
// registrar; after that only the status transition pending -> paid|failed is
// written, and only through UpdateStatusIfPending.
type OrderRepository interface {
	Insert(ctx context.Context, tx Tx, o *model.Order) error
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Order, error)
	// FindRecentPending returns the newest pending order matching the same
	// logical checkout attempt, for the rapid-resubmit idempotency window.
	FindRecentPending(ctx context.Context, tx Tx, email, planID string, amountNGN int64, since time.Time) (*model.Order, error)
	// UpdateStatusIfPending atomically moves a pending order to a terminal
	// status. Returns false when the order was already terminal.
	UpdateStatusIfPending(ctx context.Context, tx Tx, reference string, status model.OrderStatus, gatewayRef *string, paidAt *time.Time) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Order, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Order, error)
}
