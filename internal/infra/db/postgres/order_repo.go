package postgres

import (
	"errors"
	"time"

	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `reference, plan_id, billing_interval, amount_ngn, status, customer_name, customer_email, session_id, gateway_ref, created_at, updated_at, paid_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var gatewayRef *string
	if err := row.Scan(&o.Reference, &o.PlanID, &o.Interval, &o.AmountNGN, &o.Status, &o.CustomerName, &o.CustomerEmail, &o.SessionID, &gatewayRef, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if gatewayRef != nil {
		o.GatewayRef = *gatewayRef
	}
	return o, nil
}

// Insert persists a fresh pending order. The reference is unique; a
// duplicate insert surfaces as ErrAlreadyExists.
func (r *orderRepo) Insert(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (
  reference, plan_id, billing_interval, amount_ngn, status, customer_name, customer_email, session_id, gateway_ref, created_at, updated_at, paid_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);`

	_, err := execSQL(ctx, r.pool, tx, q, o.Reference, o.PlanID, o.Interval, o.AmountNGN, o.Status, o.CustomerName, o.CustomerEmail, o.SessionID, nullable(o.GatewayRef), o.CreatedAt, o.UpdatedAt, o.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE reference=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, reference)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) FindRecentPending(ctx context.Context, tx repository.Tx, email, planID string, amountNGN int64, since time.Time) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders
WHERE customer_email=$1 AND plan_id=$2 AND amount_ngn=$3 AND status='pending' AND created_at >= $4
ORDER BY created_at DESC LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, email, planID, amountNGN, since)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

// UpdateStatusIfPending atomically moves pending -> paid|failed. No other
// transition is expressible through this repository.
func (r *orderRepo) UpdateStatusIfPending(
	ctx context.Context, tx repository.Tx, reference string, status model.OrderStatus, gatewayRef *string, paidAt *time.Time,
) (bool, error) {
	const q = `
UPDATE orders
   SET status = $2,
       gateway_ref = COALESCE($3, gateway_ref),
       paid_at = COALESCE($4, paid_at),
       updated_at = NOW()
 WHERE reference = $1
   AND status = 'pending';`

	cmd, err := execSQL(ctx, r.pool, tx, q, reference, string(status), gatewayRef, paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*model.Order, error) {
	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
