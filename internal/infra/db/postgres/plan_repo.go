package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
)

var _ repository.PlanRepository = (*planRepo)(nil)

type planRepo struct{ pool *pgxpool.Pool }

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

func (r *planRepo) Save(ctx context.Context, p *model.Plan) error {
	const q = `
INSERT INTO plans (id, name, monthly_ngn, quarterly_ngn, features, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  name=$2, monthly_ngn=$3, quarterly_ngn=$4, features=$5;`

	_, err := execSQL(ctx, r.pool, nil, q, p.ID, p.Name, p.MonthlyNGN, p.QuarterlyNGN, p.Features, p.CreatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *planRepo) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	const q = `SELECT id, name, monthly_ngn, quarterly_ngn, features, created_at FROM plans WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, nil, q, id)
	if err != nil {
		return nil, err
	}
	p := &model.Plan{}
	if err := row.Scan(&p.ID, &p.Name, &p.MonthlyNGN, &p.QuarterlyNGN, &p.Features, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *planRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	const q = `SELECT id, name, monthly_ngn, quarterly_ngn, features, created_at FROM plans ORDER BY monthly_ngn ASC;`
	rows, err := queryRows(ctx, r.pool, nil, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Plan
	for rows.Next() {
		p := &model.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyNGN, &p.QuarterlyNGN, &p.Features, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM plans WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, nil, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
