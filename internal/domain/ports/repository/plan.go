package repository

import (
	"context"

	"template-checkout/internal/domain/model"
)

// PlanRepository is the port for the pricing catalog. Plans are seeded once
// and read-only thereafter.
type PlanRepository interface {
	Save(ctx context.Context, plan *model.Plan) error
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	ListAll(ctx context.Context) ([]*model.Plan, error)
	Delete(ctx context.Context, id string) error
}
