package usecase

import (
	"context"

	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
)

// PlanUseCase manages the pricing catalog.
type PlanUseCase struct {
	repo repository.PlanRepository
}

func NewPlanUseCase(repo repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{repo: repo}
}

// Create validates and saves a plan.
func (uc *PlanUseCase) Create(ctx context.Context, id, name string, monthlyNGN, quarterlyNGN int64, features []string) (*model.Plan, error) {
	p, err := model.NewPlan(id, name, monthlyNGN, quarterlyNGN, features)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a plan by ID.
func (uc *PlanUseCase) Get(ctx context.Context, id string) (*model.Plan, error) {
	return uc.repo.FindByID(ctx, id)
}

// List returns all plans.
func (uc *PlanUseCase) List(ctx context.Context) ([]*model.Plan, error) {
	return uc.repo.ListAll(ctx)
}
