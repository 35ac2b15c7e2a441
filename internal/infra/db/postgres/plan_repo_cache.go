package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/infra/metrics"
	red "template-checkout/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator caches catalog reads in Redis. The catalog is
// read-heavy and effectively immutable after seeding, so a long TTL is fine;
// writes invalidate.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.RedisClient) repository.PlanRepository {
	return &planRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func planKey(id string) string { return fmt.Sprintf("plan:%s", id) }

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	val, err := d.cache.Get(ctx, planKey(id))
	if err == nil {
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		if bytes, err := json.Marshal(plan); err == nil {
			_ = d.cache.Set(ctx, planKey(id), bytes, d.ttl)
		}
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) Save(ctx context.Context, plan *model.Plan) error {
	if err := d.inner.Save(ctx, plan); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, planKey(plan.ID))
	return nil
}

func (d *planRepoCacheDecorator) ListAll(ctx context.Context) ([]*model.Plan, error) {
	// List stays uncached; it only backs the catalog endpoint and seeding.
	return d.inner.ListAll(ctx)
}

func (d *planRepoCacheDecorator) Delete(ctx context.Context, id string) error {
	if err := d.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, planKey(id))
	return nil
}
