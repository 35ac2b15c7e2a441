package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.CheckoutStateRepository = (*CheckoutStateRepo)(nil)

// CheckoutStateRepo keeps the per-session checkout facts in Redis. Each fact
// is a separate key so it is independently persisted and independently
// clearable, matching the multi-page flow.
type CheckoutStateRepo struct {
	client *redClient
	ttl    time.Duration
}

func NewCheckoutStateRepo(client *redClient, ttl time.Duration) *CheckoutStateRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CheckoutStateRepo{client: client, ttl: ttl}
}

func key(kind, sessionID string) string {
	return fmt.Sprintf("checkout:%s:%s", kind, sessionID)
}

func (s *CheckoutStateRepo) set(ctx context.Context, kind, sessionID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(kind, sessionID), data, s.ttl)
}

func (s *CheckoutStateRepo) get(ctx context.Context, kind, sessionID string, out interface{}) error {
	data, err := s.client.Get(ctx, key(kind, sessionID))
	if err == redis.Nil {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), out)
}

func (s *CheckoutStateRepo) SetTemplate(ctx context.Context, sessionID string, sel *model.TemplateSelection) error {
	return s.set(ctx, "template", sessionID, sel)
}

func (s *CheckoutStateRepo) GetTemplate(ctx context.Context, sessionID string) (*model.TemplateSelection, error) {
	var sel model.TemplateSelection
	if err := s.get(ctx, "template", sessionID, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (s *CheckoutStateRepo) SetPricing(ctx context.Context, sessionID string, sel *model.PricingSelection) error {
	return s.set(ctx, "pricing", sessionID, sel)
}

func (s *CheckoutStateRepo) GetPricing(ctx context.Context, sessionID string) (*model.PricingSelection, error) {
	var sel model.PricingSelection
	if err := s.get(ctx, "pricing", sessionID, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (s *CheckoutStateRepo) SetCheckout(ctx context.Context, sessionID string, st *model.CheckoutState) error {
	return s.set(ctx, "state", sessionID, st)
}

func (s *CheckoutStateRepo) GetCheckout(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	var st model.CheckoutState
	if err := s.get(ctx, "state", sessionID, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *CheckoutStateRepo) SetRegister(ctx context.Context, sessionID string, d *model.RegisterDetails) error {
	return s.set(ctx, "register", sessionID, d)
}

func (s *CheckoutStateRepo) GetRegister(ctx context.Context, sessionID string) (*model.RegisterDetails, error) {
	var d model.RegisterDetails
	if err := s.get(ctx, "register", sessionID, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *CheckoutStateRepo) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx,
		key("template", sessionID),
		key("pricing", sessionID),
		key("state", sessionID),
		key("register", sessionID),
	)
}
