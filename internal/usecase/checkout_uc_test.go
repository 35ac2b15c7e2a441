//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/usecase"
)

const testDomainCost = 7500

func seedCatalog(t *testing.T, plans *MockPlanRepo) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*model.Plan{
		{ID: "standard", Name: "Standard", MonthlyNGN: 3500, QuarterlyNGN: 3166},
		{ID: "premium", Name: "Premium", MonthlyNGN: 5000, QuarterlyNGN: 4666},
		{ID: "enterprise", Name: "Enterprise", MonthlyNGN: 10000, QuarterlyNGN: 9666},
	} {
		if err := plans.Save(ctx, p); err != nil {
			t.Fatalf("seed plan %s: %v", p.ID, err)
		}
	}
}

func TestCheckoutUseCase_SetChoice(t *testing.T) {
	ctx := context.Background()

	t.Run("records template and plan in one step", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		draft, err := uc.SetChoice(ctx, "sess-1", "tpl-biz-01", "standard", model.IntervalMonthly)
		if err != nil {
			t.Fatalf("SetChoice failed: %v", err)
		}
		if draft.TemplateID != "tpl-biz-01" || draft.PlanID != "standard" {
			t.Errorf("unexpected draft: %+v", draft)
		}
		if draft.DomainAdded {
			t.Error("monthly choice must not add the domain by itself")
		}
		if !draft.Complete() {
			t.Error("draft with template and plan should be complete")
		}
	})

	t.Run("is idempotent for repeated identical choices", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		first, err := uc.SetChoice(ctx, "sess-1", "tpl-biz-01", "premium", model.IntervalMonthly)
		if err != nil {
			t.Fatalf("first SetChoice failed: %v", err)
		}
		second, err := uc.SetChoice(ctx, "sess-1", "tpl-biz-01", "premium", model.IntervalMonthly)
		if err != nil {
			t.Fatalf("second SetChoice failed: %v", err)
		}
		if first != second {
			t.Errorf("repeated choice changed the draft: %+v vs %+v", first, second)
		}
	})

	t.Run("resubmitting the stored choice keeps the frozen total", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.SetChoice(ctx, "sess-1", "tpl-biz-01", "premium", model.IntervalMonthly); err != nil {
			t.Fatal(err)
		}
		frozen, err := uc.FreezeTotal(ctx, "sess-1")
		if err != nil {
			t.Fatalf("FreezeTotal failed: %v", err)
		}
		if frozen.TotalNGN == nil || *frozen.TotalNGN != 5000 {
			t.Fatalf("expected frozen total 5000, got %v", frozen.TotalNGN)
		}

		// Clients re-issue the current choice on page load; that must not
		// unfreeze the price.
		draft, err := uc.SetChoice(ctx, "sess-1", "tpl-biz-01", "premium", model.IntervalMonthly)
		if err != nil {
			t.Fatal(err)
		}
		if draft.TotalNGN == nil || *draft.TotalNGN != 5000 {
			t.Errorf("resubmitted choice dropped the frozen total: %+v", draft)
		}

		// The catalog moving afterwards must not leak into the draft.
		plans.Save(ctx, &model.Plan{ID: "premium", Name: "Premium", MonthlyNGN: 9999, QuarterlyNGN: 9999})
		again, err := uc.FreezeTotal(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if *again.TotalNGN != 5000 {
			t.Errorf("frozen total recomputed after resubmit: got %d", *again.TotalNGN)
		}
	})

	t.Run("quarterly bundles the domain and monthly restores the user choice", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalMonthly); err != nil {
			t.Fatal(err)
		}
		if _, err := uc.SetDomain(ctx, "sess-1", true); err != nil {
			t.Fatal(err)
		}

		draft, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalQuarterly)
		if err != nil {
			t.Fatal(err)
		}
		if !draft.DomainAdded {
			t.Error("quarterly interval must bundle the domain")
		}

		// Toggling while quarterly is rejected.
		if _, err := uc.SetDomain(ctx, "sess-1", false); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument toggling domain on quarterly, got %v", err)
		}

		// Back to monthly: the user's explicit earlier choice survives.
		draft, err = uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalMonthly)
		if err != nil {
			t.Fatal(err)
		}
		if !draft.DomainAdded {
			t.Error("explicit domain choice should be restored on monthly")
		}
	})

	t.Run("rejects empty session", func(t *testing.T) {
		uc := usecase.NewCheckoutUseCase(NewMockStateRepo(), NewMockPlanRepo(), testDomainCost, newTestLogger())
		if _, err := uc.SetChoice(ctx, "", "tpl-1", "standard", model.IntervalMonthly); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestCheckoutUseCase_FreezeTotal(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes the catalog total once", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalMonthly); err != nil {
			t.Fatal(err)
		}
		if _, err := uc.SetDomain(ctx, "sess-1", true); err != nil {
			t.Fatal(err)
		}

		draft, err := uc.FreezeTotal(ctx, "sess-1")
		if err != nil {
			t.Fatalf("FreezeTotal failed: %v", err)
		}
		if draft.TotalNGN == nil || *draft.TotalNGN != 3500+testDomainCost {
			t.Fatalf("expected total %d, got %v", 3500+testDomainCost, draft.TotalNGN)
		}

		// A second freeze returns the stored value without recomputation, even
		// if the catalog changed in between.
		plans.Save(ctx, &model.Plan{ID: "standard", Name: "Standard", MonthlyNGN: 9999, QuarterlyNGN: 9999})
		again, err := uc.FreezeTotal(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if *again.TotalNGN != 3500+testDomainCost {
			t.Errorf("frozen total recomputed: got %d", *again.TotalNGN)
		}
	})

	t.Run("quarterly total ignores the bundled domain cost", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalQuarterly); err != nil {
			t.Fatal(err)
		}
		draft, err := uc.FreezeTotal(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if draft.TotalNGN == nil || *draft.TotalNGN != 3500*3 {
			t.Fatalf("expected quarterly total %d, got %v", 3500*3, draft.TotalNGN)
		}
	})

	t.Run("refuses an incomplete draft", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.FreezeTotal(ctx, "sess-1"); !errors.Is(err, domain.ErrDraftIncomplete) {
			t.Errorf("expected ErrDraftIncomplete, got %v", err)
		}
	})

	t.Run("a new choice invalidates the frozen total", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalMonthly); err != nil {
			t.Fatal(err)
		}
		if _, err := uc.FreezeTotal(ctx, "sess-1"); err != nil {
			t.Fatal(err)
		}
		draft, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "premium", model.IntervalMonthly)
		if err != nil {
			t.Fatal(err)
		}
		if draft.TotalNGN != nil {
			t.Errorf("changing plan should clear the frozen total, got %d", *draft.TotalNGN)
		}
		draft, err = uc.FreezeTotal(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if *draft.TotalNGN != 5000 {
			t.Errorf("expected refrozen total 5000, got %d", *draft.TotalNGN)
		}
	})
}

func TestCheckoutUseCase_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty session yields an empty monthly draft", func(t *testing.T) {
		uc := usecase.NewCheckoutUseCase(NewMockStateRepo(), NewMockPlanRepo(), testDomainCost, newTestLogger())
		draft, err := uc.Snapshot(ctx, "sess-never-seen")
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if draft.Complete() {
			t.Error("empty draft must not be complete")
		}
		if draft.Interval != model.IntervalMonthly {
			t.Errorf("default interval should be monthly, got %s", draft.Interval)
		}
	})

	t.Run("round-trips details and clears everything", func(t *testing.T) {
		state := NewMockStateRepo()
		plans := NewMockPlanRepo()
		seedCatalog(t, plans)
		uc := usecase.NewCheckoutUseCase(state, plans, testDomainCost, newTestLogger())

		if _, err := uc.SetChoice(ctx, "sess-1", "tpl-1", "standard", model.IntervalMonthly); err != nil {
			t.Fatal(err)
		}
		if err := uc.SetDetails(ctx, "sess-1", model.RegisterDetails{Name: "Ada", Email: "ada@example.com", Phone: "+2348012345678"}); err != nil {
			t.Fatal(err)
		}
		d, err := uc.Details(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if d.Email != "ada@example.com" {
			t.Errorf("details lost: %+v", d)
		}

		if err := uc.Clear(ctx, "sess-1"); err != nil {
			t.Fatal(err)
		}
		draft, err := uc.Snapshot(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if draft.Complete() {
			t.Error("cleared session should produce an empty draft")
		}
	})
}
