package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/usecase"
)

// OrderReconciler periodically scans for stale pending orders and resolves
// them against the gateway. This covers the lost-callback case: the customer
// paid but never came back, or the process crashed mid-verify.
type OrderReconciler struct {
	uc         usecase.VerifyUseCase
	orders     repository.OrderRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending order must be to retry
	log        *zerolog.Logger
}

func NewOrderReconciler(uc usecase.VerifyUseCase, orders repository.OrderRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *OrderReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &OrderReconciler{uc: uc, orders: orders, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *OrderReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *OrderReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.orders.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("order-reconciler: list pending failed")
		return
	}
	for _, o := range pending {
		res, err := w.uc.Resolve(ctx, o.Reference)
		if err != nil {
			// Unknown outcome; the order stays pending for the next pass.
			w.log.Warn().Err(err).Str("reference", o.Reference).Msg("order-reconciler: resolve failed")
			continue
		}
		if res.Status != adapter.VerifyPending {
			w.log.Info().Str("reference", o.Reference).Str("status", string(res.Status)).Msg("order-reconciler: settled")
		}
	}
}
