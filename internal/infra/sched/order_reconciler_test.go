//go:build !integration

package sched

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/usecase"
)

type stubVerifier struct {
	resolveFunc func(ctx context.Context, reference string) (usecase.Resolution, error)
	calls       []string
}

func (s *stubVerifier) Resolve(ctx context.Context, reference string) (usecase.Resolution, error) {
	s.calls = append(s.calls, reference)
	if s.resolveFunc != nil {
		return s.resolveFunc(ctx, reference)
	}
	return usecase.Resolution{Status: adapter.VerifyPending}, nil
}

type stubOrderRepo struct {
	pending   []*model.Order
	listErr   error
	gotCutoff time.Time
	gotLimit  int
}

func (s *stubOrderRepo) Insert(context.Context, repository.Tx, *model.Order) error { return nil }
func (s *stubOrderRepo) FindByReference(context.Context, repository.Tx, string) (*model.Order, error) {
	return nil, domain.ErrNotFound
}
func (s *stubOrderRepo) FindRecentPending(context.Context, repository.Tx, string, string, int64, time.Time) (*model.Order, error) {
	return nil, domain.ErrNotFound
}
func (s *stubOrderRepo) UpdateStatusIfPending(context.Context, repository.Tx, string, model.OrderStatus, *string, *time.Time) (bool, error) {
	return false, nil
}
func (s *stubOrderRepo) ListPendingOlderThan(_ context.Context, _ repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	s.gotCutoff = olderThan
	s.gotLimit = limit
	return s.pending, s.listErr
}
func (s *stubOrderRepo) List(context.Context, repository.Tx, int, int) ([]*model.Order, error) {
	return nil, nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)
var _ usecase.VerifyUseCase = (*stubVerifier)(nil)

func reconcilerLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func pendingOrder(ref string) *model.Order {
	return &model.Order{Reference: ref, Status: model.OrderStatusPending, CreatedAt: time.Now().Add(-time.Hour)}
}

func TestOrderReconciler_Tick(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves every stale pending order", func(t *testing.T) {
		orders := &stubOrderRepo{pending: []*model.Order{pendingOrder("ref-1"), pendingOrder("ref-2")}}
		verifier := &stubVerifier{}
		w := NewOrderReconciler(verifier, orders, time.Minute, 10*time.Minute, reconcilerLogger())

		w.tick(ctx)

		if len(verifier.calls) != 2 || verifier.calls[0] != "ref-1" || verifier.calls[1] != "ref-2" {
			t.Errorf("unexpected resolve calls: %v", verifier.calls)
		}
		if orders.gotLimit != 200 {
			t.Errorf("expected batch limit 200, got %d", orders.gotLimit)
		}
		if time.Since(orders.gotCutoff) < 10*time.Minute {
			t.Errorf("cutoff not pushed back by the stale window: %v", orders.gotCutoff)
		}
	})

	t.Run("a failed resolve does not stop the batch", func(t *testing.T) {
		orders := &stubOrderRepo{pending: []*model.Order{pendingOrder("ref-1"), pendingOrder("ref-2")}}
		verifier := &stubVerifier{
			resolveFunc: func(ctx context.Context, reference string) (usecase.Resolution, error) {
				if reference == "ref-1" {
					return usecase.Resolution{}, domain.ErrGatewayUnavailable
				}
				return usecase.Resolution{Status: adapter.VerifyPaid}, nil
			},
		}
		w := NewOrderReconciler(verifier, orders, time.Minute, 10*time.Minute, reconcilerLogger())

		w.tick(ctx)

		if len(verifier.calls) != 2 {
			t.Errorf("outage on one reference must not skip the rest, got %v", verifier.calls)
		}
	})

	t.Run("a failed listing skips the pass", func(t *testing.T) {
		orders := &stubOrderRepo{listErr: errors.New("db down")}
		verifier := &stubVerifier{}
		w := NewOrderReconciler(verifier, orders, time.Minute, 10*time.Minute, reconcilerLogger())

		w.tick(ctx)

		if len(verifier.calls) != 0 {
			t.Errorf("no orders should resolve when listing fails, got %v", verifier.calls)
		}
	})
}

func TestOrderReconciler_Start(t *testing.T) {
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		orders := &stubOrderRepo{}
		verifier := &stubVerifier{}
		w := NewOrderReconciler(verifier, orders, 5*time.Millisecond, time.Minute, reconcilerLogger())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Start(ctx)
			close(done)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("reconciler did not stop after cancel")
		}
	})

	t.Run("defaults guard zero durations", func(t *testing.T) {
		w := NewOrderReconciler(&stubVerifier{}, &stubOrderRepo{}, 0, 0, reconcilerLogger())
		if w.interval != time.Minute || w.staleAfter != 10*time.Minute {
			t.Errorf("unexpected defaults: interval=%v staleAfter=%v", w.interval, w.staleAfter)
		}
	})
}
