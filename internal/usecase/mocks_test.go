//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// MockOrderRepo is an in-memory OrderRepository. Each behavior can be
// overridden per test through the corresponding Func field.
type MockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*model.Order // by reference

	InsertFunc                func(ctx context.Context, tx repository.Tx, o *model.Order) error
	FindByReferenceFunc       func(ctx context.Context, tx repository.Tx, reference string) (*model.Order, error)
	UpdateStatusIfPendingFunc func(ctx context.Context, tx repository.Tx, reference string, status model.OrderStatus, gatewayRef *string, paidAt *time.Time) (bool, error)
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{orders: make(map[string]*model.Order)}
}

func (m *MockOrderRepo) Insert(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.Reference]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *o
	m.orders[o.Reference] = &cp
	return nil
}

func (m *MockOrderRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.Order, error) {
	if m.FindByReferenceFunc != nil {
		return m.FindByReferenceFunc(ctx, tx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepo) FindRecentPending(ctx context.Context, tx repository.Tx, email, planID string, amountNGN int64, since time.Time) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *model.Order
	for _, o := range m.orders {
		if o.Status != model.OrderStatusPending || o.CustomerEmail != email || o.PlanID != planID || o.AmountNGN != amountNGN {
			continue
		}
		if o.CreatedAt.Before(since) {
			continue
		}
		if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
			newest = o
		}
	}
	if newest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (m *MockOrderRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, reference string, status model.OrderStatus, gatewayRef *string, paidAt *time.Time) (bool, error) {
	if m.UpdateStatusIfPendingFunc != nil {
		return m.UpdateStatusIfPendingFunc(ctx, tx, reference, status, gatewayRef, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[reference]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = status
	if gatewayRef != nil {
		o.GatewayRef = *gatewayRef
	}
	if paidAt != nil {
		o.PaidAt = paidAt
	}
	o.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockOrderRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Order
	for _, o := range m.orders {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(olderThan) {
			cp := *o
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOrderRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

// ---- MockPlanRepo ----

type MockPlanRepo struct {
	mu    sync.Mutex
	plans map[string]*model.Plan

	FindByIDFunc func(ctx context.Context, id string) (*model.Plan, error)
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{plans: make(map[string]*model.Plan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, p *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.plans[p.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, id)
	return nil
}

// ---- MockStateRepo ----

// MockStateRepo keeps each session fact in its own map, mirroring the
// independent keys the redis implementation uses.
type MockStateRepo struct {
	mu        sync.Mutex
	templates map[string]*model.TemplateSelection
	pricing   map[string]*model.PricingSelection
	checkout  map[string]*model.CheckoutState
	register  map[string]*model.RegisterDetails

	SetCheckoutFunc func(ctx context.Context, sessionID string, st *model.CheckoutState) error
}

var _ repository.CheckoutStateRepository = (*MockStateRepo)(nil)

func NewMockStateRepo() *MockStateRepo {
	return &MockStateRepo{
		templates: make(map[string]*model.TemplateSelection),
		pricing:   make(map[string]*model.PricingSelection),
		checkout:  make(map[string]*model.CheckoutState),
		register:  make(map[string]*model.RegisterDetails),
	}
}

func (m *MockStateRepo) SetTemplate(ctx context.Context, sessionID string, sel *model.TemplateSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sel
	m.templates[sessionID] = &cp
	return nil
}

func (m *MockStateRepo) GetTemplate(ctx context.Context, sessionID string) (*model.TemplateSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sel, ok := m.templates[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sel
	return &cp, nil
}

func (m *MockStateRepo) SetPricing(ctx context.Context, sessionID string, sel *model.PricingSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sel
	m.pricing[sessionID] = &cp
	return nil
}

func (m *MockStateRepo) GetPricing(ctx context.Context, sessionID string) (*model.PricingSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sel, ok := m.pricing[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sel
	return &cp, nil
}

func (m *MockStateRepo) SetCheckout(ctx context.Context, sessionID string, st *model.CheckoutState) error {
	if m.SetCheckoutFunc != nil {
		return m.SetCheckoutFunc(ctx, sessionID, st)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	if st.TotalNGN != nil {
		total := *st.TotalNGN
		cp.TotalNGN = &total
	}
	m.checkout[sessionID] = &cp
	return nil
}

func (m *MockStateRepo) GetCheckout(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.checkout[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *MockStateRepo) SetRegister(ctx context.Context, sessionID string, d *model.RegisterDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.register[sessionID] = &cp
	return nil
}

func (m *MockStateRepo) GetRegister(ctx context.Context, sessionID string) (*model.RegisterDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.register[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MockStateRepo) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.templates, sessionID)
	delete(m.pricing, sessionID)
	delete(m.checkout, sessionID)
	delete(m.register, sessionID)
	return nil
}

// ---- MockContactRepo / MockTicketRepo ----

type MockContactRepo struct {
	mu       sync.Mutex
	contacts map[string]*model.Contact // by email

	UpsertFunc func(ctx context.Context, tx repository.Tx, c *model.Contact) (*model.Contact, error)
}

var _ repository.ContactRepository = (*MockContactRepo)(nil)

func NewMockContactRepo() *MockContactRepo {
	return &MockContactRepo{contacts: make(map[string]*model.Contact)}
}

func (m *MockContactRepo) Upsert(ctx context.Context, tx repository.Tx, c *model.Contact) (*model.Contact, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.contacts[c.Email]; ok {
		if c.Name != "" {
			prev.Name = c.Name
		}
		if c.Phone != "" {
			prev.Phone = c.Phone
		}
		cp := *prev
		return &cp, nil
	}
	cp := *c
	m.contacts[c.Email] = &cp
	out := cp
	return &out, nil
}

func (m *MockContactRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type MockTicketRepo struct {
	mu      sync.Mutex
	tickets []*model.CareTicket
}

var _ repository.CareTicketRepository = (*MockTicketRepo)(nil)

func NewMockTicketRepo() *MockTicketRepo { return &MockTicketRepo{} }

func (m *MockTicketRepo) Insert(ctx context.Context, tx repository.Tx, t *model.CareTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tickets = append(m.tickets, &cp)
	return nil
}

func (m *MockTicketRepo) ListByContact(ctx context.Context, tx repository.Tx, contactID string) ([]*model.CareTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.CareTicket
	for _, t := range m.tickets {
		if t.ContactID == contactID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- MockTxManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// ---- MockLocker ----

// MockLocker grants every lock unless a key is marked held.
type MockLocker struct {
	mu   sync.Mutex
	held map[string]string

	TryLockFunc func(ctx context.Context, key string, ttlSeconds int) (string, error)
}

var _ repository.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]string)}
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttlSeconds int) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttlSeconds)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return "", domain.ErrLockBusy
	}
	token := uuid.NewString()
	m.held[key] = token
	return token, nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
	}
	return nil
}

// =============================
// Adapters
// =============================

// MockGateway records every call and returns configurable results.
type MockGateway struct {
	mu        sync.Mutex
	InitCalls []adapter.InitRequest
	VerCalls  []string

	InitializeFunc func(ctx context.Context, req adapter.InitRequest) (adapter.InitResult, error)
	VerifyFunc     func(ctx context.Context, reference string) (adapter.VerifyResult, error)
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Initialize(ctx context.Context, req adapter.InitRequest) (adapter.InitResult, error) {
	m.mu.Lock()
	m.InitCalls = append(m.InitCalls, req)
	m.mu.Unlock()
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, req)
	}
	return adapter.InitResult{CheckoutURL: "https://pay.example/" + req.Reference, Reference: req.Reference}, nil
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (adapter.VerifyResult, error) {
	m.mu.Lock()
	m.VerCalls = append(m.VerCalls, reference)
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return adapter.VerifyResult{Status: adapter.VerifyPending, Reference: reference}, nil
}
