package model

import (
	"regexp"
	"strings"
	"time"

	"template-checkout/internal/domain"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // persisted before the gateway is contacted
	OrderStatusPaid    OrderStatus = "paid"    // gateway verified the charge
	OrderStatusFailed  OrderStatus = "failed"  // gateway reported failed or unknown reference
)

// Terminal reports whether the status can never change again.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail applies the same loose address check the storefront uses.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// Order is the durable record of one checkout attempt, keyed by a globally
// unique payment reference. AmountNGN is frozen at creation and is never
// recomputed from the live catalog.
type Order struct {
	Reference     string // UUID, also the gateway's paymentReference
	PlanID        string
	Interval      BillingInterval
	AmountNGN     int64
	Status        OrderStatus
	CustomerName  string
	CustomerEmail string
	SessionID     string // checkout session that produced the order, if any
	GatewayRef    string // gateway transaction reference after verification
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PaidAt        *time.Time
}

// NewOrder validates customer details and constructs a pending order.
func NewOrder(reference, planID string, interval BillingInterval, amountNGN int64, name, email, sessionID string) (*Order, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || !ValidEmail(email) {
		return nil, domain.ErrValidation
	}
	if reference == "" || planID == "" || amountNGN <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Order{
		Reference:     reference,
		PlanID:        planID,
		Interval:      interval,
		AmountNGN:     amountNGN,
		Status:        OrderStatusPending,
		CustomerName:  name,
		CustomerEmail: email,
		SessionID:     sessionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
