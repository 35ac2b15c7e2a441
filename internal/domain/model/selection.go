package model

// The checkout flow spans several pages, so each selection fact lives in its
// own durably stored blob keyed by the checkout session. Facts reference each
// other only by id; the coordinator composes them into an OrderDraft.

// TemplateSelection mirrors the template picker state.
type TemplateSelection struct {
	SelectedID      string `json:"selected_id"`
	SelectedPreview string `json:"selected_preview"`
	Category        string `json:"category"`
}

// PricingSelection holds the chosen plan and billing interval.
type PricingSelection struct {
	PlanID   string          `json:"plan_id"`
	Interval BillingInterval `json:"interval"`
}

// CheckoutState owns the domain add-on flag and the frozen total.
// DomainChoice remembers the user's explicit toggle so that flipping the
// interval back to monthly restores it; DomainAdded is the derived value
// (forced true while quarterly).
type CheckoutState struct {
	DomainAdded  bool   `json:"domain_added"`
	DomainChoice bool   `json:"domain_choice"`
	TotalNGN     *int64 `json:"total_ngn,omitempty"`
}

// RegisterDetails is the contact info captured before payment.
type RegisterDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OrderDraft is the composed read-only view of the current selections plus
// the frozen total. It is derived, never stored as a whole.
type OrderDraft struct {
	TemplateID  string          `json:"template_id"`
	PlanID      string          `json:"plan_id"`
	Interval    BillingInterval `json:"interval"`
	DomainAdded bool            `json:"domain_added"`
	TotalNGN    *int64          `json:"total_ngn,omitempty"`
}

// Complete reports whether the draft may proceed to payment: a plan picked
// without a template is browsable but not payable.
func (d OrderDraft) Complete() bool {
	return d.TemplateID != "" && d.PlanID != ""
}
