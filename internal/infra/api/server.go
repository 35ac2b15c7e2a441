package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/domain/pricing"
	"template-checkout/internal/infra/metrics"
	"template-checkout/internal/usecase"
)

// Server is the public storefront API: template gallery, checkout
// coordinator, order initialization and payment verification.
type Server struct {
	planUC     *usecase.PlanUseCase
	checkoutUC usecase.CheckoutUseCase
	orderUC    usecase.OrderUseCase
	verifyUC   usecase.VerifyUseCase
	contactUC  usecase.ContactUseCase

	domainCostNGN int64
	sessionTTL    time.Duration
	log           *zerolog.Logger
}

func NewServer(
	planUC *usecase.PlanUseCase,
	checkoutUC usecase.CheckoutUseCase,
	orderUC usecase.OrderUseCase,
	verifyUC usecase.VerifyUseCase,
	contactUC usecase.ContactUseCase,
	domainCostNGN int64,
	sessionTTL time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		planUC:        planUC,
		checkoutUC:    checkoutUC,
		orderUC:       orderUC,
		verifyUC:      verifyUC,
		contactUC:     contactUC,
		domainCostNGN: domainCostNGN,
		sessionTTL:    sessionTTL,
		log:           logger,
	}
}

// Handler builds the full public router with the guard chain applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handlePlans)
		r.Get("/templates", s.handleTemplates)

		r.Post("/checkout/choice", s.handleChoice)
		r.Post("/checkout/domain", s.handleDomain)
		r.Post("/checkout/freeze", s.handleFreeze)
		r.Get("/checkout", s.handleSnapshot)

		r.Post("/orders/initialize", s.handleInitialize)

		r.Get("/payments/verify", s.handleVerify)
		r.Post("/payments/verify", s.handleVerify)

		r.Post("/register", s.handleRegister)
		r.Post("/customercare", s.handleCustomerCare)
	})

	r.Get("/payments/callback", s.handleCallback)

	return Chain(r,
		Recover(s.log),
		TraceID(s.log),
		Session(s.sessionTTL),
		RequestLog(s.log),
		Timeout(30*time.Second),
	)
}

// ===== Catalog =====

type planView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyNGN   int64    `json:"monthly_ngn"`
	QuarterlyNGN int64    `json:"quarterly_ngn"`
	SavingsNGN   int64    `json:"quarterly_savings_ngn"`
	Features     []string `json:"features"`
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, planView{
			ID:           p.ID,
			Name:         p.Name,
			MonthlyNGN:   p.MonthlyNGN,
			QuarterlyNGN: p.QuarterlyNGN,
			SavingsNGN:   pricing.Savings(p),
			Features:     p.Features,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans":           out,
		"domain_cost_ngn": s.domainCostNGN,
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"templates": Templates(r.URL.Query().Get("category")),
	})
}

// ===== Checkout coordinator =====

type choiceRequest struct {
	TemplateID string `json:"templateId"`
	PlanID     string `json:"planId"`
	Interval   string `json:"interval"`
}

func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, ok := TemplateByID(req.TemplateID); !ok {
		http.Error(w, "unknown template", http.StatusNotFound)
		return
	}
	interval, err := model.ParseInterval(req.Interval)
	if err != nil {
		http.Error(w, "invalid interval", http.StatusBadRequest)
		return
	}
	draft, err := s.checkoutUC.SetChoice(r.Context(), SessionID(r.Context()), req.TemplateID, req.PlanID, interval)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeDraft(w, draft)
}

type domainRequest struct {
	Added bool `json:"added"`
}

func (s *Server) handleDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	draft, err := s.checkoutUC.SetDomain(r.Context(), SessionID(r.Context()), req.Added)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeDraft(w, draft)
}

func (s *Server) handleFreeze(w http.ResponseWriter, r *http.Request) {
	draft, err := s.checkoutUC.FreezeTotal(r.Context(), SessionID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeDraft(w, draft)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	draft, err := s.checkoutUC.Snapshot(r.Context(), SessionID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeDraft(w, draft)
}

type draftView struct {
	TemplateID  string `json:"template_id,omitempty"`
	PlanID      string `json:"plan_id,omitempty"`
	Interval    string `json:"interval"`
	DomainAdded bool   `json:"domain_added"`
	TotalNGN    *int64 `json:"total_ngn,omitempty"`
	Complete    bool   `json:"complete"`
}

func (s *Server) writeDraft(w http.ResponseWriter, draft model.OrderDraft) {
	s.writeJSON(w, http.StatusOK, draftView{
		TemplateID:  draft.TemplateID,
		PlanID:      draft.PlanID,
		Interval:    string(draft.Interval),
		DomainAdded: draft.DomainAdded,
		TotalNGN:    draft.TotalNGN,
		Complete:    draft.Complete(),
	})
}

// ===== Orders =====

type initializeRequest struct {
	PlanID   string `json:"planId"`
	Interval string `json:"interval"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
}

type initializeResponse struct {
	Success     bool   `json:"success"`
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	AmountNGN   int64  `json:"amount_ngn"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	interval, err := model.ParseInterval(req.Interval)
	if err != nil {
		http.Error(w, "invalid interval", http.StatusBadRequest)
		return
	}

	order, url, err := s.orderUC.Create(r.Context(), usecase.CreateOrderInput{
		PlanID:     req.PlanID,
		Interval:   interval,
		Name:       req.Name,
		Email:      req.Email,
		SessionID:  SessionID(r.Context()),
		AmountHint: req.Amount,
	})
	if err != nil {
		// A gateway outage after the order was persisted still returns the
		// reference so the client can retry or poll.
		if order != nil && (errors.Is(err, domain.ErrGatewayUnavailable) || errors.Is(err, domain.ErrGatewayAuth)) {
			s.writeJSON(w, http.StatusBadGateway, initializeResponse{
				Success:   false,
				Reference: order.Reference,
				AmountNGN: order.AmountNGN,
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, initializeResponse{
		Success:     true,
		Reference:   order.Reference,
		CheckoutURL: url,
		AmountNGN:   order.AmountNGN,
	})
}

// ===== Verification =====

type verifyRequest struct {
	Reference string `json:"reference"`
}

type verifyResponse struct {
	Success   bool                   `json:"success"`
	Status    string                 `json:"status"`
	Reference string                 `json:"reference"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reference := r.URL.Query().Get("reference")
	if reference == "" && r.Method == http.MethodPost {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			reference = req.Reference
		}
	}
	if reference == "" {
		metrics.VerifyRequests.WithLabelValues("fail", "missing_reference").Inc()
		http.Error(w, "missing reference", http.StatusBadRequest)
		return
	}

	res, err := s.verifyUC.Resolve(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.VerifyRequests.WithLabelValues("fail", "not_found").Inc()
			http.Error(w, "unknown reference", http.StatusNotFound)
			return
		}
		// Outcome unknown: report PENDING with success=false, never FAILED.
		metrics.VerifyRequests.WithLabelValues("fail", "gateway_error").Inc()
		metrics.VerifyDuration.WithLabelValues("fail").Observe(time.Since(start).Seconds())
		s.writeJSON(w, http.StatusBadGateway, verifyResponse{
			Success:   false,
			Status:    string(adapter.VerifyPending),
			Reference: reference,
		})
		return
	}
	metrics.VerifyRequests.WithLabelValues("ok", "").Inc()
	metrics.VerifyDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	s.writeJSON(w, http.StatusOK, verifyResponse{
		Success:   res.Status == adapter.VerifyPaid,
		Status:    string(res.Status),
		Reference: reference,
		Raw:       res.Raw,
	})
}

var callbackPage = template.Must(template.New("cb").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Payment {{if .OK}}Successful{{else}}Status{{end}}</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55} .pend{color:#92400e} .fail{color:#b00020}
.btn{display:inline-block;margin-top:16px;padding:10px 16px;border-radius:8px;border:1px solid #888;text-decoration:none}
.small{font-size:12px;color:#666}
</style>
</head>
<body>
<div class="card">
  {{if .OK}}<h2 class="ok">Payment Successful</h2>
  <p>Your website order is confirmed. A receipt has been sent to your email.</p>
  {{else if .Pending}}<h2 class="pend">Payment Processing</h2>
  <p>We have not received confirmation from the bank yet. This page is safe to reload.</p>
  {{else}}<h2 class="fail">Payment Not Completed</h2>
  <p>{{.Msg}}</p>
  {{end}}
  <div class="small">Order reference: {{.Reference}}</div>
</div>
</body>
</html>`))

// handleCallback is the gateway redirect landing page. The query parameters
// are only a hint: the rendered outcome always comes from Resolve.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("paymentReference")
	if reference == "" {
		reference = r.URL.Query().Get("reference")
	}
	if reference == "" {
		http.Error(w, "missing paymentReference", http.StatusBadRequest)
		return
	}

	res, err := s.verifyUC.Resolve(r.Context(), reference)
	if err != nil && errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "unknown reference", http.StatusNotFound)
		return
	}

	view := struct {
		OK        bool
		Pending   bool
		Msg       string
		Reference string
	}{Reference: reference}
	switch {
	case err != nil:
		// Unknown outcome renders as processing, not failure.
		view.Pending = true
	case res.Status == adapter.VerifyPaid:
		view.OK = true
	case res.Status == adapter.VerifyPending:
		view.Pending = true
	default:
		view.Msg = "The payment was declined or cancelled. You can return to checkout and try again."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = callbackPage.Execute(w, view)
}

// ===== Contacts =====

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	contact, err := s.contactUC.Register(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Remember the details for the payment step of this session.
	if sid := SessionID(r.Context()); sid != "" {
		_ = s.checkoutUC.SetDetails(r.Context(), sid, model.RegisterDetails{
			Name:  contact.Name,
			Email: contact.Email,
			Phone: contact.Phone,
		})
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"contact": map[string]string{"id": contact.ID, "name": contact.Name, "email": contact.Email, "phone": contact.Phone},
	})
}

type careRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	TemplateID string `json:"templateId"`
}

func (s *Server) handleCustomerCare(w http.ResponseWriter, r *http.Request) {
	var req careRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ticket, err := s.contactUC.OpenTicket(r.Context(), req.Name, req.Email, req.Subject, req.Message, req.TemplateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"ticket_id": ticket.ID,
	})
}

// ===== Helpers =====

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, "invalid input", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, "invalid request", http.StatusBadRequest)
	case errors.Is(err, domain.ErrDraftIncomplete):
		http.Error(w, "selection incomplete", http.StatusConflict)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrLockBusy):
		http.Error(w, "request already in progress", http.StatusConflict)
	case errors.Is(err, domain.ErrGatewayAuth), errors.Is(err, domain.ErrGatewayUnavailable):
		http.Error(w, "payment provider unavailable", http.StatusBadGateway)
	case errors.Is(err, domain.ErrConfiguration):
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
