package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/usecase"
)

type orderView struct {
	Reference     string `json:"reference"`
	PlanID        string `json:"plan_id"`
	Interval      string `json:"interval"`
	AmountNGN     int64  `json:"amount_ngn"`
	Status        string `json:"status"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	GatewayRef    string `json:"gateway_ref,omitempty"`
	CreatedAt     string `json:"created_at"`
	PaidAt        string `json:"paid_at,omitempty"`
}

// ordersListHandler returns a paginated order list.
// It accepts 'offset' and 'limit' query parameters.
func ordersListHandler(orders repository.OrderRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50 // Default page size
		}
		if offset < 0 {
			offset = 0
		}

		list, err := orders.List(ctx, nil, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list orders", http.StatusInternalServerError)
			return
		}

		out := make([]orderView, 0, len(list))
		for _, o := range list {
			v := orderView{
				Reference:     o.Reference,
				PlanID:        o.PlanID,
				Interval:      string(o.Interval),
				AmountNGN:     o.AmountNGN,
				Status:        string(o.Status),
				CustomerName:  o.CustomerName,
				CustomerEmail: o.CustomerEmail,
				GatewayRef:    o.GatewayRef,
				CreatedAt:     o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			if o.PaidAt != nil {
				v.PaidAt = o.PaidAt.Format("2006-01-02T15:04:05Z07:00")
			}
			out = append(out, v)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"orders": out,
			"offset": offset,
			"limit":  limit,
		})
	}
}

// A struct to define the expected JSON request body for creating a plan.
type planCreateRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyNGN   int64    `json:"monthly_ngn"`
	QuarterlyNGN int64    `json:"quarterly_ngn"`
	Features     []string `json:"features"`
}

// Handler for creating or updating a pricing plan.
func plansCreateHandler(planUC *usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req planCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		plan, err := planUC.Create(ctx, req.ID, req.Name, req.MonthlyNGN, req.QuarterlyNGN, req.Features)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to create plan", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(plan)
	}
}

func plansListHandler(planUC *usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := planUC.List(r.Context())
		if err != nil {
			http.Error(w, "Failed to list plans", http.StatusInternalServerError)
			return
		}
		if plans == nil {
			plans = []*model.Plan{}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(plans)
	}
}
