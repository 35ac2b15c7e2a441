package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"template-checkout/internal/domain/ports/repository"
	"template-checkout/internal/usecase"
)

// Server is the operator-facing admin API: order listing, plan management
// and the metrics endpoint, on its own port behind a JWT session.
type Server struct {
	orders repository.OrderRepository
	planUC *usecase.PlanUseCase
	auth   *AuthManager
	apiKey string
	log    *zerolog.Logger
}

func NewServer(
	orders repository.OrderRepository,
	planUC *usecase.PlanUseCase,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		orders: orders,
		planUC: planUC,
		auth:   auth,
		apiKey: apiKey,
		log:    logger,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/admin/login", s.handleLogin)
	mux.HandleFunc("/api/v1/admin/logout", s.handleLogout)

	mux.Handle("/api/v1/orders", s.auth.Require(ordersListHandler(s.orders)))
	mux.Handle("/api/v1/plans", s.auth.Require(s.plansRouter()))
}

// handleLogin exchanges the configured API key for a session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.apiKey == "" {
		s.log.Error().Msg("Admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(s.apiKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// plansRouter handles catalog management on /api/v1/plans.
func (s *Server) plansRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			plansListHandler(s.planUC)(w, r)
		case http.MethodPost:
			plansCreateHandler(s.planUC)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// Run starts the admin server on addr and blocks.
func Run(addr string, s *Server) *http.Server {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}
