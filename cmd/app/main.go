// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"template-checkout/internal/config"
	"template-checkout/internal/domain/ports/adapter"
	"template-checkout/internal/infra/api"
	pg "template-checkout/internal/infra/db/postgres"
	"template-checkout/internal/infra/logging"
	"template-checkout/internal/infra/metrics"
	"template-checkout/internal/infra/payment"
	red "template-checkout/internal/infra/redis"
	"template-checkout/internal/infra/sched"
	"template-checkout/internal/infra/web"
	"template-checkout/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop payment gateway)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	stateRepo := red.NewCheckoutStateRepo(redisClient, cfg.Checkout.SessionTTL)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	orderRepo := pg.NewOrderRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient)
	contactRepo := pg.NewContactRepo(pool)
	ticketRepo := pg.NewCareTicketRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev {
		gateway = payment.NewNoopGateway()
		logger.Warn().Msg("payment gateway: noop (dev)")
	} else {
		gateway, err = payment.NewMonnifyGateway(
			cfg.Monnify.BaseURL,
			cfg.Monnify.APIKey,
			cfg.Monnify.SecretKey,
			cfg.Monnify.ContractCode,
			cfg.Monnify.Currency,
			cfg.Server.BaseURL+"/payments/callback",
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("monnify gateway")
		}
	}

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(planRepo)
	checkoutUC := usecase.NewCheckoutUseCase(stateRepo, planRepo, cfg.Checkout.DomainCostNGN, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, planRepo, checkoutUC, gateway, locker, cfg.Checkout.DomainCostNGN, cfg.Checkout.IdempotencyWindow, logger)
	verifyUC := usecase.NewVerifyUseCase(orderRepo, gateway, checkoutUC, logger)
	contactUC := usecase.NewContactUseCase(contactRepo, ticketRepo, txManager, logger)

	// ---- Public API server ----
	apiServer := api.NewServer(planUC, checkoutUC, orderUC, verifyUC, contactUC, cfg.Checkout.DomainCostNGN, cfg.Checkout.SessionTTL, logger)
	publicSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", publicSrv.Addr).Msg("public api listening")
		if err := publicSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public api server")
		}
	}()

	// ---- Admin server (metrics + operator API) ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", 30*time.Minute)
	adminServer := web.NewServer(orderRepo, planUC, auth, cfg.Admin.APIKey, logger)
	adminSrv := web.Run(fmt.Sprintf(":%d", cfg.Admin.Port), adminServer)
	go func() {
		logger.Info().Str("addr", adminSrv.Addr).Msg("admin api listening")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server")
		}
	}()

	// ---- Order reconciler ----
	reconciler := sched.NewOrderReconciler(verifyUC, orderRepo, cfg.Checkout.ReconcileInterval, cfg.Checkout.ReconcileStale, logger)
	go reconciler.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = publicSrv.Shutdown(shutdownCtx)
	_ = adminSrv.Shutdown(shutdownCtx)
}
