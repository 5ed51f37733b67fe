package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hhpro-max/lucky-lottery/internal/auth"
	"github.com/hhpro-max/lucky-lottery/internal/handler"
	adminhandler "github.com/hhpro-max/lucky-lottery/internal/handler/admin"
	"github.com/hhpro-max/lucky-lottery/internal/infra"
	"github.com/hhpro-max/lucky-lottery/internal/ledger"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/hhpro-max/lucky-lottery/internal/service"
	"github.com/hhpro-max/lucky-lottery/internal/settlement"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	playerExpiry, err := time.ParseDuration(cfg.JWTPlayerExpiry)
	if err != nil {
		return fmt.Errorf("parse player JWT expiry: %w", err)
	}
	adminExpiry, err := time.ParseDuration(cfg.JWTAdminExpiry)
	if err != nil {
		return fmt.Errorf("parse admin JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, playerExpiry, adminExpiry)

	// Repositories
	walletRepo := repository.NewWalletRepository()
	txRepo := repository.NewTransactionRepository()
	gameTypeRepo := repository.NewGameTypeRepository()
	drawRepo := repository.NewDrawRepository()
	ticketRepo := repository.NewTicketRepository()
	payoutRepo := repository.NewPayoutRepository()
	settingRepo := repository.NewSettingRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Ledger engine and orchestration
	ledgerEngine := ledger.NewEngine(walletRepo, txRepo, outboxRepo)
	settler := settlement.NewSettler(pool, drawRepo, ticketRepo, payoutRepo, outboxRepo, ledgerEngine, logger)

	// Services
	walletSvc := service.NewWalletService(pool, walletRepo, txRepo, ledgerEngine, logger)
	ticketSvc := service.NewTicketService(pool, drawRepo, gameTypeRepo, ticketRepo, settingRepo, outboxRepo, ledgerEngine, logger)
	payoutSvc := service.NewPayoutService(pool, payoutRepo)
	adminSvc := service.NewAdminService(pool, gameTypeRepo, drawRepo, settingRepo, logger)

	// Handlers
	walletHandler := handler.NewWalletHandler(walletSvc, pool)
	ticketHandler := handler.NewTicketHandler(ticketSvc, pool)
	payoutHandler := handler.NewPayoutHandler(payoutSvc)

	drawAdmin := adminhandler.NewDrawAdminHandler(adminSvc, payoutSvc, settler)
	gameTypeAdmin := adminhandler.NewGameTypeAdminHandler(adminSvc)
	settingAdmin := adminhandler.NewSettingAdminHandler(adminSvc)

	// Outbox poller
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	poller := infra.NewOutboxPoller(pool, outboxRepo, producer, logger)
	poller.Start(ctx)

	// Draw auto-close scheduler
	if cfg.SchedulerEnabled {
		scheduler, err := infra.NewDrawScheduler(cfg.SchedulerSpec, pool, drawRepo, settler, logger)
		if err != nil {
			return fmt.Errorf("create draw scheduler: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Router
	r := chi.NewRouter()

	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePlayer(jwtMgr))

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", walletHandler.GetWallet)
			r.Get("/transactions", walletHandler.GetTransactions)
			r.Post("/deposit", walletHandler.Deposit)
			r.Post("/withdraw", walletHandler.Withdraw)
		})

		r.Post("/tickets", ticketHandler.Purchase)
		r.Get("/tickets", ticketHandler.List)

		r.Get("/draws/{id}/result", ticketHandler.GetDrawResult)
		r.Get("/payouts", payoutHandler.List)
	})

	// Owner-or-admin reads: either realm authenticates, the service layer
	// enforces ownership for non-admins.
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateAnyRealm(jwtMgr))

		r.Get("/tickets/{id}", ticketHandler.Get)
		r.Get("/payouts/{id}", payoutHandler.Get)
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Route("/game-types", func(r chi.Router) {
			r.Get("/", gameTypeAdmin.List)
			r.Post("/", gameTypeAdmin.Create)
			r.Patch("/{id}", gameTypeAdmin.Update)
		})

		r.Route("/draws", func(r chi.Router) {
			r.Get("/", drawAdmin.List)
			r.Post("/", drawAdmin.Create)
			r.Get("/{id}", drawAdmin.Get)
			r.Patch("/{id}/close", drawAdmin.Close)
			r.Patch("/{id}/draw", drawAdmin.PublishResult)
			r.Post("/{id}/settle", drawAdmin.Settle)
			r.Get("/{id}/payouts", drawAdmin.ListPayouts)
		})

		r.With(auth.RequireRole(auth.RoleSuperAdmin)).Put("/settings/{key}", settingAdmin.Put)
	})

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
