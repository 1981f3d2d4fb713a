package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"invoice-link-backend/internal/config"
	handler "invoice-link-backend/internal/handlers"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/repository"
	"invoice-link-backend/internal/routes"
	"invoice-link-backend/internal/services/invoicing"
	"invoice-link-backend/internal/store"
	"invoice-link-backend/internal/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			store.NewStore,
			repository.NewInvoiceRepository,
			invoicing.NewInvoiceService,
			handler.NewInvoiceHandler,
			handler.NewSystemHandler,
			routes.NewHandlers,
			routes.NewRouter,
		),
		fx.Invoke(
			initValidator,
			setGinMode,
			startServer,
		),
	)

	app.Run()
}

func initValidator() {
	validator.NewValidator()
}

func setGinMode(cfg *config.Configuration) {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	s *store.Store,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server",
				"addr", srv.Addr,
				"backend_url", cfg.Server.BackendURL,
				"store_available", s.Available(),
			)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			if err := srv.Shutdown(ctx); err != nil {
				log.Errorw("server shutdown failed", "error", err)
			}
			if err := s.Close(); err != nil {
				log.Errorw("closing store failed", "error", err)
			}
			_ = log.Sync()
			return nil
		},
	})
}
