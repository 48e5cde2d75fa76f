package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/clerksync/internal/cache"
	healthctrl "github.com/dropDatabas3/clerksync/internal/http/controllers/health"
	whctrl "github.com/dropDatabas3/clerksync/internal/http/controllers/webhook"
	"github.com/dropDatabas3/clerksync/internal/http/router"
	whsvc "github.com/dropDatabas3/clerksync/internal/http/services/webhook"
	"github.com/dropDatabas3/clerksync/internal/metrics"
	"github.com/dropDatabas3/clerksync/internal/observability/logger"
	"github.com/dropDatabas3/clerksync/internal/store"
	"github.com/dropDatabas3/clerksync/internal/store/core"
	"github.com/dropDatabas3/clerksync/internal/store/pg"
	"github.com/dropDatabas3/clerksync/internal/webhook"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP del webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			// Secret o DSN faltantes: error de configuración, fatal.
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       os.Getenv("LOG_LEVEL"),
				ServiceName: "clerksync",
			})
			defer func() { _ = logger.Sync() }()
			log := logger.Named("serve")

			if err := metrics.RegisterWebhook(nil); err != nil {
				return err
			}

			verifier, err := webhook.NewVerifier(cfg.Webhook.ClerkSecret, cfg.Webhook.Tolerance)
			if err != nil {
				return err
			}

			memTTL, _ := time.ParseDuration(cfg.Cache.Memory.DefaultTTL)
			replayCache, err := cache.New(cache.Config{
				Kind:       cfg.Cache.Kind,
				Addr:       cfg.Cache.Redis.Addr,
				DB:         cfg.Cache.Redis.DB,
				Prefix:     cfg.Cache.Redis.Prefix,
				DefaultTTL: memTTL,
			})
			if err != nil {
				// El cache de reentregas es opcional: sin él la idempotencia
				// queda a cargo del unique del store.
				log.Warn("replay cache disabled", logger.Err(err))
				replayCache = nil
			}

			// Handle perezoso: la conexión se abre en el primer request y
			// los requests concurrentes comparten el mismo intento.
			lazy := store.NewLazy(func(ctx context.Context) (core.Repository, error) {
				return pg.New(ctx, cfg.Storage.DSN, pg.Config{
					MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
					MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
					ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
				})
			})
			defer lazy.Close()

			mirror := whsvc.NewMirrorService(lazy, replayCache, cfg.Webhook.ReplayTTL)

			handler := router.New(router.Deps{
				Clerk:  whctrl.NewClerkController(verifier, mirror),
				Health: healthctrl.NewController(lazy),
			})

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("http server listening", logger.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
