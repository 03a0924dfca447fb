package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpadp "sinfopers/internal/adapter/http"
	"sinfopers/internal/app"
	"sinfopers/internal/domain/identity"
	"sinfopers/internal/infrastructure/auth"
	"sinfopers/internal/infrastructure/cache"
	"sinfopers/internal/infrastructure/scheduler"
	"sinfopers/internal/infrastructure/storage"
	"sinfopers/internal/logger"

	"github.com/spf13/cobra"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "auto-migrate", false, "migrate and seed reference data before serving")
	return cmd
}

func (rt *runtime) serve(ctx context.Context, migrate bool) error {
	log := logger.WithComponent("server")
	cfg := rt.cfg

	gdb, closeDB, err := rt.database()
	if err != nil {
		return err
	}
	defer closeDB()
	if migrate {
		if err := migrateAndSeed(ctx, gdb, true); err != nil {
			return err
		}
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	docs, err := storage.NewDocuments(cfg.DocumentsDir, cfg.MaxDocumentBytes)
	if err != nil {
		return err
	}
	enf, err := auth.NewEnforcer(identity.Policy)
	if err != nil {
		return err
	}

	svcs := app.NewServices(gdb, app.Options{LeaveEntitlement: cfg.LeaveEntitlement})
	redisCheck := httpadp.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }}
	e := app.NewEcho(svcs.Handlers(docs, redisCheck), httpadp.RouteConfig{
		Verifier:       auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL()),
		Authz:          enf,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SweepInterval > 0 {
		sched, err := scheduler.NewManager()
		if err != nil {
			return err
		}
		if err := sched.RegisterExpirySweep(svcs.Workflow, cfg.SweepInterval); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Error("scheduler shutdown", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort("", cfg.AppPort),
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
