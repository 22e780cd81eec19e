package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/excellense/api/internal/api"
	"github.com/excellense/api/internal/core/service"
	"github.com/excellense/api/internal/infrastructure/db/mongo"
	"github.com/excellense/api/internal/infrastructure/db/redis"
	"github.com/excellense/api/internal/infrastructure/http/handlers"
)

const shutdownTimeout = 15 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.close(closeCtx); err != nil {
			a.log.Error().Err(err).Msg("shutdown incomplete")
		}
	}()

	if err := a.connectRedis(ctx); err != nil {
		return err
	}

	if sa := a.cfg.SuperAdmin; sa.Enabled() {
		created, err := a.userSvc.SeedSuperAdmin(ctx, sa.Username, sa.Email, sa.Password)
		if err != nil {
			return err
		}
		a.log.Info().Bool("created", created).Msg("superadmin seed checked")
	}

	db := a.mongo.Database(a.cfg.Mongo.Database)
	tokens := service.NewTokenService(a.cfg.JWTSecret, a.cfg.TokenTTL)
	throttle := redis.NewLoginThrottle(a.redis, a.cfg.Login.MaxAttempts, a.cfg.Login.LockoutWindow)

	e := api.NewRouter(api.Dependencies{
		Log:    a.log,
		Tokens: tokens,
		Auth:   service.NewAuthService(a.users, tokens, throttle, a.cfg.BcryptCost, a.log),
		Requests: service.NewAdminRequestService(
			mongo.NewAdminRequestRepository(db), a.users, a.dispatcher,
			a.cfg.AdminPassKey, a.cfg.BcryptCost, a.log,
		),
		Users:    a.userSvc,
		Analyses: service.NewAnalysisService(mongo.NewAnalysisRepository(db), a.log),
		Audit:    a.audit,
		HealthChecks: map[string]handlers.Pinger{
			"mongo": mongo.Pinger{Client: a.mongo},
			"redis": redis.Pinger{Client: a.redis},
		},
		CORSOrigins: a.cfg.CORSAllowOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("server listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info().Msg("shutdown complete")
	return nil
}
