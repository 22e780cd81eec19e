package main

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/excellense/api/internal/core/ports"
	"github.com/excellense/api/internal/core/service"
	"github.com/excellense/api/internal/infrastructure/db/mongo"
	"github.com/excellense/api/internal/infrastructure/db/redis"
	"github.com/excellense/api/internal/infrastructure/queue"
	"github.com/excellense/api/internal/pkg/config"
	"github.com/excellense/api/pkg/logger"
)

const serviceName = "excellense-api"

// app holds the stores and services shared by every command.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	mongo *gomongo.Client
	redis *goredis.Client

	users      *mongo.UserRepository
	audit      ports.AuditService
	dispatcher *queue.Dispatcher
	userSvc    *service.UserService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
		Env:     cfg.Env,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	a := &app{
		cfg:   cfg,
		log:   log,
		mongo: client,
		users: mongo.NewUserRepository(db),
		audit: service.NewAuditService(mongo.NewAuditRepository(db)),
	}
	a.dispatcher = queue.NewDispatcher(cfg.Audit.Workers, a.audit, log)
	a.dispatcher.Start()
	a.userSvc = service.NewUserService(a.users, a.dispatcher, cfg.BcryptCost, log)
	return a, nil
}

// connectRedis is only needed by the server; the seed command runs without it.
func (a *app) connectRedis(ctx context.Context) error {
	client, err := redis.Connect(ctx, redis.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	a.redis = client
	a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("connected to Redis")
	return nil
}

// close drains pending audit events before dropping connections.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if err := a.dispatcher.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("audit dispatcher: %w", err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mongo: %w", err))
	}
	return errors.Join(errs...)
}
