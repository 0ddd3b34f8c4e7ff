package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskbox/api/handler"
	"github.com/fastygo/taskbox/internal/config"
	"github.com/fastygo/taskbox/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskbox/internal/infrastructure/redis"
	"github.com/fastygo/taskbox/internal/middleware"
	"github.com/fastygo/taskbox/internal/router"
	"github.com/fastygo/taskbox/internal/security"
	"github.com/fastygo/taskbox/internal/services/lifecycle"
	"github.com/fastygo/taskbox/pkg/httpcontext"
	"github.com/fastygo/taskbox/pkg/logger"
	"github.com/fastygo/taskbox/repository"
	redisRepo "github.com/fastygo/taskbox/repository/redis"
	accountUC "github.com/fastygo/taskbox/usecase/account"
	taskUC "github.com/fastygo/taskbox/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := openStore(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store initialization failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	manager.Register(store.Name, store.Close)

	probes := []monitor.Probe{{Name: store.Name, Check: store.Ping}}

	var revocations repository.RevocationRepository
	if cfg.Redis.URL != "" {
		redisClient, err := redisInfra.Connect(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		probes = append(probes, monitor.Probe{
			Name:  "redis",
			Check: redisInfra.Probe(redisClient),
		})
		if cfg.Revocation.Enabled {
			revocations = redisRepo.NewRevocationRepository(redisClient)
			zapLogger.Info("token revocation enabled")
		}
	}

	mon := monitor.New(probes, cfg.Monitor.Interval, zapLogger)
	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	hasher := security.NewPasswordHasher()

	accountUseCase := accountUC.New(store.Accounts, revocations, tokens, hasher, zapLogger)
	taskUseCase := taskUC.New(store.Tasks, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(accountUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(cfg.JWT.Header, tokens, revocations, zapLogger)
	opts := router.Options{
		EnableMetrics: cfg.HTTP.EnableMetrics,
		EnablePprof:   cfg.HTTP.EnablePprof,
	}
	r := router.New(handlers, authMiddleware, opts)

	server := &fasthttp.Server{
		Handler:      router.Handler(r, opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", store.Name))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
