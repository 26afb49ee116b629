package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"call-tracker/internal/audit"
	"call-tracker/internal/config"
	"call-tracker/internal/httpapi"
	"call-tracker/internal/records"
	"call-tracker/pkg/logger"
	"call-tracker/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	exportCapKey = "call-tracker:export:inflight"
	exportCapTTL = 5 * time.Minute
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenDB(rootCtx, utils.DBConfig{
		Driver: cfg.DB.Driver,
		Path:   cfg.DB.Path,
		DSN:    cfg.DB.URL,
		Debug:  cfg.DebugSQL(),
	})
	if err != nil {
		log.Error("database init failed", "driver", cfg.DB.Driver, "err", err)
		os.Exit(1)
	}
	repo := records.NewBunRepository(db)
	if err := repo.InitSchema(rootCtx); err != nil {
		log.Error("schema init failed", "err", err)
		_ = db.Close()
		os.Exit(1)
	}
	log.Info("database ready", "driver", cfg.DB.Driver, "path", cfg.DB.Path)

	var rdb *redis.Client
	var exports httpapi.Limiter
	if cfg.Redis.Addr != "" {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			_ = db.Close()
			os.Exit(1)
		}
		exports, err = utils.NewRedisCap(rdb, exportCapKey, cfg.Export.MaxConcurrent, exportCapTTL)
	} else {
		exports, err = utils.NewLocalCap(cfg.Export.MaxConcurrent)
	}
	if err != nil {
		log.Error("export cap init failed", "err", err)
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = db.Close()
		os.Exit(1)
	}

	// Record events flow through an in-process pub/sub; the subscriber logs them.
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(log))
	auditSvc := audit.NewService(pubsub)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		ctx := logger.With(rootCtx, log.With("component", "audit"))
		err := audit.Consume(ctx, pubsub, func(ctx context.Context, e audit.Event) {
			logger.From(ctx).Info("record event", "type", e.Type, "record_id", e.RecordID, "event_id", e.ID)
		})
		if err != nil {
			log.Error("audit consumer stopped", "err", err)
		}
	}()

	h := httpapi.Handlers{
		Records: records.NewService(repo, auditSvc),
		Exports: exports,
	}
	r := newRouter(log, cfg, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	if err := pubsub.Close(); err != nil {
		log.Error("pubsub close failed", "err", err)
	}
	<-consumerDone
	if err := db.Close(); err != nil {
		log.Error("database close failed", "err", err)
	} else {
		log.Info("database connection closed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
