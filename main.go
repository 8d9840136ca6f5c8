// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julisha-ke/julisha-api/cliparse"
	"github.com/julisha-ke/julisha-api/db"
	"github.com/julisha-ke/julisha-api/metrics"
	"github.com/julisha-ke/julisha-api/middleware"
	"github.com/julisha-ke/julisha-api/ratelimit"
	"github.com/julisha-ke/julisha-api/router"
	"github.com/julisha-ke/julisha-api/sms"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg cliparse.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	var limiter ratelimit.Limiter
	switch cfg.RateLimitBackend {
	case cliparse.LimiterRedis:
		redisLimiter, err := ratelimit.NewRedisLimiter(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
	default:
		limiter = ratelimit.NewSQLLimiter(dbConn)
	}
	slog.Info("Rate limiter ready", "backend", cfg.RateLimitBackend)

	var sender sms.Sender = sms.LogSender{}
	if cfg.SMSMode == cliparse.SMSModeNATS {
		conn, err := sms.Connect(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer conn.Drain()
		sender = sms.NewNATSSender(conn)
	} else {
		slog.Warn("demo mode: verification codes are returned to the client, do not use in production")
	}

	mux := router.NewRouter(dbConn, cfg, limiter, sender, metrics.New())

	server := &http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(cfg cliparse.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
