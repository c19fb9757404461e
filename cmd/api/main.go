package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"inquirydesk/internal/classify"
	"inquirydesk/internal/config"
	"inquirydesk/internal/database"
	"inquirydesk/internal/logging"
	"inquirydesk/internal/metrics"
	"inquirydesk/internal/server"
	"inquirydesk/internal/services"
	"inquirydesk/internal/session"
	"inquirydesk/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	statsInterval   = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format).Named("api")
	defer func() { _ = log.Sync() }()

	// Validate critical configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatal("configuration validation failed", zap.Error(err))
	}

	log.Info("starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("host", cfg.App.Host),
		zap.String("port", cfg.App.Port))

	// Initialize database
	db, err := database.Open(cfg.Database, log.Named("database"))
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		log.Info("closing database connections")
		if err := database.Close(db); err != nil {
			log.Warn("error closing database", zap.Error(err))
		}
	}()

	ctx := context.Background()

	revoker, closeRevoker := newRevoker(ctx, cfg.Redis, log)
	defer closeRevoker()

	classifier, err := classify.New(ctx, cfg.Classifier, log.Named("classify"))
	if err != nil {
		log.Fatal("failed to initialize classifier", zap.Error(err))
	}
	notifier, err := services.NewNotifier(ctx, &cfg.Email, log.Named("email"))
	if err != nil {
		log.Fatal("failed to initialize email", zap.Error(err))
	}
	log.Info("services configured",
		zap.String("classifier", classifier.Name()),
		zap.String("email_provider", cfg.Email.Provider),
		zap.Bool("email_enabled", cfg.Email.Enabled))

	// Create service instances
	tokens := util.NewTokenManager(cfg.Auth)
	healthSvc := services.NewHealthService(db, cfg.App.Name, log)
	authSvc := services.NewAuthService(db, tokens, revoker, log)
	inquirySvc := services.NewInquiryService(db, classifier, notifier, log)

	endpoints := server.NewEndpoints(inquirySvc, authSvc, healthSvc)
	handler := server.NewHandler(cfg, endpoints, log)

	// Create HTTP server with timeouts
	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(log.Named("http")),
	}

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go reportDBStats(statsCtx, db, log)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("server failed", zap.Error(err))
		return
	case sig := <-shutdown:
		log.Info("starting graceful shutdown", zap.Stringer("signal", sig))
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("error during graceful shutdown", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("shutdown timeout exceeded, forcing close")
			_ = httpServer.Close()
		}
	}

	// Let queued customer emails go out before the database closes.
	inquirySvc.Wait()
	log.Info("server shutdown complete")
}

// newRevoker returns the Redis backed revocation list when REDIS_ADDR is
// set and reachable, and an in-process one otherwise.
func newRevoker(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (session.Revoker, func()) {
	if cfg.Address == "" {
		log.Info("token revocation kept in memory")
		return session.NewMemoryRevoker(), func() {}
	}

	rdb := database.NewRedis(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, token revocation kept in memory", zap.Error(err))
		_ = rdb.Close()
		return session.NewMemoryRevoker(), func() {}
	}

	log.Info("token revocation backed by redis", zap.String("addr", cfg.Address))
	return session.NewRedisRevoker(rdb.Client), func() {
		if err := rdb.Close(); err != nil {
			log.Warn("error closing redis", zap.Error(err))
		}
	}
}

// reportDBStats feeds the connection pool gauges until ctx is done.
func reportDBStats(ctx context.Context, db *gorm.DB, log *zap.Logger) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := database.GetStats(db)
			if err != nil {
				log.Debug("db stats unavailable", zap.Error(err))
				continue
			}
			metrics.UpdateDBConnections(stats.InUse, stats.Idle)
		}
	}
}

// validateConfig validates critical configuration values
func validateConfig(cfg *config.Config) error {
	if cfg.Auth.SecretKey == "" || cfg.Auth.SecretKey == "your-secret-key-change-in-production" {
		if !cfg.App.Debug {
			return fmt.Errorf("SECRET_KEY must be set and changed from default value")
		}
	}
	if len(cfg.Auth.SecretKey) < 32 && !cfg.App.Debug {
		return fmt.Errorf("SECRET_KEY must be at least 32 characters for security")
	}
	if cfg.App.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	return nil
}
