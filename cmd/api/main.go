package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"medadmit/internal/config"
	"medadmit/internal/database"
	"medadmit/internal/httpapi"
	"medadmit/internal/logging"
	"medadmit/internal/ratelimit"
	"medadmit/internal/services"
	"medadmit/internal/session"
	"medadmit/internal/store"
	"medadmit/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logging.Setup(cfg.App.LogLevel, cfg.App.IsProduction(), os.Stdout)
	log := logging.For("api")

	log.Infof("Starting %s v%s", cfg.App.Name, cfg.App.Version)
	log.Infof("Environment: env=%s, port=%s, host=%s", cfg.App.Env, cfg.App.Port, cfg.App.Host)

	// Initialize database
	log.Info("Initializing database connection...")
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		log.Info("Closing database connections...")
		if err := database.Close(db); err != nil {
			log.Errorf("Error closing database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer closeSessions()

	// Create service instances
	log.Info("Initializing services...")
	stores := store.New(db)
	emailSvc := services.NewEmailService(&cfg.Email)
	forms := services.NewForms(stores, services.NewEmailNotifier(emailSvc, cfg.Email.NotifyEmail))
	signer := util.NewTokenSigner(cfg.Session.Secret, cfg.Session.TTL)

	deps := httpapi.Deps{
		Config: cfg,
		Forms:  forms,
		Auth:   services.NewAuthService(cfg.Admin, sessions, signer, stores.Audit),
		Admin:  services.NewAdminService(stores, cfg.Dashboard.RecentLimit),
		Blogs:  services.NewBlogService(stores.Blogs, stores.Audit),
		Health: services.NewHealthService(db, stores, cfg.App.Name, cfg.App.Version, !cfg.App.IsProduction()),
	}
	if cfg.App.IsProduction() {
		deps.Limiter = ratelimit.New(cfg.RateLimit.Max, cfg.RateLimit.Window)
		log.Infof("Rate limiting /api: max=%d, window=%s", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	if cfg.Admin.PasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}

	go sweep(ctx, deps.Limiter, sessions)

	// Create HTTP server with timeouts
	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewServer(deps).Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     stdlog.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server failed to start: %v", err)
	case <-ctx.Done():
		log.Info("Received shutdown signal. Starting graceful shutdown...")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error during graceful shutdown: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Shutdown timeout exceeded, forcing close...")
			_ = httpServer.Close()
		}
	}

	forms.Wait()
	log.Info("Server shutdown complete")
}

// newSessionStore returns the configured session store and its cleanup func
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func(), error) {
	if cfg.Store == config.SessionStoreRedis {
		rs, err := session.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	}
	return session.NewMemoryStore(), func() {}, nil
}

// sweep drops idle rate limiter keys and expired in-memory sessions
func sweep(ctx context.Context, limiter *ratelimit.SlidingWindow, sessions session.Store) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	memory, _ := sessions.(*session.MemoryStore)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if limiter != nil {
				limiter.Sweep()
			}
			if memory != nil {
				memory.Sweep()
			}
		}
	}
}
