package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/config"
	"github.com/mmynk/daotreasury/internal/deploy"
	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/internal/metrics"
	"github.com/mmynk/daotreasury/internal/service"
	"github.com/mmynk/daotreasury/internal/storage/sqlite"
	"github.com/mmynk/daotreasury/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("Using the default JWT secret, set JWT_SECRET outside local development")
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	deployer, err := cfg.Deployer()
	if err != nil {
		return err
	}
	tokenTTL, err := cfg.TokenTTL()
	if err != nil {
		return err
	}
	challengeTTL, err := cfg.ChallengeTTL()
	if err != nil {
		return err
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Server.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deployment, err := deploy.Ensure(ctx, store, deployer, time.Now(), logger)
	if err != nil {
		return err
	}

	treasury, err := governance.New(policy,
		governance.WithJournal(store),
		governance.WithDeployment(deployment),
		governance.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	events, err := store.ListEvents(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if err := treasury.Restore(events); err != nil {
		return err
	}

	if cfg.Frontend.Update {
		if err := deploy.WriteFrontendFiles(cfg.Frontend.Dir, deployment.Address, logger); err != nil {
			return err
		}
	}

	m := metrics.New()
	m.SetBalance(treasury.TotalBalance())

	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Treasury:      treasury,
		Authenticator: auth.NewWalletAuthenticator(store, challengeTTL),
		JWTManager:    auth.NewJWTManager(cfg.Auth.JWTSecret, tokenTTL),
		Metrics:       m,
		Logger:        logger,
	})
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(logger, corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting",
			"address", addr,
			"url", fmt.Sprintf("http://localhost%s", addr),
			"treasury", deployment.Address.Hex(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, X-Request-Id")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
