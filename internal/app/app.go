// Package app wires configuration, storage, services, and transport into
// a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fluentdeck/backend/internal/adapter/postgres"
	progressrepo "github.com/fluentdeck/backend/internal/adapter/postgres/progress"
	responserepo "github.com/fluentdeck/backend/internal/adapter/postgres/response"
	sessionrepo "github.com/fluentdeck/backend/internal/adapter/postgres/session"
	statsrepo "github.com/fluentdeck/backend/internal/adapter/postgres/stats"
	wordrepo "github.com/fluentdeck/backend/internal/adapter/postgres/word"
	"github.com/fluentdeck/backend/internal/auth"
	"github.com/fluentdeck/backend/internal/config"
	statssvc "github.com/fluentdeck/backend/internal/service/stats"
	studysvc "github.com/fluentdeck/backend/internal/service/study"
	"github.com/fluentdeck/backend/internal/transport/middleware"
	"github.com/fluentdeck/backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, assembles services and the HTTP server, and blocks until
// the context is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	words := wordrepo.New(pool)
	progress := progressrepo.New(pool)
	sessions := sessionrepo.New(pool)
	responses := responserepo.New(pool)
	stats := statsrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	statsService, err := statssvc.NewService(logger, stats, progress, words, sessions, txManager, cfg.Stats)
	if err != nil {
		return fmt.Errorf("create stats service: %w", err)
	}
	studyService := studysvc.NewService(logger, words, progress, sessions, responses, statsService, txManager, cfg.SRS)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	router := rest.NewRouter(
		rest.NewHealthHandler(pool, BuildVersion()),
		rest.NewStudyHandler(studyService, logger),
		rest.NewStatsHandler(statsService, logger),
		middleware.Auth(jwtManager),
	)

	chain := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		chain = append(chain, limiter.Limit(cfg.Server.RateLimitPerMinute))
	}
	handler := middleware.Chain(chain...)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
