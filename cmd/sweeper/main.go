// Command sweeper abandons study sessions whose last activity is older
// than the configured staleness threshold. It is intended to be invoked
// by an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/fluentdeck/backend/internal/adapter/postgres"
	progressrepo "github.com/fluentdeck/backend/internal/adapter/postgres/progress"
	responserepo "github.com/fluentdeck/backend/internal/adapter/postgres/response"
	sessionrepo "github.com/fluentdeck/backend/internal/adapter/postgres/session"
	statsrepo "github.com/fluentdeck/backend/internal/adapter/postgres/stats"
	wordrepo "github.com/fluentdeck/backend/internal/adapter/postgres/word"
	"github.com/fluentdeck/backend/internal/app"
	"github.com/fluentdeck/backend/internal/config"
	statssvc "github.com/fluentdeck/backend/internal/service/stats"
	studysvc "github.com/fluentdeck/backend/internal/service/study"
)

const sweepBatchLimit = 500

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
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
		logger.Error("create stats service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	studyService := studysvc.NewService(logger, words, progress, sessions, responses, statsService, txManager, cfg.SRS)

	closed, err := studyService.SweepStaleSessions(ctx, cfg.Stats.SessionStaleAfter, sweepBatchLimit)
	if err != nil {
		logger.Error("sweep failed",
			slog.String("error", err.Error()),
			slog.Duration("stale_after", cfg.Stats.SessionStaleAfter),
		)
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("closed", closed),
		slog.Duration("stale_after", cfg.Stats.SessionStaleAfter),
	)
}
