// Command cleanup prunes change history older than the configured audit
// retention. Run it from an external scheduler.
//
// Usage:
//
//	cleanup [-dry-run]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/contracthub-backend/internal/app"
	"github.com/heartmarshall/contracthub-backend/internal/config"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report the cutoff without deleting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log).With("component", "cleanup")

	cutoff := time.Now().Add(-cfg.Audit.Retention)
	if *dryRun {
		logger.Info("dry run", slog.Time("cutoff", cutoff))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	deleted, err := audit.New(pool).DeleteBefore(ctx, cutoff)
	if err != nil {
		logger.Error("prune audit log failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		pool.Close()
		os.Exit(1)
	}

	logger.Info("audit log pruned",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff),
		slog.Bool("history_enabled", cfg.Audit.Enabled),
	)
}
