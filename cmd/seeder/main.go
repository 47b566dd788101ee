// Command seeder loads demo records from a YAML fixture through the record
// services. It is intended to be run against development databases.
//
// Flags:
//
//	--dry-run        parse the fixture without writing to DB
//	--seeder-config  path to seeder YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	userrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/contracthub-backend/internal/app"
	"github.com/heartmarshall/contracthub-backend/internal/app/seeder"
	"github.com/heartmarshall/contracthub-backend/internal/config"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

func main() {
	dryRunFlag := flag.Bool("dry-run", false, "parse the fixture without writing to DB")
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}
	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}

	fx, err := seeder.LoadFixture(seederCfg.FixturePath)
	if err != nil {
		logger.Error("load fixture", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	actor, err := userrepo.New(pool).GetByUsername(ctx, seederCfg.ActorUsername)
	if err != nil {
		logger.Error("look up actor",
			slog.String("username", seederCfg.ActorUsername),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	ctx = ctxutil.WithUserID(ctx, actor.ID)
	ctx = ctxutil.WithUserRole(ctx, string(actor.Role))

	cols, err := app.NewCollections(appCfg, logger, pool)
	if err != nil {
		logger.Error("wire collections", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline := seeder.NewPipeline(logger, cols, seederCfg.DryRun)
	if err := pipeline.Run(ctx, fx); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		os.Exit(1)
	}
	logger.Info("pipeline completed successfully")
}
