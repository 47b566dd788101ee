// Command promote sets a user's role. It bootstraps the first admin, after
// which roles are managed through the admin API.
//
// Usage:
//
//	promote --username=alice [--role=admin]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	userrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/contracthub-backend/internal/app"
	"github.com/heartmarshall/contracthub-backend/internal/config"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

func main() {
	username := flag.String("username", "", "username of the user to update")
	role := flag.String("role", string(domain.UserRoleAdmin), "role to assign (user or admin)")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --username=alice [--role=admin]")
		os.Exit(2)
	}
	target := domain.UserRole(*role)
	if !target.IsValid() {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log).With("component", "promote")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	u, err := users.GetByUsername(ctx, *username)
	if err != nil {
		logger.Error("look up user", slog.String("username", *username), slog.String("error", err.Error()))
		pool.Close()
		os.Exit(1)
	}
	if u.Role == target {
		logger.Info("role unchanged", slog.String("username", u.Username), slog.String("role", string(target)))
		return
	}

	if _, err := users.UpdateRole(ctx, u.ID, target); err != nil {
		logger.Error("update role", slog.String("error", err.Error()))
		pool.Close()
		os.Exit(1)
	}
	logger.Info("role updated",
		slog.String("username", u.Username),
		slog.String("from", string(u.Role)),
		slog.String("to", string(target)),
	)
}
