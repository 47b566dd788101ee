// Command server runs the contracthub HTTP API: REST under /api, GraphQL at
// /query and the change feed at /ws.
//
// Configuration comes from the environment (see internal/config). The
// process exits 0 after a graceful shutdown on SIGINT or SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/contracthub-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
