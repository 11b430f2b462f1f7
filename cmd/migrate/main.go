// Command migrate applies the embedded goose migrations to DATABASE_URL.
// Usage: migrate [up|down|status|version|reset] (default up).
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/randomtoy/chess-scoresheet/internal/config"
	"github.com/randomtoy/chess-scoresheet/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		logger.Fatal("ping db", zap.Error(err))
	}

	if err := db.Migrate(ctx, conn, cmd); err != nil {
		logger.Fatal("migrate", zap.String("command", cmd), zap.Error(err))
	}
	logger.Info("migrations done", zap.String("command", cmd))
}
