package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kavacham/backend/internal/config"
	"github.com/kavacham/backend/internal/logging"
	"github.com/kavacham/backend/internal/repository"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending Postgres migrations, or create the Mongo indexes
  reset       drop all Postgres tables and re-apply every migration`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO", "json")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "" && cmd != "reset" {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch cfg.Store.Driver {
	case "postgres":
		runPostgres(ctx, cfg.Store.PostgresURL, cmd == "reset")
	default:
		if cmd == "reset" {
			logging.Fatal("reset is only supported for the postgres driver")
		}
		runMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	}
}

func runPostgres(ctx context.Context, url string, reset bool) {
	pool, err := repository.NewPool(ctx, url)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	if reset {
		slog.Info("dropping all tables")
		if err := repository.DropPostgres(ctx, pool); err != nil {
			logging.Fatal("drop all failed", "error", err)
		}
	}

	applied, err := repository.MigratePostgres(ctx, pool)
	if err != nil {
		logging.Fatal("migration failed", "error", err)
	}
	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

func runMongo(ctx context.Context, uri, database string) {
	m, err := repository.NewMongo(ctx, uri, database)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer func() { _ = m.Close(context.Background()) }()

	if err := m.EnsureIndexes(ctx); err != nil {
		logging.Fatal("create indexes failed", "error", err)
	}
	slog.Info("mongo indexes ensured", "database", database)
}
