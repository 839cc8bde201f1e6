package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := server.NewLogger(cfg.Log, os.Stderr)

	if cfg.Store.Backend != common.BackendSQLite && cfg.Store.Backend != common.BackendPostgres {
		logger.Error("dbhealth needs a SQL backend", "backend", cfg.Store.Backend)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// OpenStore pings and ensures the schema.
	store, err := server.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("db health failed", "error", err)
		os.Exit(1)
	}
	defer store.Close(logger)

	n, err := store.SQL.Count(ctx)
	if err != nil {
		logger.Error("count entries", "error", err)
		os.Exit(1)
	}
	fmt.Printf("DB OK (%s): ledger_entries=%d\n", cfg.Store.Backend, n)
}
