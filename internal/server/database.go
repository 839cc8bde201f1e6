package server

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
	repo "github.com/joseph-ayodele/facility-ledger/internal/repository"
)

// Store is the opened ledger repository and whatever must be closed with it.
type Store struct {
	Repo    ledger.Repository
	Backend string

	// SQL is set for the sqlite and postgres backends.
	SQL *repo.SQLRepository

	db   *sql.DB
	pool *pgxpool.Pool
}

// OpenStore opens the repository selected by cfg.Store.Backend. SQL backends
// are pinged and have their schema ensured before returning.
func OpenStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{Backend: cfg.Store.Backend}

	switch cfg.Store.Backend {
	case common.BackendMemory:
		s.Repo = repo.NewMemoryRepository()

	case common.BackendSQLite:
		db, err := repo.OpenSQLite(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.SQL = repo.NewSQLRepository(db, dialect.SQLite, logger)

	case common.BackendPostgres:
		db, pool, err := repo.OpenPostgres(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		s.db, s.pool = db, pool
		s.SQL = repo.NewSQLRepository(db, dialect.Postgres, logger)

	case common.BackendDynamoDB:
		client, err := repo.NewDynamoClient(ctx, cfg.Dynamo)
		if err != nil {
			logger.Error("failed to build dynamodb client", "error", err)
			return nil, err
		}
		s.Repo = repo.NewDynamoRepository(client, cfg.Dynamo.Table, logger)

	default:
		return nil, common.NewAppError("CONFIG_ERROR", "unknown STORE_BACKEND "+cfg.Store.Backend, common.ErrInvalidInput)
	}

	if s.SQL != nil {
		if err := PingDB(ctx, s.db, logger, 5*time.Second); err != nil {
			s.Close(logger)
			return nil, err
		}
		if err := s.SQL.EnsureSchema(ctx); err != nil {
			s.Close(logger)
			return nil, err
		}
		s.Repo = s.SQL
	}

	logger.Info("ledger store ready", "backend", s.Backend)
	return s, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *sql.DB, logger *slog.Logger, timeout time.Duration) error {
	logger.Debug("pinging database")
	err := repo.HealthCheck(ctx, db, timeout, logger)
	if err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

// Close closes the database connections gracefully
func (s *Store) Close(logger *slog.Logger) {
	if s == nil || (s.db == nil && s.pool == nil) {
		return
	}
	repo.Close(s.db, s.pool, logger)
}
