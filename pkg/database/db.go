package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Config struct {
	Path    string
	Timeout time.Duration
}

// ConfigFromEnv reads storage config from environment variables.
func ConfigFromEnv() Config {
	path := os.Getenv("GRAFICA_DB_PATH")
	if path == "" {
		// default local file, relative to the working directory
		path = filepath.Join("database", "grafica.db")
	}
	return Config{Path: path, Timeout: 5 * time.Second}
}

// Store wraps the embedded SQLite file and offers generic statement execution.
type Store struct {
	db     *sqlx.DB
	logger *zap.SugaredLogger
}

// Connect opens the SQLite file, creating the containing directory if missing,
// and verifies connectivity with a ping.
func Connect(cfg Config, logger *zap.SugaredLogger) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite permits a single writer; serializing access through one
	// connection avoids SQLITE_BUSY between statements of the same process.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	logger.Infow("storage opened", "path", cfg.Path)
	return &Store{db: db, logger: logger}, nil
}

// NewStore wraps an already-open handle. Used by tests and by callers that
// manage the connection themselves.
func NewStore(db *sqlx.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// DB exposes the underlying handle for typed repositories.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Run executes a single statement. Row-producing statements return the rows as
// column-name→value maps in result order; mutating statements return nil and
// the affected-row count is only logged. Storage errors always propagate.
func (s *Store) Run(ctx context.Context, statement string, params ...any) ([]map[string]any, error) {
	if isRowProducing(statement) {
		rows, err := s.db.QueryxContext(ctx, statement, params...)
		if err != nil {
			return nil, fmt.Errorf("run query: %w", err)
		}
		defer rows.Close()

		var out []map[string]any
		for rows.Next() {
			row := map[string]any{}
			if err := rows.MapScan(row); err != nil {
				return nil, fmt.Errorf("scan row: %w", err)
			}
			out = append(out, row)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate rows: %w", err)
		}
		s.logger.Debugw("statement executed", "rows", len(out))
		return out, nil
	}

	res, err := s.db.ExecContext(ctx, statement, params...)
	if err != nil {
		return nil, fmt.Errorf("run exec: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil {
		s.logger.Debugw("statement executed", "affected", affected)
	}
	return nil, nil
}

// RunBatch executes the same statement once per parameter set within a single
// transaction. The first failure rolls everything back.
func (s *Store) RunBatch(ctx context.Context, statement string, paramSets [][]any) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, params := range paramSets {
		if _, err := tx.ExecContext(ctx, statement, params...); err != nil {
			tx.Rollback()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	s.logger.Debugw("batch executed", "sets", len(paramSets))
	return nil
}

func isRowProducing(statement string) bool {
	head := strings.ToUpper(strings.TrimSpace(statement))
	return strings.HasPrefix(head, "SELECT") ||
		strings.HasPrefix(head, "WITH") ||
		strings.HasPrefix(head, "PRAGMA")
}
