package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// coreColumns are the columns of the coreness table, in CopyFrom order.
var coreColumns = []string{"run_id", "vertex_id", "host", "label", "degree", "core"}

// PGSink stores per-host coreness rows in PostgreSQL.
type PGSink struct {
	pool  *pgxpool.Pool
	table pgx.Identifier
}

// NewPGSink connects to databaseURL and creates the table if it is missing.
func NewPGSink(ctx context.Context, databaseURL, table string) (*PGSink, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGSink{pool: pool, table: pgx.Identifier{table}}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

func (s *PGSink) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createTableSQL(s.table))
	return err
}

func createTableSQL(table pgx.Identifier) string {
	name := table.Sanitize()
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		run_id TEXT NOT NULL,
		vertex_id BIGINT NOT NULL,
		host TEXT NOT NULL,
		label TEXT NOT NULL,
		degree BIGINT NOT NULL,
		core BIGINT NOT NULL,
		PRIMARY KEY (run_id, vertex_id)
	);

	CREATE INDEX IF NOT EXISTS %s ON %s(run_id, core DESC);
	`, name, pgx.Identifier{table[len(table)-1] + "_core_idx"}.Sanitize(), name)
}

// Write copies one row per host and returns the number of rows stored.
func (s *PGSink) Write(ctx context.Context, ds Dataset) (int64, error) {
	n, err := s.pool.CopyFrom(ctx, s.table, coreColumns, pgx.CopyFromRows(CoreRows(ds)))
	if err != nil {
		return n, fmt.Errorf("failed to copy coreness rows: %w", err)
	}
	return n, nil
}

// Close closes the connection pool
func (s *PGSink) Close() error {
	s.pool.Close()
	return nil
}

// CoreRows returns the rows Write copies, in vertex id order.
func CoreRows(ds Dataset) [][]any {
	g := ds.Graph
	rows := make([][]any, g.NumVertices())
	for v := range rows {
		rows[v] = []any{
			ds.RunID,
			int64(v),
			g.Key(v),
			g.Label(v),
			int64(g.Degree(v)),
			int64(ds.Coreness[v]),
		}
	}
	return rows
}
