package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"

	"github.com/jhoicas/invoicer/pkg/config"
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app
// (DATABASE_URL o DB_HOST, DB_PORT, etc.) y aplica las migraciones.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 8
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Registrar codec para NUMERIC/DECIMAL -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrar: %w", err)
	}
	return pool, nil
}

// Migrate crea el esquema si no existe. Idempotente.
func Migrate(ctx context.Context, q Querier) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS invoices (
		id           BIGSERIAL PRIMARY KEY,
		uid          UUID NOT NULL UNIQUE,
		kind         TEXT NOT NULL,
		number       TEXT NOT NULL DEFAULT '',
		issue_date   DATE NOT NULL,
		due_date     DATE NOT NULL,
		bill_to_name TEXT NOT NULL DEFAULT '',
		sender       JSONB NOT NULL,
		bill_to      JSONB NOT NULL,
		items        JSONB NOT NULL,
		timesheets   JSONB NOT NULL,
		tax_rate     NUMERIC(5,2) NOT NULL DEFAULT 0,
		subtotal     NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_total    NUMERIC(14,2) NOT NULL DEFAULT 0,
		grand_total  NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_invoices_bill_to_name ON invoices (bill_to_name);
	CREATE INDEX IF NOT EXISTS idx_invoices_kind_created ON invoices (kind, created_at);`
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
