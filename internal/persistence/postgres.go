package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
)

// Conn is the subset of a Postgres connection used by repositories and
// migrations. Both *pgx.Conn and *pgxpool.Conn satisfy it.
type Conn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Connector hands out a connection scoped to a single operation. The returned
// release func must be called exactly once, on every exit path.
type Connector interface {
	Acquire(ctx context.Context) (Conn, func(), error)
}

// Database is a Connector with lifecycle hooks.
type Database interface {
	Connector
	Ping(ctx context.Context) error
	Close()
}

// NewDatabase returns a per-call Dialer, or a pooled Postgres when UsePool is set.
func NewDatabase(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (Database, error) {
	if cfg.UsePool {
		return NewPostgres(ctx, cfg, logger)
	}
	dialer, err := NewDialer(cfg)
	if err != nil {
		return nil, err
	}
	if err := dialer.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info("postgres reachable", zap.String("mode", "per-call"))
	return dialer, nil
}

// Dialer opens a fresh connection for every Acquire and closes it on release.
type Dialer struct {
	connConfig *pgx.ConnConfig
}

// NewDialer parses the connection settings once.
func NewDialer(cfg config.PostgresConfig) (*Dialer, error) {
	connConfig, err := pgx.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	return &Dialer{connConfig: connConfig}, nil
}

// Acquire connects to Postgres.
func (d *Dialer) Acquire(ctx context.Context) (Conn, func(), error) {
	conn, err := pgx.ConnectConfig(ctx, d.connConfig.Copy())
	if err != nil {
		return nil, nil, err
	}
	// Close must not depend on the caller's context, which may already be done.
	release := func() { _ = conn.Close(context.Background()) }
	return conn, release, nil
}

// Ping opens a connection, pings and closes it.
func (d *Dialer) Ping(ctx context.Context) error {
	conn, release, err := d.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return conn.Ping(ctx)
}

// Close is a no-op; a Dialer holds no connections between calls.
func (d *Dialer) Close() {}

// Postgres wraps access to a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres", zap.String("mode", "pool"), zap.Int32("max_conns", poolCfg.MaxConns))
	return &Postgres{Pool: pool}, nil
}

// Acquire checks a connection out of the pool; release returns it.
func (p *Postgres) Acquire(ctx context.Context) (Conn, func(), error) {
	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Release, nil
}

// Ping verifies pool connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
