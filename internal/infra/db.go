package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/sqlinline"
)

// Pool wraps pgxpool with the deployment tier's sizing profile. Checkout is
// bounded by the profile's acquire timeout; stale connections are recycled by
// pgxpool once they pass the recycle age.
type Pool struct {
	pool    *pgxpool.Pool
	profile PoolProfile
	appEnv  string
	log     zerolog.Logger
}

// PoolStatus is a point-in-time snapshot of pool utilization.
type PoolStatus struct {
	CheckedIn   int32  `json:"checked_in"`
	CheckedOut  int32  `json:"checked_out"`
	Overflow    int32  `json:"overflow"`
	MaxConns    int32  `json:"max_connections"`
	Environment string `json:"environment"`
}

// NewPoolStatus derives the overflow count from live connection totals.
func NewPoolStatus(idle, inUse, base, max int32) PoolStatus {
	overflow := idle + inUse - base
	if overflow < 0 {
		overflow = 0
	}
	return PoolStatus{
		CheckedIn:  idle,
		CheckedOut: inUse,
		Overflow:   overflow,
		MaxConns:   max,
	}
}

// UtilizationPct returns checked-out connections as a percentage of the ceiling.
func (s PoolStatus) UtilizationPct() float64 {
	if s.MaxConns == 0 {
		return 0
	}
	return float64(s.CheckedOut) / float64(s.MaxConns) * 100
}

// NewPool initializes the pgx connection pool from the environment profile and
// verifies connectivity. A failure here is fatal to startup and must be
// surfaced by the caller.
func NewPool(ctx context.Context, cfg *Config, log zerolog.Logger) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	profile := cfg.Pool

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MinConns = profile.BaseSize
	poolCfg.MaxConns = profile.MaxConns()
	poolCfg.MaxConnLifetime = profile.RecycleAge
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	if profile.PrePing {
		poolCfg.HealthCheckPeriod = time.Minute
	}
	poolCfg.ConnConfig.ConnectTimeout = 10 * time.Second
	if poolCfg.ConnConfig.RuntimeParams == nil {
		poolCfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = profile.AppName

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Str("environment", cfg.AppEnv).
		Int32("base_size", profile.BaseSize).
		Int32("max_overflow", profile.MaxOverflow).
		Dur("acquire_timeout", profile.AcquireTimeout).
		Dur("recycle_age", profile.RecycleAge).
		Bool("pre_ping", profile.PrePing).
		Msg("connection pool initialized")

	return &Pool{pool: pool, profile: profile, appEnv: cfg.AppEnv, log: log}, nil
}

// Acquire checks out one connection, waiting at most the profile's acquire
// timeout. Exhaustion maps to domain.ErrPoolExhausted, anything else to
// domain.ErrConnection. The pre-ping probe runs before the connection is
// handed out.
func (p *Pool) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx, cancel := context.WithTimeout(ctx, p.profile.AcquireTimeout)
	defer cancel()

	conn, err := p.pool.Acquire(actx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("checkout timed out after %s: %w", p.profile.AcquireTimeout, domain.ErrPoolExhausted)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}

	if p.profile.PrePing {
		if err := conn.Ping(ctx); err != nil {
			conn.Release()
			return nil, fmt.Errorf("%w: pre-ping: %v", domain.ErrConnection, err)
		}
	}
	return conn, nil
}

// Exec implements db.DBTX.
func (p *Pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()
	return conn.Exec(ctx, sql, args...)
}

// Query implements db.DBTX. The connection is held until the returned rows
// are closed.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &pooledRows{Rows: rows, conn: conn}, nil
}

// QueryRow implements db.DBTX. The connection is released when the row is
// scanned.
func (p *Pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return &pooledRow{row: conn.QueryRow(ctx, sql, args...), conn: conn}
}

// Status returns the live utilization snapshot.
func (p *Pool) Status() PoolStatus {
	stat := p.pool.Stat()
	status := NewPoolStatus(stat.IdleConns(), stat.AcquiredConns(), p.profile.BaseSize, p.profile.MaxConns())
	status.Environment = p.appEnv
	return status
}

// LogStatus logs the pool snapshot, escalating to a warning once utilization
// crosses 80%.
func (p *Pool) LogStatus() {
	status := p.Status()
	pct := status.UtilizationPct()
	evt := p.log.Debug()
	if pct > 80 {
		evt = p.log.Warn()
	}
	evt.
		Int32("checked_out", status.CheckedOut).
		Int32("checked_in", status.CheckedIn).
		Int32("overflow", status.Overflow).
		Int32("max_connections", status.MaxConns).
		Float64("utilization_pct", pct).
		Msg("db pool status")
}

// Close releases all held connections.
func (p *Pool) Close() {
	p.pool.Close()
}

// EnsureSchema applies the idempotent DDL and records the schema version.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqlinline.Schema {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if _, err := p.Exec(ctx, sqlinline.QRecordSchemaVersion, sqlinline.SchemaVersion, "generation record store"); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

type pooledRows struct {
	pgx.Rows
	conn *pgxpool.Conn
}

func (r *pooledRows) Close() {
	r.Rows.Close()
	if r.conn != nil {
		r.conn.Release()
		r.conn = nil
	}
}

type pooledRow struct {
	row  pgx.Row
	conn *pgxpool.Conn
}

func (r *pooledRow) Scan(dest ...any) error {
	defer func() {
		if r.conn != nil {
			r.conn.Release()
			r.conn = nil
		}
	}()
	return r.row.Scan(dest...)
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error { return r.err }
