package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/pkg/config"
)

const retryBackoff = time.Second

// NewPool crea el pool de conexiones PostgreSQL y verifica la conexión con Ping.
// Si Ping falla, reintenta cfg.ConnectRetries veces con espera lineal (1s, 2s, ...) respetando ctx.
// Cada conexión registra el codec NUMERIC -> decimal.Decimal.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFrom(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	attempts := cfg.ConnectRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	for i := 1; ; i++ {
		err = pool.Ping(ctx)
		if err == nil {
			return pool, nil
		}
		if i >= attempts {
			break
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("ping DB: %w", ctx.Err())
		case <-time.After(time.Duration(i) * retryBackoff):
		}
	}
	pool.Close()
	return nil, fmt.Errorf("ping DB tras %d intentos: %w", attempts, err)
}

func poolConfigFrom(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && int32(cfg.MinConns) <= poolConfig.MaxConns {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}
