// Package database manages the PostgreSQL connection pool that backs the
// analysis, conversation, and prompt stores. Connection checks run through
// the lifecycle coordinator so the service only reports ready once the pool
// answers a ping.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vidaleve/sofia/pkg/lifecycle"
)

// System exposes the connection pool and hooks it into service lifecycle.
type System interface {
	// Connection returns the underlying connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type postgres struct {
	pool        *sql.DB
	logger      *slog.Logger
	pingTimeout time.Duration
}

// New builds the pool from configuration. sql.Open validates the DSN and
// applies pool limits; no connection is dialed until Start pings.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &postgres{
		pool:        pool,
		logger:      logger.With("system", "database"),
		pingTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *postgres) Connection() *sql.DB {
	return p.pool
}

func (p *postgres) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting database connection")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), p.pingTimeout)
		defer cancel()

		if err := p.pool.PingContext(ctx); err != nil {
			p.logger.Error("database ping failed", "error", err)
			return
		}

		p.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.logger.Info("closing database connection")

		if err := p.pool.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}

		p.logger.Info("database connection closed")
	})

	return nil
}
