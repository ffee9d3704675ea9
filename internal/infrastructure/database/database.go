package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Supported database/sql driver names.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

// Config holds database connection configuration.
type Config struct {
	Driver          string
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the configuration as a libpq keyword/value connection string,
// which both pgx and lib/pq accept.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		quote(c.Host),
		c.Port,
		quote(c.Database),
		quote(c.User),
		quote(c.Password),
		quote(c.SSLMode),
	)
}

// Open creates the connection pool behind every Scope and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	var db *sql.DB

	switch cfg.Driver {
	case "", DriverPgx:
		connConfig, err := pgx.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse connection string: %w", err)
		}
		db = stdlib.OpenDB(*connConfig)
	case DriverPQ:
		var err error
		db, err = sql.Open(DriverPQ, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
