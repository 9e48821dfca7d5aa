// Package database centralises sqlx connection helpers for the connection
// blocks the settings engine derives.  Two schemes are understood: mysql
// (go-sql-driver/mysql, also fine for MariaDB) and pgsql (lib/pq).
//
// Public entry points:
//
//	DSN(cfg)                   – driver name plus DSN for a derived block.
//	Open(ctx, cfg)             – quick helper with conservative pool sizes.
//	OpenWithOptions(ctx, cfg, opts) – fine-grained control.
//	Ping(ctx, db, opts)        – ping with bounded retries.
//
// Open helpers Ping the database before returning so callers can fail fast.
// Callers should Close() the returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers "postgres"

	"github.com/yanizio/platformsettings/internal/settings"
)

// ErrUnsupportedScheme is returned for relationship schemes with no driver.
var ErrUnsupportedScheme = errors.New("database: unsupported scheme")

// Options tunes pool size and the startup ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// DefaultOptions keeps a one-shot probe light on the server.
var DefaultOptions = Options{
	MaxOpenConns:    2,
	MaxIdleConns:    1,
	ConnMaxLifetime: 5 * time.Minute,
	Retries:         2,
	RetryBackoff:    500 * time.Millisecond,
}

// DSN returns the database/sql driver name and DSN for cfg.
func DSN(cfg *settings.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case "mysql":
		return "mysql", mysqlDSN(cfg), nil
	case "pgsql", "postgres", "postgresql":
		return "postgres", postgresDSN(cfg), nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, cfg.Driver)
}

// readCommitted reports whether cfg carries the engine's isolation policy.
func readCommitted(cfg *settings.DatabaseConfig) bool {
	return cfg.InitCommands["isolation_level"] == settings.IsolationReadCommitted
}

func mysqlDSN(cfg *settings.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	if readCommitted(cfg) {
		// Unknown params are sent as SET statements on every new connection.
		mc.Params = map[string]string{"transaction_isolation": "'READ-COMMITTED'"}
	}
	return mc.FormatDSN()
}

func postgresDSN(cfg *settings.DatabaseConfig) string {
	parts := []string{
		"host=" + pqQuote(cfg.Host),
		"port=" + strconv.Itoa(cfg.Port),
		"user=" + pqQuote(cfg.Username),
		"password=" + pqQuote(cfg.Password),
		"dbname=" + pqQuote(cfg.Database),
		"sslmode=disable",
	}
	if readCommitted(cfg) {
		// lib/pq forwards unknown keys as startup runtime parameters.
		parts = append(parts, "default_transaction_isolation="+pqQuote("read committed"))
	}
	return strings.Join(parts, " ")
}

// pqQuote renders a lib/pq key/value connection string value.
func pqQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// Open returns a *sqlx.DB with DefaultOptions.
func Open(ctx context.Context, cfg *settings.DatabaseConfig) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, cfg, DefaultOptions)
}

// OpenWithOptions lets callers tune the pool and the startup ping.
func OpenWithOptions(ctx context.Context, cfg *settings.DatabaseConfig, opts Options) (*sqlx.DB, error) {
	driver, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := Ping(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Ping pings db, retrying up to opts.Retries times with a fixed backoff.
func Ping(ctx context.Context, db *sqlx.DB, opts Options) error {
	var err error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == opts.Retries {
			break
		}
		t := time.NewTimer(opts.RetryBackoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Errorf("ping after %d attempt(s): %w", opts.Retries+1, err)
}
