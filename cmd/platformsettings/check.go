package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yanizio/platformsettings/internal/cache"
	"github.com/yanizio/platformsettings/internal/config"
	"github.com/yanizio/platformsettings/internal/database"
	"github.com/yanizio/platformsettings/internal/platform"
	"github.com/yanizio/platformsettings/internal/settings"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Ping the database and cache backends derived from relationships",
	RunE: instrument("check", func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context(), app.cfg, app.env, cmd.OutOrStdout())
	}),
}

func runCheck(ctx context.Context, cfg *config.Config, env *platform.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !env.IsValidPlatform() {
		fmt.Fprintln(out, "not running on the platform, nothing to check")
		return nil
	}

	var errs []error
	checked := 0

	if db, ok := settings.MapDatabase(env, cfg.Database.Relationship); ok {
		checked++
		if err := checkDatabase(ctx, cfg, db); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
			fmt.Fprintf(out, "database  FAIL  %s:%d\n", db.Host, db.Port)
		} else {
			fmt.Fprintf(out, "database  ok    %s %s:%d/%s\n", db.Driver, db.Host, db.Port, db.Database)
		}
	}

	if c, ok := settings.MapCacheBackend(env, cfg.Cache.Relationship, capabilities(cfg)); ok {
		checked++
		if err := cache.Ping(ctx, c, cfg.Check.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
			fmt.Fprintf(out, "cache     FAIL  %s:%d\n", c.Host, c.Port)
		} else {
			fmt.Fprintf(out, "cache     ok    %s %s:%d\n", c.Backend, c.Host, c.Port)
		}
	}

	if checked == 0 {
		fmt.Fprintln(out, "no database or cache relationship configured")
	}
	return errors.Join(errs...)
}

func checkDatabase(ctx context.Context, cfg *config.Config, db *settings.DatabaseConfig) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Check.Timeout)
	defer cancel()

	conn, err := database.OpenWithOptions(ctx, db, database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: database.DefaultOptions.ConnMaxLifetime,
		Retries:         cfg.Check.Retries,
		RetryBackoff:    cfg.Check.RetryBackoff,
	})
	if err != nil {
		return err
	}
	return conn.Close()
}
