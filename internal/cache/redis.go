// internal/cache/redis.go
//
// Redis client for derived cache blocks.
//
// Context
// -------
// The settings engine describes the cache backend the application will use.
// This package turns that description into a go-redis client so the CLI
// `check` command can confirm the backend answers before a deploy finishes.
package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/yanizio/platformsettings/internal/settings"
)

// NewClient returns a client for cfg.  No connection is made until first use.
func NewClient(cfg *settings.CacheConfig, timeout time.Duration) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})
}

// Ping opens a client for cfg, sends PING, and closes it again.
func Ping(ctx context.Context, cfg *settings.CacheConfig, timeout time.Duration) error {
	client := NewClient(cfg, timeout)
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", client.Options().Addr, err)
	}
	return nil
}
