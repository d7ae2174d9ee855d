package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/waterjug/internal/config"
	"github.com/aretw0/waterjug/pkg/adapters/file"
	"github.com/aretw0/waterjug/pkg/adapters/memory"
	"github.com/aretw0/waterjug/pkg/adapters/redis"
	"github.com/aretw0/waterjug/pkg/adapters/sqlite"
	"github.com/aretw0/waterjug/pkg/ports"
)

// backend is the session store selected by store.driver, with the
// distributed locker that goes with it (redis only).
type backend struct {
	Driver string
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	Close  func() error
}

// openStore builds the configured session store. With durable set, the
// memory driver is replaced by the file store so that sessions outlive the
// process.
func openStore(ctx context.Context, s *settings, durable bool) (*backend, error) {
	cfg := s.Config.Store
	driver := cfg.Driver
	if driver == config.DriverMemory && durable {
		driver = config.DriverFile
	}

	path := cfg.Path
	if path == "" {
		path = config.DefaultStorePath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}

	nop := func() error { return nil }
	switch driver {
	case config.DriverMemory:
		return &backend{Driver: driver, Store: memory.NewStore(), Close: nop}, nil
	case config.DriverFile:
		return &backend{Driver: driver, Store: file.New(path), Close: nop}, nil
	case config.DriverSQLite:
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "sessions.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return &backend{Driver: driver, Store: store, Close: store.Close}, nil
	case config.DriverRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix+"session:"))
		}
		store := redis.New(cfg.RedisAddr, "", 0, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = "waterjug:"
		}
		return &backend{
			Driver: driver,
			Store:  store,
			Locker: redis.NewLocker(store.Client(), prefix),
			Close:  store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
