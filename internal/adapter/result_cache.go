package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	m "gooze.dev/pkg/playground/internal/model"
)

const cacheKeyPrefix = "report/"

// ResultCache remembers the report of a unit so an unchanged submission is
// not mutated and executed again.
type ResultCache interface {
	Get(ctx context.Context, key string) (m.Report, bool, error)
	Put(ctx context.Context, key string, report m.Report) error
	Close() error
}

// CacheConfig configures the badger backed result cache.
type CacheConfig struct {
	Path     string
	InMemory bool
	// TTL expires cached reports; zero keeps them forever.
	TTL    time.Duration
	Logger *slog.Logger
}

type badgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// badgerLogger routes badger's internal logging to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// NewResultCache opens a badger database according to cfg.
func NewResultCache(cfg CacheConfig) (ResultCache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", cfg.Path, err)
		}

		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open result cache: %w", err)
	}

	return &badgerCache{db: db, ttl: cfg.TTL}, nil
}

func (c *badgerCache) Get(ctx context.Context, key string) (m.Report, bool, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, false, err
	}

	var report m.Report

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &report)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return m.Report{}, false, nil
	}

	if err != nil {
		return m.Report{}, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	return report, true, nil
}

func (c *badgerCache) Put(ctx context.Context, key string, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(cacheKeyPrefix+key), data)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}

		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

func (c *badgerCache) Close() error {
	return c.db.Close()
}

// NopResultCache never hits and never stores.
type NopResultCache struct{}

func (NopResultCache) Get(context.Context, string) (m.Report, bool, error) {
	return m.Report{}, false, nil
}

func (NopResultCache) Put(context.Context, string, m.Report) error { return nil }

func (NopResultCache) Close() error { return nil }
