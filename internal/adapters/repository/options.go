package repository

import "time"

// Option applies a configuration option to a store.
type Option func(*storeConfig)

type storeConfig struct {
	now          func() time.Time
	maxOpenConns int
}

func newStoreConfig(opts []Option) storeConfig {
	cfg := storeConfig{now: time.Now, maxOpenConns: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithClock sets the time source for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxOpenConns bounds the sqlite connection pool.
func WithMaxOpenConns(n int) Option {
	return func(c *storeConfig) {
		if n > 0 {
			c.maxOpenConns = n
		}
	}
}
