package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// ErrMissingDatabaseURL is returned before any connection attempt when no
// connection string is configured.
var ErrMissingDatabaseURL = errors.New("POSTGRES_URL environment variable is missing")

// OpenFunc opens a gorm handle for dsn.
type OpenFunc func(dsn string) (*gorm.DB, error)

// Connector opens the database on first use and hands out the same handle
// afterwards. A failed open is not cached.
type Connector struct {
	dsn  string
	open OpenFunc

	mu sync.Mutex
	db *gorm.DB
}

func NewConnector(dsn string, open OpenFunc) *Connector {
	return &Connector{dsn: dsn, open: open}
}

// DB returns the shared handle, opening it if needed.
func (c *Connector) DB(ctx context.Context) (*gorm.DB, error) {
	if c.dsn == "" {
		return nil, ErrMissingDatabaseURL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.WithContext(ctx), nil
	}
	db, err := c.open(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.db = db
	return db.WithContext(ctx), nil
}

// Close releases the pool if it was ever opened.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}
