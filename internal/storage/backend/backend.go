// Package backend selects and opens the configured storage implementation.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/finance-be/internal/storage"
	"github.com/hongminglow/finance-be/internal/storage/postgres"
	"github.com/hongminglow/finance-be/internal/storage/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options names the backend and where to find it.
type Options struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
}

// Open connects to the backend named by opts.Driver and migrates it.
func Open(ctx context.Context, opts Options) (storage.Store, error) {
	switch opts.Driver {
	case DriverPostgres, "":
		if opts.DatabaseURL == "" {
			return nil, errors.New("postgres backend requires a database url")
		}
		return postgres.NewStore(ctx, opts.DatabaseURL)
	case DriverSQLite:
		if opts.SQLitePath == "" {
			return nil, errors.New("sqlite backend requires a file path")
		}
		return sqlite.NewStore(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
