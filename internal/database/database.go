package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/mineboard/internal/config"
)

func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	config, err := config.NewPgxpoolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}

type MigrationStatus struct {
	Version uint
	Dirty   bool
}

// migrator is the part of *migrate.Migrate used here.
type migrator interface {
	Up() error
	Version() (uint, bool, error)
	Close() (error, error)
}

var newMigrator = func(src source.Driver, url string) (migrator, error) {
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Migrate applies every pending migration found at the root of migrations.
// The migrator holds its own connection, which is released before returning.
func Migrate(url string, migrations fs.FS) (status MigrationStatus, err error) {
	src, err := iofs.New(migrations, ".")
	if err != nil {
		return status, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	m, err := newMigrator(src, url)
	if err != nil {
		src.Close()
		return status, fmt.Errorf("unable to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			if closeErr := errors.Join(srcErr, dbErr); closeErr != nil {
				err = fmt.Errorf("unable to close migrator: %w", closeErr)
			}
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return status, fmt.Errorf("failed to migrate database: %w", err)
	}

	status.Version, status.Dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		err = nil
	}
	if err != nil {
		return status, fmt.Errorf("unable to check migration version: %w", err)
	}
	return status, nil
}

func ConnectAndMigrate(ctx context.Context, migrations fs.FS) (*pgxpool.Pool, MigrationStatus, error) {
	url, err := config.DbURL()
	if err != nil {
		return nil, MigrationStatus{}, err
	}
	status, err := Migrate(url, migrations)
	if err != nil {
		return nil, status, err
	}
	conn, err := Connect(ctx)
	if err != nil {
		return nil, status, err
	}
	return conn, status, nil
}
