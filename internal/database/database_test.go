package database

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mineboard/migrations"
)

type fakeMigrator struct {
	upErr      error
	version    uint
	versionErr error
	closeErr   error
	closed     int
	first      uint
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, false, f.versionErr
}

func (f *fakeMigrator) Close() (error, error) {
	f.closed++
	return nil, f.closeErr
}

func useFakeMigrator(t *testing.T, fake *fakeMigrator) {
	t.Helper()
	orig := newMigrator
	newMigrator = func(src source.Driver, url string) (migrator, error) {
		first, err := src.First()
		require.NoError(t, err)
		fake.first = first
		return fake, nil
	}
	t.Cleanup(func() { newMigrator = orig })
}

func TestMigrateClosesMigrator(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeMigrator
		want    MigrationStatus
		wantErr bool
	}{
		{name: "applied", fake: &fakeMigrator{version: 1}, want: MigrationStatus{Version: 1}},
		{name: "no change", fake: &fakeMigrator{upErr: migrate.ErrNoChange, version: 1}, want: MigrationStatus{Version: 1}},
		{name: "empty database", fake: &fakeMigrator{versionErr: migrate.ErrNilVersion}},
		{name: "up fails", fake: &fakeMigrator{upErr: errors.New("boom")}, wantErr: true},
		{name: "close fails", fake: &fakeMigrator{version: 1, closeErr: errors.New("boom")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useFakeMigrator(t, tt.fake)

			status, err := Migrate("postgresql://unused", migrations.FS)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, status)
			}
			assert.Equal(t, 1, tt.fake.closed)
			assert.Equal(t, uint(1), tt.fake.first)
		})
	}
}
