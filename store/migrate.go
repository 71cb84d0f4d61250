package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration source
)

// MigrateUp applies all pending migrations. ErrNoChange is not an error.
//
// The migrator takes ownership of the connection's driver state but the
// connection itself stays usable afterwards; callers keep it for the
// repository.
func MigrateUp(db *sql.DB, migrationsPath string) error {
	if db == nil {
		return errors.New("store: database connection is required")
	}
	if migrationsPath == "" {
		return errors.New("store: migrations path is required")
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{DatabaseName: "main"})
	if err != nil {
		return fmt.Errorf("store: failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("store: failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: failed to apply migrations: %w", err)
	}
	return nil
}
