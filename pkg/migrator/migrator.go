// Package migrator применяет SQL миграции схемы при старте сервиса
package migrator

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Up применяет все новые миграции из migrationsPath (например, "file://migrations")
// Возвращает текущую версию схемы.
func Up(migrationsPath, dsn string) (uint, error) {
	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		return 0, fmt.Errorf("migrator: init: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrator: up: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("migrator: version: %w", err)
	}
	return version, nil
}
