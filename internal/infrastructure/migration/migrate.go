// Package migration applies the versioned SQL schema of each service with
// golang-migrate. Every service keeps its files under migrations/<service>
// and its own version table, so services may share one database.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator runs the migrations of one service
type Migrator struct {
	migrate *migrate.Migrate
	service string
	logger  *zap.Logger
}

// ServiceDir returns the directory holding service's migrations under root
func ServiceDir(root, service string) string {
	return filepath.Join(root, service)
}

// VersionTable names the table golang-migrate records service's version in,
// e.g. "schema_migrations_payment_service".
func VersionTable(service string) string {
	return "schema_migrations_" + strings.ReplaceAll(service, "-", "_")
}

// New creates a Migrator for service reading files from ServiceDir(root, service)
func New(db *sql.DB, root, service string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: VersionTable(service),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+ServiceDir(root, service), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance for %s: %w", service, err)
	}

	return &Migrator{
		migrate: m,
		service: service,
		logger:  logger.With(zap.String("service", service)),
	}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")
	return m.finish(m.migrate.Up(), "migration up")
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")
	return m.finish(m.migrate.Down(), "migration down")
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))
	return m.finish(m.migrate.Steps(n), "migration steps")
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	m.logger.Info("Migrating to version", zap.Uint("target_version", version))
	return m.finish(m.migrate.Migrate(version), fmt.Sprintf("migration to version %d", version))
}

// finish treats ErrNoChange as success and logs the resulting version
func (m *Migrator) finish(err error, op string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s failed for %s: %w", op, m.service, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migrations completed", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Version returns the current migration version, 0 when none was applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the version without running migrations, to clear a dirty state
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close closes the migrator and releases resources
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
