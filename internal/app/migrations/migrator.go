// Package migrations applies the numbered SQL files under the migrations
// directory, each exactly once.
package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migration is one SQL file, identified by the numeric prefix of its name
type Migration struct {
	Version string
	Name    string
	Path    string
}

// Migrator manages database migrations
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Discover lists the .sql files of dirPath ordered by file name.
// "001_init.sql" has version "001".
func Discover(dirPath string) ([]Migration, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var migrations []Migration
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version := strings.SplitN(entry.Name(), "_", 2)[0]
		version = strings.TrimSuffix(version, ".sql")
		if previous, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %s", previous, entry.Name(), version)
		}
		seen[version] = entry.Name()

		migrations = append(migrations, Migration{
			Version: version,
			Name:    entry.Name(),
			Path:    filepath.Join(dirPath, entry.Name()),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

// MigrateFromDirectory applies every migration of dirPath that has not been
// recorded yet and returns how many ran
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) (int, error) {
	migrations, err := Discover(dirPath)
	if err != nil {
		return 0, err
	}

	if _, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`); err != nil {
		return 0, fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	applied := 0
	for _, migration := range migrations {
		ran, err := m.apply(ctx, migration)
		if err != nil {
			return applied, err
		}
		if ran {
			applied++
		}
	}
	return applied, nil
}

// apply runs one migration and records it in the same transaction
func (m *Migrator) apply(ctx context.Context, migration Migration) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, migration.Version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	if exists {
		m.logger.Debug().Str("migration", migration.Name).Msg("Migration already applied, skipping")
		return false, nil
	}

	content, err := os.ReadFile(migration.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read migration file: %w", err)
	}

	err = pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
		_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, migration.Version)
		return err
	})
	if err != nil {
		return false, err
	}

	m.logger.Info().Str("migration", migration.Name).Msg("Migration applied")
	return true, nil
}
