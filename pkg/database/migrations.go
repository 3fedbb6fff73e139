package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Migration is a single versioned schema change loaded from disk.
// Files are named NNN_name.sql; the numeric prefix orders them.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator applies pending migrations at startup. Applied versions are
// recorded in schema_migrations, so running it again is a no-op.
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// RunMigrations applies, in version order, every migration in dir that has
// not been applied yet.
func (m *Migrator) RunMigrations(dir string) error {
	if err := m.ensureVersionTable(); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("read applied versions: %w", err)
	}

	migrations, err := loadMigrations(dir)
	if err != nil {
		return err
	}

	pending := 0
	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}

		m.logger.Info("Applying migration",
			zap.Int("version", mig.Version),
			zap.String("name", mig.Name))

		if err := m.apply(mig); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		pending++
	}

	m.logger.Info("Schema up to date",
		zap.Int("applied", pending),
		zap.Int("total", len(migrations)))
	return nil
}

func (m *Migrator) ensureVersionTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// loadMigrations reads the .sql files of a flat migrations directory,
// sorted by version.
func loadMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		version, migName, err := parseMigrationName(name)
		if err != nil {
			return nil, err
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    migName,
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func parseMigrationName(filename string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(filename, ".sql"), "_")
	if !ok {
		return 0, "", fmt.Errorf("migration %s: want NNN_name.sql", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("migration %s: version prefix is not a number", filename)
	}
	return version, rest, nil
}

// apply runs one migration and records its version, atomically.
func (m *Migrator) apply(mig Migration) error {
	return m.db.withTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(mig.SQL); err != nil {
			return err
		}
		_, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			mig.Version, mig.Name,
		)
		return err
	})
}
