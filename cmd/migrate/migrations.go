package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const migrationsTable = "schema_migrations"

// Migration is one numbered pair of NNNNNN_name.up.sql / .down.sql files.
type Migration struct {
	Version  int64
	Name     string
	UpPath   string
	DownPath string
}

// LoadMigrations scans dir and returns migrations ordered by version.
// Every version needs an up file; down files are optional.
func LoadMigrations(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		var direction string
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			direction = "up"
		case strings.HasSuffix(name, ".down.sql"):
			direction = "down"
		default:
			continue
		}

		base := strings.TrimSuffix(name, "."+direction+".sql")
		prefix, label, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNNNN_name", name)
		}
		version, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version %q", name, prefix)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &Migration{Version: version, Name: label}
			byVersion[version] = m
		} else if m.Name != label {
			return nil, fmt.Errorf("migration version %d used by %q and %q", version, m.Name, label)
		}

		path := filepath.Join(dir, name)
		if direction == "up" {
			m.UpPath = path
		} else {
			m.DownPath = path
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpPath == "" {
			return nil, fmt.Errorf("migration %d_%s has no up file", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })

	return migrations, nil
}

// Migrator applies migrations and records them in schema_migrations.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

func NewMigrator(db *sql.DB, migrations []Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version    BIGINT PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, pq.QuoteIdentifier(migrationsTable))

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", migrationsTable, err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int64]bool, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf("SELECT version FROM %s", pq.QuoteIdentifier(migrationsTable)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", migrationsTable, err)
	}
	defer rows.Close()

	versions := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions[v] = true
	}
	return versions, rows.Err()
}

// Up applies every pending migration, each in its own transaction.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range m.migrations {
		if done[mig.Version] {
			continue
		}

		record := fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", pq.QuoteIdentifier(migrationsTable))
		if err := m.run(ctx, mig.UpPath, record, mig.Version, mig.Name); err != nil {
			return count, fmt.Errorf("migration %d_%s up: %w", mig.Version, mig.Name, err)
		}

		log.Info().Int64("version", mig.Version).Str("name", mig.Name).Msg("Migration applied")
		count++
	}
	return count, nil
}

// Down reverts the latest steps applied migrations, newest first.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(m.migrations) - 1; i >= 0 && count < steps; i-- {
		mig := m.migrations[i]
		if !done[mig.Version] {
			continue
		}
		if mig.DownPath == "" {
			return count, fmt.Errorf("migration %d_%s has no down file", mig.Version, mig.Name)
		}

		record := fmt.Sprintf("DELETE FROM %s WHERE version = $1", pq.QuoteIdentifier(migrationsTable))
		if err := m.run(ctx, mig.DownPath, record, mig.Version); err != nil {
			return count, fmt.Errorf("migration %d_%s down: %w", mig.Version, mig.Name, err)
		}

		log.Info().Int64("version", mig.Version).Str("name", mig.Name).Msg("Migration reverted")
		count++
	}
	return count, nil
}

// Status logs every known migration and whether it is applied.
func (m *Migrator) Status(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		log.Info().
			Int64("version", mig.Version).
			Str("name", mig.Name).
			Bool("applied", done[mig.Version]).
			Msg("Migration")
	}
	return nil
}

// run executes the script and the bookkeeping statement in one transaction.
func (m *Migrator) run(ctx context.Context, path, record string, args ...any) (err error) {
	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, string(script)); err != nil {
		return describe(err)
	}
	if _, err = tx.ExecContext(ctx, record, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// describe adds the PostgreSQL code and position to script errors.
func describe(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	msg := fmt.Sprintf("%s (code %s", pqErr.Message, pqErr.Code)
	if pqErr.Position != "" {
		msg += ", position " + pqErr.Position
	}
	msg += ")"
	if pqErr.Detail != "" {
		msg += ": " + pqErr.Detail
	}
	return fmt.Errorf("%s: %w", msg, err)
}
