package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	return dir
}

func TestLoadMigrations_OrdersByVersion(t *testing.T) {
	dir := writeFiles(t,
		"000002_reviews.up.sql",
		"000002_reviews.down.sql",
		"000001_init.up.sql",
		"000001_init.down.sql",
		"000003_seed.up.sql",
		"README.md",
	)

	migrations, err := LoadMigrations(dir)

	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, filepath.Join(dir, "000001_init.down.sql"), migrations[0].DownPath)
	assert.Equal(t, int64(2), migrations[1].Version)
	assert.Equal(t, "seed", migrations[2].Name)
	assert.Empty(t, migrations[2].DownPath)
}

func TestLoadMigrations_Rejects(t *testing.T) {
	cases := map[string][]string{
		"missing up":       {"000001_init.down.sql"},
		"bad version":      {"abc_init.up.sql"},
		"no name":          {"000001.up.sql"},
		"version conflict": {"000001_init.up.sql", "000001_other.up.sql"},
	}

	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadMigrations(writeFiles(t, files...))
			assert.Error(t, err)
		})
	}
}

func TestLoadMigrations_RepoSchema(t *testing.T) {
	migrations, err := LoadMigrations(filepath.Join("..", "..", "migrations"))

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	for _, m := range migrations {
		assert.NotEmpty(t, m.DownPath, "migration %d_%s", m.Version, m.Name)
	}
}

func TestDescribe(t *testing.T) {
	pqErr := &pq.Error{Code: "42P07", Message: `relation "users" already exists`, Position: "14"}

	err := describe(pqErr)

	assert.Contains(t, err.Error(), "code 42P07")
	assert.Contains(t, err.Error(), "position 14")
	assert.True(t, errors.Is(err, pqErr))

	plain := errors.New("boom")
	assert.Equal(t, plain, describe(plain))
}
