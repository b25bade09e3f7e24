package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsOrdersByNumericVersion(t *testing.T) {
	t.Parallel()
	files := fstest.MapFS{
		"10_late.sql":   {Data: []byte("CREATE TABLE late (id INTEGER)")},
		"0002_next.sql": {Data: []byte("CREATE TABLE next (id INTEGER)")},
		"0001_init.sql": {Data: []byte("CREATE TABLE init (id INTEGER)")},
		"README.md":     {Data: []byte("not a migration")},
	}

	migrations, err := loadMigrations(files)
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, []string{"0001_init.sql", "0002_next.sql", "10_late.sql"},
		[]string{migrations[0].Name, migrations[1].Name, migrations[2].Name})
}

func TestLoadMigrationsRejectsDuplicateVersion(t *testing.T) {
	t.Parallel()
	files := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1")},
		"0001_b.sql": {Data: []byte("SELECT 2")},
	}
	_, err := loadMigrations(files)
	assert.ErrorContains(t, err, "duplicate migration version 0001")
}

func TestApplyMigrationsSkipsAppliedVersions(t *testing.T) {
	t.Parallel()
	database := openTestDatabase(t, filepath.Join(t.TempDir(), "ovumcal-apply.db"))
	files := fstest.MapFS{
		"0100_notes.sql": {Data: []byte(`
CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL);
INSERT INTO notes(body) VALUES ('first');
`)},
	}

	require.NoError(t, applyMigrations(database, files))
	require.NoError(t, applyMigrations(database, files))

	var count int64
	require.NoError(t, database.Raw(`SELECT COUNT(*) FROM notes`).Scan(&count).Error)
	assert.EqualValues(t, 1, count)

	var versions []appliedMigrationVersion
	require.NoError(t, database.Raw(`SELECT version FROM schema_migrations ORDER BY version`).Scan(&versions).Error)
	require.Len(t, versions, 2)
	assert.Equal(t, "0100", versions[1].Version)
}

func TestApplyMigrationsRollsBackFailedMigration(t *testing.T) {
	t.Parallel()
	database := openTestDatabase(t, filepath.Join(t.TempDir(), "ovumcal-rollback.db"))
	files := fstest.MapFS{
		"0200_broken.sql": {Data: []byte("CREATE TABLE half (id INTEGER); INSERT INTO missing VALUES (1);")},
	}

	require.Error(t, applyMigrations(database, files))

	var tables int64
	require.NoError(t, database.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'half'`).Scan(&tables).Error)
	assert.Zero(t, tables)

	var recorded int64
	require.NoError(t, database.Raw(`SELECT COUNT(*) FROM schema_migrations WHERE version = '0200'`).Scan(&recorded).Error)
	assert.Zero(t, recorded)
}

func TestSplitSQLStatements(t *testing.T) {
	t.Parallel()
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n  ;CREATE INDEX i ON a(id);  \n")
	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX i ON a(id)"}, statements)
	assert.Empty(t, splitSQLStatements(" ; \n"))
}
