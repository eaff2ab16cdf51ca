package migrations

import (
	"os"
	"path/filepath"
	"testing"

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

func TestDiscover_OrdersAndFilters(t *testing.T) {
	dir := writeFiles(t, "002_events.sql", "001_init.sql", "README.md", "010_gallery.sql")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o755))

	migrations, err := Discover(dir)
	require.NoError(t, err)

	var versions []string
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	assert.Equal(t, []string{"001", "002", "010"}, versions)
	assert.Equal(t, filepath.Join(dir, "001_init.sql"), migrations[0].Path)
}

func TestDiscover_RejectsDuplicateVersions(t *testing.T) {
	dir := writeFiles(t, "001_init.sql", "001_again.sql")

	_, err := Discover(dir)
	assert.ErrorContains(t, err, "share version 001")
}

func TestDiscover_MissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
