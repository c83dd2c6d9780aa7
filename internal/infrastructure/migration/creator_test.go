package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add saved views", "add_saved_views"},
		{"Add-Saved-Views", "add_saved_views"},
		{"ADD__VIEWS", "add_views"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestParseFileName(t *testing.T) {
	v, name, dir, ok := parseFileName("000012_add_index.down.sql")
	require.True(t, ok)
	assert.Equal(t, uint(12), v)
	assert.Equal(t, "add_index", name)
	assert.Equal(t, "down", dir)

	for _, bad := range []string{"README.md", "abc_x.up.sql", "000001.up.sql", "000001_x.sql"} {
		_, _, _, ok := parseFileName(bad)
		assert.False(t, ok, bad)
	}
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_b.up.sql":   {},
		"000001_a.up.sql":   {},
		"000001_a.down.sql": {},
		"notes.txt":         {},
	}

	entries, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Version: 1, Name: "a", HasDown: true}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "b", HasDown: false}, entries[1])
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := Embedded()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "create_saved_views", entries[0].Name)
	for _, e := range entries {
		assert.True(t, e.HasDown, "migration %d has no down file", e.Version)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add saved views", "first table")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_saved_views.up.sql"), first.UpPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_saved_views")
	assert.Contains(t, string(up), "-- first table")
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "Index Views", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, filepath.Join(dir, "000002_index_views.down.sql"), second.DownPath)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}
