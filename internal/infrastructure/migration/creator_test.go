package migration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("creates up and down file pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add Sales Table")
		require.NoError(t, err)

		assert.Contains(t, mf.UpPath, "add_sales_table.up.sql")
		assert.Contains(t, mf.DownPath, "add_sales_table.down.sql")
		assert.Len(t, mf.Version, 14)

		upContent, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(upContent), "Add Sales Table"))

		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := t.TempDir() + "/nested/migrations"

		_, err := CreateMigration(dir, "init")
		require.NoError(t, err)
	})
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_sales_table", sanitizeName("Add Sales Table"))
	assert.Equal(t, "fix_index", sanitizeName("fix--index  "))
	assert.Equal(t, "v2_schema", sanitizeName("V2 Schema!"))
}

func TestListMigrations(t *testing.T) {
	t.Run("lists only up migrations", func(t *testing.T) {
		dir := t.TempDir()
		_, err := CreateMigration(dir, "first")
		require.NoError(t, err)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, migrations, 1)
		assert.True(t, strings.HasSuffix(migrations[0], "_first"))
	})

	t.Run("returns empty slice for missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir() + "/missing")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
