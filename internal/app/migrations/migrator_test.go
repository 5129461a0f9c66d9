package migrations

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	require.Equal(t, "001", Version("001_registrar_tables.sql"))
	require.Equal(t, "002", Version("sql/002_add_index.sql"))
	require.Equal(t, "noversion.sql", Version("noversion.sql"))
}

func TestPending_SortsSQLFilesOnly(t *testing.T) {
	files := fstest.MapFS{
		"002_b.sql":   {Data: []byte("SELECT 2;")},
		"001_a.sql":   {Data: []byte("SELECT 1;")},
		"README.md":   {Data: []byte("docs")},
		"dir/003.sql": {Data: []byte("SELECT 3;")},
	}

	names, err := Pending(files)
	require.NoError(t, err)
	require.Equal(t, []string{"001_a.sql", "002_b.sql"}, names)
}

func TestEmbeddedSchemaCreatesAllTables(t *testing.T) {
	sub, err := fs.Sub(embedded, "sql")
	require.NoError(t, err)

	names, err := Pending(sub)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	content, err := fs.ReadFile(sub, names[0])
	require.NoError(t, err)
	for _, table := range []string{"students", "subjects", "enrollments"} {
		require.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table)
	}
}
