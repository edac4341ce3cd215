package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db", migrateURL("postgres://u:p@localhost:5432/db"))
	assert.Equal(t, "pgx5://u@h/db?sslmode=disable", migrateURL("postgresql://u@h/db?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestMigrationsDeclareUniqueNumbers(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/000002_documents.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"bills", "invoices", "purchase_orders", "payments_made"} {
		assert.Contains(t, string(body), "CONSTRAINT "+table+"_number_key UNIQUE (number)")
	}

	core, err := fs.ReadFile(migrationsFS, "migrations/000001_core.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(core), "pos_sessions_one_open_per_user")
}
