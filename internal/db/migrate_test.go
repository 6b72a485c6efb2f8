package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_InMemoryMigrates(t *testing.T) {
	d, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer d.Close()

	for _, table := range []string{"proposals", "proposal_roles", "messages"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	d, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, Migrate(d))
	require.NoError(t, Migrate(d))
}

func TestOpenDB_ForeignKeysEnforced(t *testing.T) {
	d, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Exec(`INSERT INTO proposal_roles (proposal_id, role, count) VALUES ('missing', 'QA', 1)`)
	assert.Error(t, err)
}
