package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"users", "match_records", "attendance", "announcements", "notifications", "activity_log", "counters"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_EnforcesForeignKeys(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO match_records (player_id, date, kills, damage, survival, booyah, created_at) VALUES (99, '2024-01-01', 1, 1, 1, 0, 0)`)
	assert.Error(t, err, "a record for an unknown player must be rejected")
}

func TestInitDB_MissingMigrations(t *testing.T) {
	_, _, err := InitDB(":memory:", "", "", "./does-not-exist")
	assert.Error(t, err)
}
