package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Embedded(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)

	assert.Contains(t, names, "migrations/000001_create_seat_reservations.up.sql")
	assert.Contains(t, names, "migrations/000001_create_seat_reservations.down.sql")
}
