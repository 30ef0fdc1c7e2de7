package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/booking-directory/internal/config"
)

func TestDSNMySQL(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{
		Driver: "mysql", User: "fyyur", Password: "secret", Host: "db", Port: "3306", Name: "fyyur",
	})
	require.NoError(t, err)
	assert.Contains(t, dsn, "fyyur:secret@tcp(db:3306)/fyyur?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSNUnknownDriver(t *testing.T) {
	_, err := DSN(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db))
	// idempotent
	require.NoError(t, Migrate(ctx, db))

	var fk int
	require.NoError(t, db.GetContext(ctx, &fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('venues','artists','shows') ORDER BY name"))
	assert.Equal(t, []string{"artists", "shows", "venues"}, tables)

	var lowered string
	require.NoError(t, db.GetContext(ctx, &lowered, "SELECT LOWER(?)", "ÉCOLE Ñandú"))
	assert.Equal(t, "école ñandú", lowered)
}
