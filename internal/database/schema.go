package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(120) NOT NULL DEFAULT '',
		city VARCHAR(120) NOT NULL,
		state VARCHAR(2) NOT NULL,
		phone VARCHAR(120) NOT NULL DEFAULT '',
		website_link VARCHAR(500) NOT NULL DEFAULT '',
		facebook_link VARCHAR(500) NOT NULL DEFAULT '',
		image_link VARCHAR(500) NOT NULL DEFAULT '',
		seeking_talent BOOLEAN NOT NULL DEFAULT FALSE,
		seeking_description VARCHAR(500) NOT NULL DEFAULT '',
		genres JSON NOT NULL,
		KEY idx_venues_city_state (city, state)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS artists (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		city VARCHAR(120) NOT NULL,
		state VARCHAR(2) NOT NULL,
		phone VARCHAR(120) NOT NULL DEFAULT '',
		genres JSON NOT NULL,
		image_link VARCHAR(500) NOT NULL DEFAULT '',
		website_link VARCHAR(500) NOT NULL DEFAULT '',
		facebook_link VARCHAR(500) NOT NULL DEFAULT '',
		seeking_venue BOOLEAN NOT NULL DEFAULT FALSE,
		seeking_description VARCHAR(500) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS shows (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		venue_id BIGINT UNSIGNED NOT NULL,
		artist_id BIGINT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		CONSTRAINT fk_shows_venue FOREIGN KEY (venue_id) REFERENCES venues (id) ON DELETE CASCADE,
		CONSTRAINT fk_shows_artist FOREIGN KEY (artist_id) REFERENCES artists (id),
		KEY idx_shows_start_time (start_time)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		website_link TEXT NOT NULL DEFAULT '',
		facebook_link TEXT NOT NULL DEFAULT '',
		image_link TEXT NOT NULL DEFAULT '',
		seeking_talent BOOLEAN NOT NULL DEFAULT 0,
		seeking_description TEXT NOT NULL DEFAULT '',
		genres TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_venues_city_state ON venues (city, state)`,
	`CREATE TABLE IF NOT EXISTS artists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		genres TEXT NOT NULL DEFAULT '[]',
		image_link TEXT NOT NULL DEFAULT '',
		website_link TEXT NOT NULL DEFAULT '',
		facebook_link TEXT NOT NULL DEFAULT '',
		seeking_venue BOOLEAN NOT NULL DEFAULT 0,
		seeking_description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		venue_id INTEGER NOT NULL REFERENCES venues (id) ON DELETE CASCADE,
		artist_id INTEGER NOT NULL REFERENCES artists (id),
		start_time DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_shows_start_time ON shows (start_time)`,
}

// Migrate creates the venues, artists and shows tables when they do not
// exist yet.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var stmts []string
	switch db.DriverName() {
	case "mysql":
		stmts = mysqlSchema
	case "sqlite3", sqliteDriver:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
