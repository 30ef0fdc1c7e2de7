// Package repository contains the data access logic for venues, artists and
// shows.  Every repository wraps a shared *sqlx.DB; queries use `?`
// placeholders so the same statements run on MySQL and SQLite.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrVenueNotFound indicates that a venue was not located in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrArtistNotFound indicates that an artist was not located in the DB.
var ErrArtistNotFound = errors.New("artist not found")

// likeEscaper escapes LIKE wildcards using '!' as the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-insensitive substring pattern for
// `LOWER(col) LIKE ? ESCAPE '!'`.  The term is matched as given, spaces
// included; an empty term matches every row.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// withTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(tx)
	return err
}
