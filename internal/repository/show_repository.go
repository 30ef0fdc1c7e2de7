package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/booking-directory/internal/model"
)

// ShowRepo manages persistence for shows.  Shows are only ever inserted;
// they disappear together with their venue.
type ShowRepo struct {
	db *sqlx.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sqlx.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

type showListingRow struct {
	VenueID         uint64    `db:"venue_id"`
	VenueName       string    `db:"venue_name"`
	ArtistID        uint64    `db:"artist_id"`
	ArtistName      string    `db:"artist_name"`
	ArtistImageLink string    `db:"artist_image_link"`
	StartTime       time.Time `db:"start_time"`
}

// List returns every show joined with its venue and artist, ordered by
// start time.
func (r *ShowRepo) List(ctx context.Context) ([]model.ShowListing, error) {
	const q = `SELECT s.venue_id, v.name AS venue_name, s.artist_id, a.name AS artist_name,
	       a.image_link AS artist_image_link, s.start_time
	  FROM shows s
	  JOIN venues v ON v.id = s.venue_id
	  JOIN artists a ON a.id = s.artist_id
	 ORDER BY s.start_time, s.id`
	var rows []showListingRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	out := make([]model.ShowListing, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ShowListing{
			VenueID:         row.VenueID,
			VenueName:       row.VenueName,
			ArtistID:        row.ArtistID,
			ArtistName:      row.ArtistName,
			ArtistImageLink: row.ArtistImageLink,
			StartTime:       row.StartTime.UTC().Format(model.StartTimeLayout),
		})
	}
	return out, nil
}

// Create inserts a show inside a transaction and assigns the generated ID
// back to s.  Unknown venue or artist ids are rejected by the foreign keys.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (venue_id, artist_id, start_time) VALUES (?, ?, ?)`
	s.StartTime = s.StartTime.UTC().Truncate(time.Second)
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, s.VenueID, s.ArtistID, s.StartTime)
		if err != nil {
			return fmt.Errorf("insert show: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		return nil
	})
}
