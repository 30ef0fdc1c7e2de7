package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/booking-directory/internal/model"
)

const artistColumns = `id, name, city, state, phone, genres, image_link, website_link,
	facebook_link, seeking_venue, seeking_description`

// ArtistRepo manages persistence for artists.
type ArtistRepo struct {
	db *sqlx.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sqlx.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

// List returns the id and name of every artist ordered by id.
func (r *ArtistRepo) List(ctx context.Context) ([]model.ArtistSummary, error) {
	const q = `SELECT id, name FROM artists ORDER BY id`
	out := []model.ArtistSummary{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return out, nil
}

// Search returns the artists whose name contains term, ignoring case.
func (r *ArtistRepo) Search(ctx context.Context, term string) ([]model.ArtistSummary, error) {
	const q = `SELECT id, name FROM artists WHERE LOWER(name) LIKE ? ESCAPE '!' ORDER BY id`
	out := []model.ArtistSummary{}
	if err := r.db.SelectContext(ctx, &out, q, containsPattern(term)); err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	return out, nil
}

// Recent returns the most recently listed artists, newest first.
func (r *ArtistRepo) Recent(ctx context.Context, limit int) ([]model.ArtistSummary, error) {
	const q = `SELECT id, name FROM artists ORDER BY id DESC LIMIT ?`
	out := []model.ArtistSummary{}
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("recent artists: %w", err)
	}
	return out, nil
}

// GetByID retrieves an artist by its ID.  It returns ErrArtistNotFound if
// there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	q := `SELECT ` + artistColumns + ` FROM artists WHERE id = ?`
	var a model.Artist
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("get artist %d: %w", id, err)
	}
	return &a, nil
}

type artistShowRow struct {
	model.Artist
	StartTime      sql.NullTime   `db:"start_time"`
	VenueID        sql.NullInt64  `db:"venue_id"`
	VenueName      sql.NullString `db:"venue_name"`
	VenueImageLink sql.NullString `db:"venue_image_link"`
}

// Detail loads an artist with the shows it plays, split around now.  It
// returns ErrArtistNotFound when the artist does not exist.
func (r *ArtistRepo) Detail(ctx context.Context, id uint64, now time.Time) (*model.ArtistDetail, error) {
	const q = `SELECT a.id, a.name, a.city, a.state, a.phone, a.genres, a.image_link, a.website_link,
	       a.facebook_link, a.seeking_venue, a.seeking_description,
	       s.start_time, v.id AS venue_id, v.name AS venue_name, v.image_link AS venue_image_link
	  FROM artists a
	  LEFT JOIN shows s ON s.artist_id = a.id
	  LEFT JOIN venues v ON v.id = s.venue_id
	 WHERE a.id = ?
	 ORDER BY s.start_time, s.id`
	var rows []artistShowRow
	if err := r.db.SelectContext(ctx, &rows, q, id); err != nil {
		return nil, fmt.Errorf("artist detail %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrArtistNotFound
	}
	var shows []model.VenueBooking
	for _, row := range rows {
		if !row.StartTime.Valid || !row.VenueID.Valid {
			continue
		}
		start := row.StartTime.Time.UTC()
		shows = append(shows, model.VenueBooking{
			VenueID:        uint64(row.VenueID.Int64),
			VenueName:      row.VenueName.String,
			VenueImageLink: row.VenueImageLink.String,
			StartTime:      start.Format(model.StartTimeLayout),
			Start:          start,
		})
	}
	d := model.NewArtistDetail(rows[0].Artist, shows, now)
	return &d, nil
}

// Create inserts an artist inside a transaction and assigns the generated
// ID back to a.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link, website_link,
		facebook_link, seeking_venue, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
			a.WebsiteLink, a.FacebookLink, a.SeekingVenue, a.SeekingDescription)
		if err != nil {
			return fmt.Errorf("insert artist: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		return nil
	})
}

// Update overwrites every editable field of the artist identified by a.ID.
// It returns ErrArtistNotFound if the artist does not exist.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists SET name = ?, city = ?, state = ?, phone = ?, genres = ?,
		image_link = ?, website_link = ?, facebook_link = ?, seeking_venue = ?,
		seeking_description = ?
		WHERE id = ?`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists uint64
		if err := tx.GetContext(ctx, &exists, `SELECT id FROM artists WHERE id = ?`, a.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArtistNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
			a.WebsiteLink, a.FacebookLink, a.SeekingVenue, a.SeekingDescription, a.ID); err != nil {
			return fmt.Errorf("update artist %d: %w", a.ID, err)
		}
		return nil
	})
}
