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

const venueColumns = `id, name, address, city, state, phone, website_link, facebook_link,
	image_link, seeking_talent, seeking_description, genres`

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db *sqlx.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sqlx.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// ListAll returns every venue ordered by city, state and id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues ORDER BY city, state, id`
	venues := []model.Venue{}
	if err := r.db.SelectContext(ctx, &venues, q); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// Areas returns all venues grouped by city and state.
func (r *VenueRepo) Areas(ctx context.Context) ([]model.VenueArea, error) {
	venues, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return model.GroupVenuesByArea(venues), nil
}

// Search returns the venues whose name contains term, ignoring case.
func (r *VenueRepo) Search(ctx context.Context, term string) ([]model.VenueSummary, error) {
	const q = `SELECT id, name FROM venues WHERE LOWER(name) LIKE ? ESCAPE '!' ORDER BY id`
	out := []model.VenueSummary{}
	if err := r.db.SelectContext(ctx, &out, q, containsPattern(term)); err != nil {
		return nil, fmt.Errorf("search venues: %w", err)
	}
	return out, nil
}

// Recent returns the most recently listed venues, newest first.
func (r *VenueRepo) Recent(ctx context.Context, limit int) ([]model.VenueSummary, error) {
	const q = `SELECT id, name FROM venues ORDER BY id DESC LIMIT ?`
	out := []model.VenueSummary{}
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("recent venues: %w", err)
	}
	return out, nil
}

// GetByID retrieves a venue by its ID.  It returns ErrVenueNotFound if
// there is no matching row.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	var v model.Venue
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("get venue %d: %w", id, err)
	}
	return &v, nil
}

type venueShowRow struct {
	model.Venue
	StartTime       sql.NullTime   `db:"start_time"`
	ArtistID        sql.NullInt64  `db:"artist_id"`
	ArtistName      sql.NullString `db:"artist_name"`
	ArtistImageLink sql.NullString `db:"artist_image_link"`
}

// Detail loads a venue with its shows and splits them around now.  The
// venue is left-joined with shows and artists so a venue without shows
// still yields one row.  It returns ErrVenueNotFound when the venue does
// not exist.
func (r *VenueRepo) Detail(ctx context.Context, id uint64, now time.Time) (*model.VenueDetail, error) {
	const q = `SELECT v.id, v.name, v.address, v.city, v.state, v.phone, v.website_link,
	       v.facebook_link, v.image_link, v.seeking_talent, v.seeking_description, v.genres,
	       s.start_time, a.id AS artist_id, a.name AS artist_name, a.image_link AS artist_image_link
	  FROM venues v
	  LEFT JOIN shows s ON s.venue_id = v.id
	  LEFT JOIN artists a ON a.id = s.artist_id
	 WHERE v.id = ?
	 ORDER BY s.start_time, s.id`
	var rows []venueShowRow
	if err := r.db.SelectContext(ctx, &rows, q, id); err != nil {
		return nil, fmt.Errorf("venue detail %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrVenueNotFound
	}
	var shows []model.ArtistAppearance
	for _, row := range rows {
		if !row.StartTime.Valid || !row.ArtistID.Valid {
			continue
		}
		start := row.StartTime.Time.UTC()
		shows = append(shows, model.ArtistAppearance{
			ArtistID:        uint64(row.ArtistID.Int64),
			ArtistName:      row.ArtistName.String,
			ArtistImageLink: row.ArtistImageLink.String,
			StartTime:       start.Format(model.StartTimeLayout),
			Start:           start,
		})
	}
	d := model.NewVenueDetail(rows[0].Venue, shows, now)
	return &d, nil
}

// Create inserts a venue inside a transaction and assigns the generated
// ID back to v.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, address, city, state, phone, website_link, facebook_link,
		image_link, seeking_talent, seeking_description, genres)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, v.Name, v.Address, v.City, v.State, v.Phone, v.WebsiteLink,
			v.FacebookLink, v.ImageLink, v.SeekingTalent, v.SeekingDescription, v.Genres)
		if err != nil {
			return fmt.Errorf("insert venue: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		v.ID = uint64(id)
		return nil
	})
}

// Update overwrites every editable field of the venue identified by v.ID.
// It returns ErrVenueNotFound if the venue does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues SET name = ?, address = ?, city = ?, state = ?, phone = ?,
		website_link = ?, facebook_link = ?, image_link = ?, seeking_talent = ?,
		seeking_description = ?, genres = ?
		WHERE id = ?`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists uint64
		if err := tx.GetContext(ctx, &exists, `SELECT id FROM venues WHERE id = ?`, v.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVenueNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, q, v.Name, v.Address, v.City, v.State, v.Phone, v.WebsiteLink,
			v.FacebookLink, v.ImageLink, v.SeekingTalent, v.SeekingDescription, v.Genres, v.ID); err != nil {
			return fmt.Errorf("update venue %d: %w", v.ID, err)
		}
		return nil
	})
}

// Delete removes a venue together with its shows.  Deleting a venue that
// does not exist is not an error.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id); err != nil {
			return fmt.Errorf("delete shows of venue %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete venue %d: %w", id, err)
		}
		return nil
	})
}
