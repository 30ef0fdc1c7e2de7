package model

import "time"

// StartTimeLayout is the text form of a show's start time on listing pages.
const StartTimeLayout = "2006-01-02 15:04:05"

// Show links one venue and one artist at a point in time.  Shows are only
// ever created; they are removed together with their venue.
//
// Fields:
//
//	ID        – primary key identifier.
//	VenueID   – venue hosting the show.
//	ArtistID  – artist performing.
//	StartTime – when the show begins.
type Show struct {
	ID        uint64    `db:"id" json:"id"`                 // shows.id
	VenueID   uint64    `db:"venue_id" json:"venue_id"`     // shows.venue_id
	ArtistID  uint64    `db:"artist_id" json:"artist_id"`   // shows.artist_id
	StartTime time.Time `db:"start_time" json:"start_time"` // shows.start_time
}

// ShowListing is one row of the flat show list: the show joined with its
// venue and artist.
type ShowListing struct {
	VenueID         uint64 `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// ArtistAppearance is a show seen from the venue side of the join.
type ArtistAppearance struct {
	ArtistID        uint64    `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       string    `json:"start_time"`
	Start           time.Time `json:"-"`
}

// VenueBooking is a show seen from the artist side of the join.
type VenueBooking struct {
	VenueID        uint64    `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	VenueImageLink string    `json:"venue_image_link"`
	StartTime      string    `json:"start_time"`
	Start          time.Time `json:"-"`
}
