package model

// Artist is a performer.  It corresponds to a row in the `artists` table.
type Artist struct {
	ID                 uint64 `db:"id" json:"id"`                                   // artists.id
	Name               string `db:"name" json:"name"`                               // artists.name
	City               string `db:"city" json:"city"`                               // artists.city
	State              string `db:"state" json:"state"`                             // artists.state
	Phone              string `db:"phone" json:"phone"`                             // artists.phone
	Genres             Genres `db:"genres" json:"genres"`                           // artists.genres (JSON array)
	ImageLink          string `db:"image_link" json:"image_link"`                   // artists.image_link
	WebsiteLink        string `db:"website_link" json:"website_link"`               // artists.website_link
	FacebookLink       string `db:"facebook_link" json:"facebook_link"`             // artists.facebook_link
	SeekingVenue       bool   `db:"seeking_venue" json:"seeking_venue"`             // artists.seeking_venue
	SeekingDescription string `db:"seeking_description" json:"seeking_description"` // artists.seeking_description
}

// ArtistSummary is the (id, name) pair used by listings and search results.
type ArtistSummary struct {
	ID   uint64 `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
