package model

// Venue is a bookable physical location.  It corresponds to a row in the
// `venues` table.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Name               – display name.
//	Address            – street address.
//	City, State        – location; venues are listed grouped by this pair.
//	Phone              – contact phone number (optional).
//	WebsiteLink        – venue website (optional).
//	FacebookLink       – facebook page (optional).
//	ImageLink          – picture shown on listing pages (optional).
//	SeekingTalent      – whether the venue is looking for artists.
//	SeekingDescription – free text shown when SeekingTalent is set.
//	Genres             – music genres hosted by the venue.
type Venue struct {
	ID                 uint64 `db:"id" json:"id"`                                   // venues.id
	Name               string `db:"name" json:"name"`                               // venues.name
	Address            string `db:"address" json:"address"`                         // venues.address
	City               string `db:"city" json:"city"`                               // venues.city
	State              string `db:"state" json:"state"`                             // venues.state
	Phone              string `db:"phone" json:"phone"`                             // venues.phone
	WebsiteLink        string `db:"website_link" json:"website_link"`               // venues.website_link
	FacebookLink       string `db:"facebook_link" json:"facebook_link"`             // venues.facebook_link
	ImageLink          string `db:"image_link" json:"image_link"`                   // venues.image_link
	SeekingTalent      bool   `db:"seeking_talent" json:"seeking_talent"`           // venues.seeking_talent
	SeekingDescription string `db:"seeking_description" json:"seeking_description"` // venues.seeking_description
	Genres             Genres `db:"genres" json:"genres"`                           // venues.genres (JSON array)
}

// VenueSummary is the (id, name) pair used by listings and search results.
type VenueSummary struct {
	ID   uint64 `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// VenueArea groups the venues that share a city and state.
type VenueArea struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}
