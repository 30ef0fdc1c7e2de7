package model

import "time"

// VenueDetail is a venue together with its shows split into past and
// upcoming buckets.
type VenueDetail struct {
	Venue
	PastShows          []ArtistAppearance `json:"past_shows"`
	PastShowsCount     int                `json:"past_shows_count"`
	UpcomingShows      []ArtistAppearance `json:"upcoming_shows"`
	UpcomingShowsCount int                `json:"upcoming_shows_count"`
}

// ArtistDetail is an artist together with its shows split into past and
// upcoming buckets.
type ArtistDetail struct {
	Artist
	PastShows          []VenueBooking `json:"past_shows"`
	PastShowsCount     int            `json:"past_shows_count"`
	UpcomingShows      []VenueBooking `json:"upcoming_shows"`
	UpcomingShowsCount int            `json:"upcoming_shows_count"`
}

// NewVenueDetail partitions shows around now.  A show that starts strictly
// before now is past; everything else, including a show starting exactly
// now, is upcoming.
func NewVenueDetail(v Venue, shows []ArtistAppearance, now time.Time) VenueDetail {
	d := VenueDetail{Venue: v, PastShows: []ArtistAppearance{}, UpcomingShows: []ArtistAppearance{}}
	for _, s := range shows {
		if s.Start.Before(now) {
			d.PastShows = append(d.PastShows, s)
		} else {
			d.UpcomingShows = append(d.UpcomingShows, s)
		}
	}
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d
}

// NewArtistDetail is the artist-side counterpart of NewVenueDetail.
func NewArtistDetail(a Artist, shows []VenueBooking, now time.Time) ArtistDetail {
	d := ArtistDetail{Artist: a, PastShows: []VenueBooking{}, UpcomingShows: []VenueBooking{}}
	for _, s := range shows {
		if s.Start.Before(now) {
			d.PastShows = append(d.PastShows, s)
		} else {
			d.UpcomingShows = append(d.UpcomingShows, s)
		}
	}
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d
}

// GroupVenuesByArea groups venues by (city, state) in a single pass.  The
// input is expected to be ordered by city and state; areas appear in order
// of first occurrence either way.
func GroupVenuesByArea(venues []Venue) []VenueArea {
	areas := []VenueArea{}
	index := map[[2]string]int{}
	for _, v := range venues {
		key := [2]string{v.City, v.State}
		i, ok := index[key]
		if !ok {
			i = len(areas)
			index[key] = i
			areas = append(areas, VenueArea{City: v.City, State: v.State, Venues: []VenueSummary{}})
		}
		areas[i].Venues = append(areas[i].Venues, VenueSummary{ID: v.ID, Name: v.Name})
	}
	return areas
}
