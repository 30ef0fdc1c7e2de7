package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGroupVenuesByArea(t *testing.T) {
	venues := []Venue{
		{ID: 1, Name: "The Musical Hop", City: "Austin", State: "TX"},
		{ID: 3, Name: "Park Square", City: "Austin", State: "TX"},
		{ID: 2, Name: "Dueling Pianos", City: "Denver", State: "CO"},
	}

	areas := GroupVenuesByArea(venues)

	assert.Len(t, areas, 2)
	assert.Equal(t, "Austin", areas[0].City)
	assert.Equal(t, "TX", areas[0].State)
	assert.Len(t, areas[0].Venues, 2)
	assert.Equal(t, VenueSummary{ID: 3, Name: "Park Square"}, areas[0].Venues[1])
	assert.Equal(t, "Denver", areas[1].City)
	assert.Len(t, areas[1].Venues, 1)
}

func TestGroupVenuesByAreaSameCityDifferentState(t *testing.T) {
	areas := GroupVenuesByArea([]Venue{
		{ID: 1, City: "Portland", State: "OR"},
		{ID: 2, City: "Portland", State: "ME"},
	})
	assert.Len(t, areas, 2)
}

func TestGroupVenuesByAreaEmpty(t *testing.T) {
	areas := GroupVenuesByArea(nil)
	assert.NotNil(t, areas)
	assert.Empty(t, areas)
}

func TestNewVenueDetailPartitionsAroundNow(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	shows := []ArtistAppearance{
		{ArtistID: 1, Start: now.Add(-time.Hour)},
		{ArtistID: 2, Start: now},
		{ArtistID: 3, Start: time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	d := NewVenueDetail(Venue{ID: 9, Name: "Hall"}, shows, now)

	assert.Equal(t, uint64(9), d.ID)
	assert.Equal(t, 1, d.PastShowsCount)
	assert.Equal(t, uint64(1), d.PastShows[0].ArtistID)
	assert.Equal(t, 2, d.UpcomingShowsCount)
	assert.Equal(t, uint64(2), d.UpcomingShows[0].ArtistID)
}

func TestNewArtistDetailWithoutShows(t *testing.T) {
	d := NewArtistDetail(Artist{ID: 4}, nil, time.Now())
	assert.NotNil(t, d.PastShows)
	assert.NotNil(t, d.UpcomingShows)
	assert.Zero(t, d.PastShowsCount)
	assert.Zero(t, d.UpcomingShowsCount)
}
