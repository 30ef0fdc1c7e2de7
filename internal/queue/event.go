// Package queue defines the directory activity events exchanged over the
// message broker and the consumer that records them.
package queue

import (
	"fmt"
	"time"
)

// Event types published after a successful write.
const (
	VenueListed   = "venue.listed"
	VenueUpdated  = "venue.updated"
	VenueDeleted  = "venue.deleted"
	ArtistListed  = "artist.listed"
	ArtistUpdated = "artist.updated"
	ShowListed    = "show.listed"
)

// ActivityEvent is published when a venue, artist or show changes.  It
// carries enough information for consumers to log the change without
// querying the primary database.
type ActivityEvent struct {
	Type       string `json:"type"`
	EntityID   uint64 `json:"entity_id"`
	Name       string `json:"name,omitempty"`
	VenueID    uint64 `json:"venue_id,omitempty"`
	ArtistID   uint64 `json:"artist_id,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewEvent stamps an event of the given type with the current time.
func NewEvent(typ string, id uint64, name string, at time.Time) ActivityEvent {
	return ActivityEvent{Type: typ, EntityID: id, Name: name, OccurredAt: at.UTC().Format(time.RFC3339)}
}

// Line renders the event as one human friendly log line.
func (e ActivityEvent) Line() string {
	line := fmt.Sprintf("[%s] %s | id=%d", e.OccurredAt, e.Type, e.EntityID)
	if e.Name != "" {
		line += fmt.Sprintf(" | name=%q", e.Name)
	}
	if e.VenueID != 0 || e.ArtistID != 0 {
		line += fmt.Sprintf(" | venue_id=%d | artist_id=%d | start=%s", e.VenueID, e.ArtistID, e.StartTime)
	}
	if e.RequestID != "" {
		line += " | request_id=" + e.RequestID
	}
	return line
}
