package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLine(t *testing.T) {
	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	ev := NewEvent(VenueListed, 7, "The Musical Hop", at)
	assert.Equal(t, `[2026-10-17T08:00:00Z] venue.listed | id=7 | name="The Musical Hop"`, ev.Line())

	show := NewEvent(ShowListed, 3, "", at)
	show.VenueID, show.ArtistID, show.StartTime = 1, 2, "2035-04-01 20:00:00"
	assert.Contains(t, show.Line(), "venue_id=1 | artist_id=2 | start=2035-04-01 20:00:00")
}

func TestHandleMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

	for _, ev := range []ActivityEvent{NewEvent(ArtistListed, 1, "Guns N Petals", at), NewEvent(VenueDeleted, 2, "", at)} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, HandleMessage(dir, body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, ActivityLogName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "artist.listed")
	assert.Contains(t, lines[1], "venue.deleted | id=2")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleMessage(dir, []byte("not json")))
	assert.Error(t, HandleMessage(dir, []byte(`{"entity_id": 1}`)))
}
