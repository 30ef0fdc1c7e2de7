package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/booking-directory/internal/config"
	"github.com/iliyamo/booking-directory/internal/database/dbtest"
	"github.com/iliyamo/booking-directory/internal/handler"
	"github.com/iliyamo/booking-directory/internal/metrics"
	mw "github.com/iliyamo/booking-directory/internal/middleware"
	"github.com/iliyamo/booking-directory/internal/model"
	"github.com/iliyamo/booking-directory/internal/queue"
	"github.com/iliyamo/booking-directory/internal/render"
	"github.com/iliyamo/booking-directory/internal/router"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testServer struct {
	db  *sqlx.DB
	e   *echo.Echo
	h   *handler.Handler
	pub *fakePublisher
}

func newServer(t *testing.T) *testServer {
	return newServerWithCache(t, nil)
}

func newServerWithCache(t *testing.T, cache *mw.RedisCache) *testServer {
	t.Helper()
	db := dbtest.New(t)
	pub := &fakePublisher{}
	var inv handler.Invalidator
	if cache != nil {
		inv = cache
	}
	h := handler.New(db, pub, inv, metrics.New(), zerolog.Nop())
	h.Now = func() time.Time { return testNow }
	r, err := render.New()
	require.NoError(t, err)
	return &testServer{db: db, e: router.New(h, r, router.Options{Cache: cache, Log: zerolog.Nop()}), h: h, pub: pub}
}

func (s *testServer) do(method, target string, form url.Values, asJSON bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if asJSON {
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func venueForm(name, city, state string) url.Values {
	return url.Values{
		"name":                {name},
		"city":                {city},
		"state":               {state},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"genres":              {"Jazz", "Swing"},
		"website_link":        {"https://www.themusicalhop.com"},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"image_link":          {"https://images.example.com/hop.jpg"},
		"seeking_description": {"Looking for local talent"},
	}
}

func artistForm(name string) url.Values {
	return url.Values{
		"name":   {name},
		"city":   {"San Francisco"},
		"state":  {"CA"},
		"genres": {"Rock n Roll"},
	}
}

func (s *testServer) createVenue(t *testing.T, form url.Values) model.Venue {
	t.Helper()
	rec := s.do(http.MethodPost, "/venues/create", form, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Venue model.Venue `json:"venue"`
	}](t, rec)
	require.NotZero(t, body.Venue.ID)
	return body.Venue
}

func (s *testServer) createArtist(t *testing.T, name string) model.Artist {
	t.Helper()
	rec := s.do(http.MethodPost, "/artists/create", artistForm(name), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Artist model.Artist `json:"artist"`
	}](t, rec)
	require.NotZero(t, body.Artist.ID)
	return body.Artist
}

func (s *testServer) createShow(t *testing.T, venueID, artistID, start string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(http.MethodPost, "/shows/create", url.Values{
		"venue_id":   {venueID},
		"artist_id":  {artistID},
		"start_time": {start},
	}, true)
}

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

func TestCreateVenueRoundTrip(t *testing.T) {
	s := newServer(t)
	form := venueForm("The Musical Hop", "San Francisco", "CA")
	form.Set("seeking_talent", "y")

	rec := s.do(http.MethodPost, "/venues/create", form, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Contains(t, body["flashes"], "Venue The Musical Hop was successfully listed!")

	venues := decode[[]model.VenueArea](t, s.do(http.MethodGet, "/venues", nil, true))
	require.Len(t, venues, 1)
	id := venues[0].Venues[0].ID

	d := decode[model.VenueDetail](t, s.do(http.MethodGet, "/venues/"+itoa(id), nil, true))
	assert.Equal(t, model.Venue{
		ID:                 id,
		Name:               "The Musical Hop",
		Address:            "1015 Folsom Street",
		City:               "San Francisco",
		State:              "CA",
		Phone:              "123-123-1234",
		WebsiteLink:        "https://www.themusicalhop.com",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		ImageLink:          "https://images.example.com/hop.jpg",
		SeekingTalent:      true,
		SeekingDescription: "Looking for local talent",
		Genres:             model.Genres{"Jazz", "Swing"},
	}, d.Venue)
	assert.Equal(t, []string{queue.VenueListed}, s.pub.types())
}

func TestSeekingFlagsCoerced(t *testing.T) {
	s := newServer(t)
	for _, in := range []string{"y", "on", "true", "1"} {
		form := venueForm("Venue "+in, "Austin", "TX")
		form.Set("seeking_talent", in)
		v := s.createVenue(t, form)
		assert.True(t, v.SeekingTalent, in)
	}
	v := s.createVenue(t, venueForm("No Flag", "Austin", "TX"))
	assert.False(t, v.SeekingTalent)

	rec := s.do(http.MethodPost, "/artists/create", func() url.Values {
		f := artistForm("Seeker")
		f.Set("seeking_venue", "on")
		return f
	}(), true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Artist model.Artist `json:"artist"`
	}](t, rec)
	assert.True(t, body.Artist.SeekingVenue)
}

func TestSearchVenues(t *testing.T) {
	s := newServer(t)
	s.createVenue(t, venueForm("Town Hall", "Austin", "TX"))
	s.createVenue(t, venueForm("hall of fame", "Austin", "TX"))
	s.createVenue(t, venueForm("Cafe", "Austin", "TX"))

	type result struct {
		Count int                  `json:"count"`
		Data  []model.VenueSummary `json:"data"`
	}
	all := decode[result](t, s.do(http.MethodPost, "/venues/search", url.Values{"search_term": {""}}, true))
	assert.Equal(t, 3, all.Count)

	hall := decode[result](t, s.do(http.MethodPost, "/venues/search", url.Values{"search_term": {"hall"}}, true))
	assert.Equal(t, 2, hall.Count)
	for _, v := range hall.Data {
		assert.NotEqual(t, "Cafe", v.Name)
	}
}

func TestSearchArtists(t *testing.T) {
	s := newServer(t)
	s.createArtist(t, "Guns N Petals")
	s.createArtist(t, "The Wild Sax Band")

	res := decode[map[string]any](t, s.do(http.MethodPost, "/artists/search", url.Values{"search_term": {"band"}}, true))
	assert.EqualValues(t, 1, res["count"])
	assert.Equal(t, "band", res["search_term"])
}

func TestShowBucketsOnVenueAndArtist(t *testing.T) {
	s := newServer(t)
	v := s.createVenue(t, venueForm("Park Square", "San Francisco", "CA"))
	a := s.createArtist(t, "Matt Quevedo")

	require.Equal(t, http.StatusOK, s.createShow(t, itoa(v.ID), itoa(a.ID), "2999-01-01 00:00:00").Code)
	require.Equal(t, http.StatusOK, s.createShow(t, itoa(v.ID), itoa(a.ID), "2019-06-15T23:00").Code)

	vd := decode[model.VenueDetail](t, s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, true))
	require.Equal(t, 1, vd.UpcomingShowsCount)
	require.Equal(t, 1, vd.PastShowsCount)
	assert.Equal(t, "2999-01-01 00:00:00", vd.UpcomingShows[0].StartTime)
	assert.Equal(t, a.ID, vd.UpcomingShows[0].ArtistID)
	assert.Equal(t, "2019-06-15 23:00:00", vd.PastShows[0].StartTime)

	ad := decode[model.ArtistDetail](t, s.do(http.MethodGet, "/artists/"+itoa(a.ID), nil, true))
	require.Equal(t, 1, ad.UpcomingShowsCount)
	require.Equal(t, 1, ad.PastShowsCount)
	assert.Equal(t, "Park Square", ad.UpcomingShows[0].VenueName)

	shows := decode[[]model.ShowListing](t, s.do(http.MethodGet, "/shows", nil, true))
	require.Len(t, shows, 2)
	assert.Equal(t, "2019-06-15 23:00:00", shows[0].StartTime)
	assert.Equal(t, "Matt Quevedo", shows[1].ArtistName)
}

func TestDetailBucketsFollowClockWithCacheEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s := newServerWithCache(t, mw.NewRedisCache(config.DefaultCacheConfig(), rdb))

	v := s.createVenue(t, venueForm("Park Square", "San Francisco", "CA"))
	a := s.createArtist(t, "Matt Quevedo")
	start := testNow.Add(10 * time.Second).Format(model.StartTimeLayout)
	require.Equal(t, http.StatusOK, s.createShow(t, itoa(v.ID), itoa(a.ID), start).Code)

	rec := s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, true)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	require.Equal(t, 1, decode[model.VenueDetail](t, rec).UpcomingShowsCount)

	s.h.Now = func() time.Time { return testNow.Add(20 * time.Second) }

	vd := decode[model.VenueDetail](t, s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, true))
	assert.Equal(t, 1, vd.PastShowsCount)
	assert.Equal(t, 0, vd.UpcomingShowsCount)

	ad := decode[model.ArtistDetail](t, s.do(http.MethodGet, "/artists/"+itoa(a.ID), nil, true))
	assert.Equal(t, 1, ad.PastShowsCount)
	assert.Equal(t, 0, ad.UpcomingShowsCount)

	// listings stay cached
	assert.Equal(t, "MISS", s.do(http.MethodGet, "/venues", nil, true).Header().Get("X-Cache"))
	assert.Equal(t, "HIT", s.do(http.MethodGet, "/venues", nil, true).Header().Get("X-Cache"))
}

func TestDeleteVenueWithShows(t *testing.T) {
	s := newServer(t)
	v := s.createVenue(t, venueForm("Doomed Hall", "Austin", "TX"))
	a := s.createArtist(t, "Survivor")
	require.Equal(t, http.StatusOK, s.createShow(t, itoa(v.ID), itoa(a.ID), "2999-01-01 00:00:00").Code)

	rec := s.do(http.MethodDelete, "/venues/"+itoa(v.ID), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["flashes"], "Venue id "+itoa(v.ID)+" was successfully deleted!")

	rec = s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	shows := decode[[]model.ShowListing](t, s.do(http.MethodGet, "/shows", nil, true))
	assert.Empty(t, shows)

	// unknown id is a no-op success
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/venues/9999", nil, true).Code)
	assert.Contains(t, s.pub.types(), queue.VenueDeleted)
}

func TestShowWithUnknownVenueIsConstraintFailure(t *testing.T) {
	s := newServer(t)
	a := s.createArtist(t, "Solo")

	rec := s.createShow(t, "4242", itoa(a.ID), "2999-01-01 00:00:00")
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, []any{"An error occurred. Show could not be listed."}, body["flashes"])
	assert.Equal(t, "constraint", body["kind"])
	assert.NotContains(t, s.pub.types(), queue.ShowListed)

	shows := decode[[]model.ShowListing](t, s.do(http.MethodGet, "/shows", nil, true))
	assert.Empty(t, shows)
}

func TestShowFormValidation(t *testing.T) {
	s := newServer(t)
	rec := s.createShow(t, "abc", "1", "whenever")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["errors"])

	rec = s.do(http.MethodGet, "/shows/create", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	form := decode[map[string]string](t, rec)
	assert.Equal(t, "2026-10-17 12:00:00", form["start_time"])
}

func TestGroupedVenueListing(t *testing.T) {
	s := newServer(t)
	s.createVenue(t, venueForm("Austin One", "Austin", "TX"))
	s.createVenue(t, venueForm("Denver One", "Denver", "CO"))
	s.createVenue(t, venueForm("Austin Two", "Austin", "TX"))

	areas := decode[[]model.VenueArea](t, s.do(http.MethodGet, "/venues", nil, true))
	require.Len(t, areas, 2)
	assert.Equal(t, "Austin", areas[0].City)
	assert.Len(t, areas[0].Venues, 2)
	assert.Equal(t, "Denver", areas[1].City)
	assert.Len(t, areas[1].Venues, 1)
}

func TestCreateVenueValidationFailure(t *testing.T) {
	s := newServer(t)
	form := venueForm("", "Austin", "XX")
	rec := s.do(http.MethodPost, "/venues/create", form, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}](t, rec)
	fields := []string{}
	for _, fe := range body.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"Name", "State"}, fields)
	assert.Equal(t, "validation", decode[map[string]any](t, rec)["kind"])

	areas := decode[[]model.VenueArea](t, s.do(http.MethodGet, "/venues", nil, true))
	assert.Empty(t, areas)
	assert.Empty(t, s.pub.types())

	exposed := s.do(http.MethodGet, "/metrics", nil, false).Body.String()
	assert.Contains(t, exposed, `store_failures_total{kind="validation"} 1`)
}

func TestCreateFailuresReportKind(t *testing.T) {
	s := newServer(t)
	for _, table := range []string{"venues", "artists"} {
		_, err := s.db.Exec(`CREATE TRIGGER reject_` + table + ` BEFORE INSERT ON ` + table +
			` BEGIN SELECT RAISE(ABORT, 'listing closed'); END`)
		require.NoError(t, err)
	}

	rec := s.do(http.MethodPost, "/venues/create", venueForm("Closed Hall", "Austin", "TX"), true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "constraint", body["kind"])
	assert.Equal(t, []any{"An error occurred. Venue Closed Hall could not be listed."}, body["flashes"])

	rec = s.do(http.MethodPost, "/artists/create", artistForm("Closed Band"), true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, "constraint", body["kind"])
	assert.Equal(t, []any{"An error occurred. Artist Closed Band could not be listed."}, body["flashes"])

	assert.Empty(t, s.pub.types())
}

func TestMissingRecords(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/artists/77", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/venues/77/edit", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/venues/77/edit", venueForm("X", "Austin", "TX"), true).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/artists/77/edit", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/artists/77/edit", artistForm("X"), true).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/venues/abc", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/venues/abc", nil, false).Code)
}

func TestEditVenueRedirectsWithFlash(t *testing.T) {
	s := newServer(t)
	v := s.createVenue(t, venueForm("Old Name", "Austin", "TX"))

	form := venueForm("New Name", "Austin", "TX")
	form.Set("seeking_talent", "on")
	rec := s.do(http.MethodPost, "/venues/"+itoa(v.ID)+"/edit", form, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/venues/"+itoa(v.ID), rec.Header().Get(echo.HeaderLocation))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	page := s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, false, cookies...)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Venue New Name was successfully updated!")
	assert.Contains(t, page.Body.String(), "<h1>New Name</h1>")

	d := decode[model.VenueDetail](t, s.do(http.MethodGet, "/venues/"+itoa(v.ID), nil, true))
	assert.True(t, d.SeekingTalent)
	assert.Contains(t, s.pub.types(), queue.VenueUpdated)
}

func TestEditArtist(t *testing.T) {
	s := newServer(t)
	a := s.createArtist(t, "Before")

	rec := s.do(http.MethodGet, "/artists/"+itoa(a.ID)+"/edit", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Before"`)

	rec = s.do(http.MethodPost, "/artists/"+itoa(a.ID)+"/edit", artistForm("After"), false)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	d := decode[model.ArtistDetail](t, s.do(http.MethodGet, "/artists/"+itoa(a.ID), nil, true))
	assert.Equal(t, "After", d.Name)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	s := newServer(t)
	s.pub.err = errors.New("broker down")

	v := s.createVenue(t, venueForm("Resilient", "Austin", "TX"))
	assert.NotZero(t, v.ID)
}

func TestHTMLPages(t *testing.T) {
	s := newServer(t)
	s.createVenue(t, venueForm("Park Square", "Austin", "TX"))

	for _, path := range []string{"/", "/venues", "/artists", "/shows", "/venues/create", "/artists/create", "/shows/create"} {
		rec := s.do(http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML, path)
	}
	assert.Contains(t, s.do(http.MethodGet, "/venues", nil, false).Body.String(), "Austin, TX")
	assert.Contains(t, s.do(http.MethodGet, "/", nil, false).Body.String(), "Park Square")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	a := s.createArtist(t, "Solo")
	s.createShow(t, "999", itoa(a.ID), "2999-01-01 00:00:00")

	rec = s.do(http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `store_failures_total{kind="constraint"} 1`)
}
