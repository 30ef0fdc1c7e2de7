package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/booking-directory/internal/model"
	mw "github.com/iliyamo/booking-directory/internal/middleware"
	"github.com/iliyamo/booking-directory/internal/render"
)

// Home renders the landing page with the most recent listings.
func (h *Handler) Home(c echo.Context) error {
	return h.home(c, http.StatusOK, nil)
}

// home renders the landing page with status.  Create handlers land here
// after a submission; extra is merged into the JSON payload.
func (h *Handler) home(c echo.Context, status int, extra echo.Map) error {
	ctx := c.Request().Context()
	venues, err := h.Venues.Recent(ctx, recentLimit)
	if err != nil {
		mw.GetLogger(c).Warn().Err(err).Msg("recent venues")
		venues = []model.VenueSummary{}
	}
	artists, err := h.Artists.Recent(ctx, recentLimit)
	if err != nil {
		mw.GetLogger(c).Warn().Err(err).Msg("recent artists")
		artists = []model.ArtistSummary{}
	}
	data := echo.Map{"recent_venues": venues, "recent_artists": artists}

	payload := echo.Map{"flashes": pendingFlashes(c), "recent_venues": venues, "recent_artists": artists}
	for k, v := range extra {
		payload[k] = v
	}
	return h.page(c, status, "pages/home", render.View{Data: data}, payload)
}
