package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/booking-directory/internal/model"
	"github.com/iliyamo/booking-directory/internal/queue"
	"github.com/iliyamo/booking-directory/internal/render"
	"github.com/iliyamo/booking-directory/internal/validation"
)

// ListShows renders every show with its venue and artist.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := h.Shows.List(c.Request().Context())
	if err != nil {
		return h.readFailure(c, "list shows", err)
	}
	return h.page(c, http.StatusOK, "pages/shows", render.View{Title: "Shows", Data: shows}, shows)
}

// CreateShowForm renders the blank show form with the start time set to now.
func (h *Handler) CreateShowForm(c echo.Context) error {
	form := validation.NewShowForm(h.Now())
	return h.page(c, http.StatusOK, "forms/new_show", render.View{Title: "New show", Form: form}, form)
}

// CreateShow lists a show.  Unknown venue or artist ids are rejected by
// the store and reported as a failed listing.
func (h *Handler) CreateShow(c echo.Context) error {
	var form validation.ShowForm
	var show model.Show
	err := c.Bind(&form)
	if err == nil {
		show, err = form.Show()
	}
	if err != nil {
		errs, kind := h.rejected(c, "create show", err)
		flash(c, errs.Error())
		return h.page(c, kind.HTTPStatus(), "forms/new_show",
			render.View{Title: "New show", Form: form, Errors: errs},
			echo.Map{"errors": errs, "kind": kind.String(), "flashes": pendingFlashes(c)})
	}

	if err := h.Shows.Create(c.Request().Context(), &show); err != nil {
		kind := h.storeFailure(c, "create show", err)
		flash(c, "An error occurred. Show could not be listed.")
		return h.home(c, kind.HTTPStatus(), echo.Map{"kind": kind.String()})
	}
	ev := queue.NewEvent(queue.ShowListed, show.ID, "", h.Now())
	ev.VenueID, ev.ArtistID = show.VenueID, show.ArtistID
	ev.StartTime = show.StartTime.Format(model.StartTimeLayout)
	h.committed(c, ev)
	flash(c, "Show was successfully listed!")
	return h.home(c, http.StatusOK, echo.Map{"show": show})
}
