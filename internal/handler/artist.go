package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/booking-directory/internal/queue"
	"github.com/iliyamo/booking-directory/internal/render"
	"github.com/iliyamo/booking-directory/internal/repository"
	"github.com/iliyamo/booking-directory/internal/validation"
)

// ListArtists renders the flat artist list.
func (h *Handler) ListArtists(c echo.Context) error {
	artists, err := h.Artists.List(c.Request().Context())
	if err != nil {
		return h.readFailure(c, "list artists", err)
	}
	return h.page(c, http.StatusOK, "pages/artists", render.View{Title: "Artists", Data: artists}, artists)
}

// SearchArtists renders the artists whose name contains search_term.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term")
	found, err := h.Artists.Search(c.Request().Context(), term)
	if err != nil {
		return h.readFailure(c, "search artists", err)
	}
	res := echo.Map{"count": len(found), "data": found, "search_term": term}
	return h.page(c, http.StatusOK, "pages/search_artists", render.View{Title: "Artist search", Data: res}, res)
}

// ShowArtist renders an artist with its past and upcoming shows.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.Artists.Detail(c.Request().Context(), id, h.Now())
	if errors.Is(err, repository.ErrArtistNotFound) {
		return h.page(c, http.StatusOK, "pages/show_artist", render.View{Title: "Artist"}, nil)
	}
	if err != nil {
		return h.readFailure(c, "artist detail", err)
	}
	return h.page(c, http.StatusOK, "pages/show_artist", render.View{Title: d.Name, Data: d}, d)
}

func (h *Handler) CreateArtistForm(c echo.Context) error {
	form := validation.ArtistForm{}
	return h.page(c, http.StatusOK, "forms/new_artist", render.View{Title: "New artist", Form: form}, form)
}

// CreateArtist validates the submitted form and lists the artist.
func (h *Handler) CreateArtist(c echo.Context) error {
	var form validation.ArtistForm
	err := c.Bind(&form)
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		errs, kind := h.rejected(c, "create artist", err)
		flash(c, errs.Error())
		return h.page(c, kind.HTTPStatus(), "forms/new_artist",
			render.View{Title: "New artist", Form: form, Errors: errs},
			echo.Map{"errors": errs, "kind": kind.String(), "flashes": pendingFlashes(c)})
	}

	a := form.Artist()
	if err := h.Artists.Create(c.Request().Context(), &a); err != nil {
		kind := h.storeFailure(c, "create artist", err)
		flash(c, fmt.Sprintf("An error occurred. Artist %s could not be listed.", a.Name))
		return h.home(c, kind.HTTPStatus(), echo.Map{"kind": kind.String()})
	}
	h.committed(c, queue.NewEvent(queue.ArtistListed, a.ID, a.Name, h.Now()))
	flash(c, fmt.Sprintf("Artist %s was successfully listed!", a.Name))
	return h.home(c, http.StatusOK, echo.Map{"artist": a})
}

// EditArtistForm renders the edit form prefilled from the stored artist.
func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrArtistNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return h.readFailure(c, "get artist", err)
	}
	form := validation.ArtistFormFrom(*a)
	return h.page(c, http.StatusOK, "forms/edit_artist", render.View{Title: "Edit artist", Data: a, Form: form}, a)
}

// EditArtist validates the submitted form and updates the artist, then
// redirects to the artist page.
func (h *Handler) EditArtist(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var form validation.ArtistForm
	err = c.Bind(&form)
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		errs, kind := h.rejected(c, "update artist", err)
		flash(c, errs.Error())
		return h.page(c, kind.HTTPStatus(), "forms/edit_artist",
			render.View{Title: "Edit artist", Data: echo.Map{"ID": id, "Name": form.Name}, Form: form, Errors: errs},
			echo.Map{"errors": errs, "kind": kind.String(), "flashes": pendingFlashes(c)})
	}

	a := form.Artist()
	a.ID = id
	if err := h.Artists.Update(c.Request().Context(), &a); err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return echo.ErrNotFound
		}
		kind := h.storeFailure(c, "update artist", err)
		flash(c, fmt.Sprintf("An error occurred. Artist %s could not be updated.", a.Name))
		return h.page(c, kind.HTTPStatus(), "forms/edit_artist",
			render.View{Title: "Edit artist", Data: a, Form: form},
			echo.Map{"kind": kind.String(), "flashes": pendingFlashes(c)})
	}
	h.committed(c, queue.NewEvent(queue.ArtistUpdated, a.ID, a.Name, h.Now()))
	flash(c, fmt.Sprintf("Artist %s was successfully updated!", a.Name))
	return redirect(c, fmt.Sprintf("/artists/%d", id))
}
