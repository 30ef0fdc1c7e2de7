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

// ListVenues renders every venue grouped by city and state.
func (h *Handler) ListVenues(c echo.Context) error {
	areas, err := h.Venues.Areas(c.Request().Context())
	if err != nil {
		return h.readFailure(c, "list venues", err)
	}
	return h.page(c, http.StatusOK, "pages/venues", render.View{Title: "Venues", Data: areas}, areas)
}

// SearchVenues renders the venues whose name contains search_term.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term")
	found, err := h.Venues.Search(c.Request().Context(), term)
	if err != nil {
		return h.readFailure(c, "search venues", err)
	}
	res := echo.Map{"count": len(found), "data": found, "search_term": term}
	return h.page(c, http.StatusOK, "pages/search_venues", render.View{Title: "Venue search", Data: res}, res)
}

// ShowVenue renders a venue with its past and upcoming shows.  An unknown
// id renders the empty venue page.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.Venues.Detail(c.Request().Context(), id, h.Now())
	if errors.Is(err, repository.ErrVenueNotFound) {
		return h.page(c, http.StatusOK, "pages/show_venue", render.View{Title: "Venue"}, nil)
	}
	if err != nil {
		return h.readFailure(c, "venue detail", err)
	}
	return h.page(c, http.StatusOK, "pages/show_venue", render.View{Title: d.Name, Data: d}, d)
}

// CreateVenueForm renders the blank venue form.
func (h *Handler) CreateVenueForm(c echo.Context) error {
	form := validation.VenueForm{}
	return h.page(c, http.StatusOK, "forms/new_venue", render.View{Title: "New venue", Form: form}, form)
}

// CreateVenue validates the submitted form and lists the venue.  Success
// and store failures both land on the home page.
func (h *Handler) CreateVenue(c echo.Context) error {
	var form validation.VenueForm
	err := c.Bind(&form)
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		errs, kind := h.rejected(c, "create venue", err)
		flash(c, errs.Error())
		return h.page(c, kind.HTTPStatus(), "forms/new_venue",
			render.View{Title: "New venue", Form: form, Errors: errs},
			echo.Map{"errors": errs, "kind": kind.String(), "flashes": pendingFlashes(c)})
	}

	v := form.Venue()
	if err := h.Venues.Create(c.Request().Context(), &v); err != nil {
		kind := h.storeFailure(c, "create venue", err)
		flash(c, fmt.Sprintf("An error occurred. Venue %s could not be listed.", v.Name))
		return h.home(c, kind.HTTPStatus(), echo.Map{"kind": kind.String()})
	}
	h.committed(c, queue.NewEvent(queue.VenueListed, v.ID, v.Name, h.Now()))
	flash(c, fmt.Sprintf("Venue %s was successfully listed!", v.Name))
	return h.home(c, http.StatusOK, echo.Map{"venue": v})
}

// EditVenueForm renders the edit form prefilled from the stored venue.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrVenueNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return h.readFailure(c, "get venue", err)
	}
	form := validation.VenueFormFrom(*v)
	return h.page(c, http.StatusOK, "forms/edit_venue", render.View{Title: "Edit venue", Data: v, Form: form}, v)
}

// EditVenue validates the submitted form and updates the venue, then
// redirects to the venue page.
func (h *Handler) EditVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var form validation.VenueForm
	err = c.Bind(&form)
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		errs, kind := h.rejected(c, "update venue", err)
		flash(c, errs.Error())
		return h.page(c, kind.HTTPStatus(), "forms/edit_venue",
			render.View{Title: "Edit venue", Data: echo.Map{"ID": id, "Name": form.Name}, Form: form, Errors: errs},
			echo.Map{"errors": errs, "kind": kind.String(), "flashes": pendingFlashes(c)})
	}

	v := form.Venue()
	v.ID = id
	if err := h.Venues.Update(c.Request().Context(), &v); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return echo.ErrNotFound
		}
		kind := h.storeFailure(c, "update venue", err)
		flash(c, fmt.Sprintf("An error occurred. Venue %s could not be updated.", v.Name))
		return h.page(c, kind.HTTPStatus(), "forms/edit_venue",
			render.View{Title: "Edit venue", Data: v, Form: form},
			echo.Map{"kind": kind.String(), "flashes": pendingFlashes(c)})
	}
	h.committed(c, queue.NewEvent(queue.VenueUpdated, v.ID, v.Name, h.Now()))
	flash(c, fmt.Sprintf("Venue %s was successfully updated!", v.Name))
	return redirect(c, fmt.Sprintf("/venues/%d", id))
}

// DeleteVenue removes a venue and its shows.  The outcome is answered as
// JSON and also carried to the next page in the flash cookie.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
		kind := h.storeFailure(c, "delete venue", err)
		flash(c, fmt.Sprintf("An error occurred. Venue id %d could not be deleted.", id))
		keepFlashes(c)
		return c.JSON(kind.HTTPStatus(), echo.Map{"success": false, "kind": kind.String(), "flashes": pendingFlashes(c)})
	}
	h.committed(c, queue.NewEvent(queue.VenueDeleted, id, "", h.Now()))
	flash(c, fmt.Sprintf("Venue id %d was successfully deleted!", id))
	keepFlashes(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "flashes": pendingFlashes(c)})
}
