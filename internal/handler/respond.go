package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	mw "github.com/iliyamo/booking-directory/internal/middleware"
	"github.com/iliyamo/booking-directory/internal/render"
	"github.com/iliyamo/booking-directory/internal/validation"
)

const flashesKey = "flashes"

// wantsJSON reports whether the client negotiated JSON through Accept.
func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// parseID reads the :id path parameter.  Anything but a positive integer is
// treated like an unknown route.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// flash queues a message for the page rendered by this request.
func flash(c echo.Context, msg string) {
	list, _ := c.Get(flashesKey).([]string)
	c.Set(flashesKey, append(list, msg))
}

func pendingFlashes(c echo.Context) []string {
	list, _ := c.Get(flashesKey).([]string)
	if list == nil {
		return []string{}
	}
	return list
}

// carriedFlashes decodes the messages a previous request left in the flash
// cookie.
func carriedFlashes(c echo.Context) []string {
	ck, err := c.Cookie(mw.FlashCookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// keepFlashes stores the queued messages in the flash cookie so they
// survive a redirect.
func keepFlashes(c echo.Context) {
	list := pendingFlashes(c)
	if len(list) == 0 {
		return
	}
	raw, _ := json.Marshal(list)
	c.SetCookie(&http.Cookie{
		Name:     mw.FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// consumeFlashes returns carried and queued messages and expires the
// cookie when one was sent.
func consumeFlashes(c echo.Context) []string {
	carried := carriedFlashes(c)
	if carried != nil {
		c.SetCookie(&http.Cookie{Name: mw.FlashCookieName, Value: "", Path: "/", MaxAge: -1})
	}
	return append(carried, pendingFlashes(c)...)
}

// page renders the named template, or payload as JSON when the client asked
// for it.  A nil payload is sent as an empty object.
func (h *Handler) page(c echo.Context, status int, name string, v render.View, payload any) error {
	if wantsJSON(c) {
		if payload == nil {
			payload = echo.Map{}
		}
		return c.JSON(status, payload)
	}
	v.Flashes = append(consumeFlashes(c), v.Flashes...)
	if v.Form != nil {
		v.States = validation.States
		v.Genres = validation.Genres
	}
	return c.Render(status, name, v)
}

// redirect sends a 303 to url, carrying queued flashes along.
func redirect(c echo.Context, url string) error {
	keepFlashes(c)
	return c.Redirect(http.StatusSeeOther, url)
}

// formErrors extracts field errors from a failed form validation or bind.
func formErrors(err error) validation.Errors {
	if errs, ok := err.(validation.Errors); ok {
		return errs
	}
	return validation.Errors{{Field: "Form", Message: err.Error()}}
}
