package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/iliyamo/booking-directory/internal/middleware"
	"github.com/iliyamo/booking-directory/internal/render"
)

// ErrorHandler is the echo HTTPErrorHandler.  It renders the error page or
// a JSON error and logs server faults.
func (h *Handler) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		mw.GetLogger(c).Error().Err(err).Int("status", status).Msg("request failed")
	}

	var werr error
	switch {
	case c.Request().Method == http.MethodHead:
		werr = c.NoContent(status)
	case wantsJSON(c):
		werr = c.JSON(status, echo.Map{"error": message})
	default:
		werr = c.Render(status, "pages/error", render.View{Title: http.StatusText(status), Data: message})
	}
	if werr != nil {
		mw.GetLogger(c).Error().Err(werr).Msg("write error response")
	}
}
