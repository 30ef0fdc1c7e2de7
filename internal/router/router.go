// Package router wires the handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/booking-directory/internal/handler"
	"github.com/iliyamo/booking-directory/internal/middleware"
)

// Options carries the optional middleware of the server.  Zero values
// disable the corresponding feature.
type Options struct {
	Cache     *middleware.RedisCache // caches GET listing pages
	RateLimit echo.MiddlewareFunc    // guards form submissions
	Log       zerolog.Logger
}

// New returns an echo instance with the renderer, error handler, global
// middleware and every route registered.
func New(h *handler.Handler, renderer echo.Renderer, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = h.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.ContextLogger(opts.Log))
	e.Use(middleware.RequestLogger())

	RegisterRoutes(e, h, opts)
	return e
}

// RegisterRoutes maps every page and probe.  Listing pages go through the
// response cache, writes through the rate limiter.  Detail pages are never
// cached: their past and upcoming buckets depend on the time of the request.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, opts Options) {
	cached := opts.Cache.Middleware()
	limited := opts.RateLimit
	if limited == nil {
		limited = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.Metrics.Handler()))

	e.GET("/", h.Home, cached)

	// Venues
	e.GET("/venues", h.ListVenues, cached)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/create", h.CreateVenueForm)
	e.POST("/venues/create", h.CreateVenue, limited)
	e.GET("/venues/:id", h.ShowVenue)
	e.DELETE("/venues/:id", h.DeleteVenue, limited)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.EditVenue, limited)

	// Artists
	e.GET("/artists", h.ListArtists, cached)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/create", h.CreateArtistForm)
	e.POST("/artists/create", h.CreateArtist, limited)
	e.GET("/artists/:id", h.ShowArtist)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.EditArtist, limited)

	// Shows
	e.GET("/shows", h.ListShows, cached)
	e.GET("/shows/create", h.CreateShowForm)
	e.POST("/shows/create", h.CreateShow, limited)
}
