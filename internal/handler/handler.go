// Package handler exposes the HTTP handlers of the booking directory.  A
// single Handler value carries every collaborator a page needs; there is no
// package level state.
package handler

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/booking-directory/internal/metrics"
	mw "github.com/iliyamo/booking-directory/internal/middleware"
	"github.com/iliyamo/booking-directory/internal/queue"
	"github.com/iliyamo/booking-directory/internal/repository"
	"github.com/iliyamo/booking-directory/internal/service"
	"github.com/iliyamo/booking-directory/internal/sqlerr"
	"github.com/iliyamo/booking-directory/internal/validation"
)

// recentLimit is the number of venues and artists shown on the home page.
const recentLimit = 10

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Invalidator drops cached pages after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type noCache struct{}

func (noCache) Invalidate(context.Context) error { return nil }

// Handler bundles repositories and collaborators for the page handlers.
type Handler struct {
	Venues  *repository.VenueRepo  // venue persistence
	Artists *repository.ArtistRepo // artist persistence
	Shows   *repository.ShowRepo   // show persistence
	Store   Pinger                 // liveness probe target
	Events  service.Publisher      // activity events
	Cache   Invalidator            // response cache
	Metrics *metrics.Metrics
	Log     zerolog.Logger
	Now     func() time.Time // clock used to split past and upcoming shows
}

// New builds a Handler on db.  A nil publisher, cache or metrics set is
// replaced by a no-op.
func New(db *sqlx.DB, events service.Publisher, cache Invalidator, m *metrics.Metrics, log zerolog.Logger) *Handler {
	if db == nil {
		panic("nil database passed to handler.New")
	}
	if events == nil {
		events = service.Noop{}
	}
	if cache == nil {
		cache = noCache{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		Venues:  repository.NewVenueRepo(db),
		Artists: repository.NewArtistRepo(db),
		Shows:   repository.NewShowRepo(db),
		Store:   db,
		Events:  events,
		Cache:   cache,
		Metrics: m,
		Log:     log,
		Now:     time.Now,
	}
}

// storeFailure classifies err, records it and returns its kind.
func (h *Handler) storeFailure(c echo.Context, op string, err error) sqlerr.Kind {
	kind := sqlerr.Classify(err)
	h.Metrics.StoreFailures.WithLabelValues(kind.String()).Inc()
	mw.GetLogger(c).Error().Err(err).
		Str("op", op).
		Str("kind", kind.String()).
		Bool("retryable", kind.Retryable()).
		Msg("store failure")
	return kind
}

// rejected records a form that failed binding or validation and returns
// its field errors with KindValidation.
func (h *Handler) rejected(c echo.Context, op string, err error) (validation.Errors, sqlerr.Kind) {
	errs := formErrors(err)
	kind := sqlerr.Classify(sqlerr.WithKind(sqlerr.KindValidation, errs))
	h.Metrics.StoreFailures.WithLabelValues(kind.String()).Inc()
	mw.GetLogger(c).Info().
		Str("op", op).
		Str("kind", kind.String()).
		Int("fields", len(errs)).
		Msg("form rejected")
	return errs, kind
}

// readFailure turns a failed query into an HTTP error for the error handler.
func (h *Handler) readFailure(c echo.Context, op string, err error) error {
	kind := h.storeFailure(c, op, err)
	return echo.NewHTTPError(kind.HTTPStatus(), "The directory is temporarily unavailable.").SetInternal(err)
}

// committed publishes ev and drops cached pages after a successful write.
// Neither step can fail the request.
func (h *Handler) committed(c echo.Context, ev queue.ActivityEvent) {
	ctx := c.Request().Context()
	log := mw.GetLogger(c)
	if err := h.Cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
	ev.RequestID = mw.GetRequestID(c)
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Metrics.EventsPublished.WithLabelValues(ev.Type, "error").Inc()
		log.Warn().Err(err).Str("event", ev.Type).Msg("publish failed")
		return
	}
	h.Metrics.EventsPublished.WithLabelValues(ev.Type, "ok").Inc()
}
