package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// LoggerKey is the echo context key of the request-scoped logger.
const LoggerKey = "logger"

// ContextLogger stores a child of base tagged with the request id, method
// and route in the echo context.
func ContextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Logger()
			c.Set(LoggerKey, &l)
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
			return next(c)
		}
	}
}

// GetLogger returns the request-scoped logger or a disabled one.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}

// RequestLogger emits one line per request with a level picked from the
// final status code.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogMethod:  true,
		// resolve the final status before logging
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			// the error handler has not written the response yet
			var he *echo.HTTPError
			if v.Error != nil && errors.As(v.Error, &he) {
				status = he.Code
			}

			l := GetLogger(c)
			var e *zerolog.Event
			switch {
			case status >= 500:
				e = l.Error().Err(v.Error)
			case status >= 400:
				e = l.Warn()
			default:
				e = l.Info()
			}
			e.Dur("latency", v.Latency).
				Int("status", status).
				Str("uri", v.URI).
				Str("ip", c.RealIP()).
				Str("cache", c.Response().Header().Get("X-Cache")).
				Msg("request")
			return nil
		},
	})
}
