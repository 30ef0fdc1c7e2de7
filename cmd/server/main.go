package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/booking-directory/internal/config"
	"github.com/iliyamo/booking-directory/internal/database"
	"github.com/iliyamo/booking-directory/internal/handler"
	"github.com/iliyamo/booking-directory/internal/logger"
	"github.com/iliyamo/booking-directory/internal/metrics"
	"github.com/iliyamo/booking-directory/internal/middleware"
	"github.com/iliyamo/booking-directory/internal/queue"
	"github.com/iliyamo/booking-directory/internal/render"
	"github.com/iliyamo/booking-directory/internal/router"
	"github.com/iliyamo/booking-directory/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("dev", "info")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.App.Env, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, cleanup, err := newServer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("start server")
	}
	defer cleanup()

	go func() {
		addr := ":" + cfg.App.Port
		log.Info().Str("addr", addr).Str("env", cfg.App.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
}

// newServer opens the store and wires every collaborator into an echo
// instance.  cleanup releases the store and the redis client.
func newServer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*echo.Echo, func(), error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	// Redis backs the response cache and the rate limiter; both switch off
	// when it is unreachable.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn().Str("addr", cfg.Redis.Address).Msg("redis unavailable, cache and rate limit disabled")
	}
	cache := middleware.NewRedisCache(cfg.Cache, rdb)

	var events service.Publisher = service.Noop{}
	if cfg.Messaging.Enabled {
		events = service.NewAMQPPublisher(cfg.Messaging.URL, cfg.Messaging.Queue)
		if cfg.Messaging.Consume {
			go func() {
				if err := queue.StartActivityConsumer(ctx, cfg.Messaging, log); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("activity consumer stopped")
				}
			}()
		}
	}

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = db.Close()
	}

	renderer, err := render.New()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("parse templates: %w", err)
	}

	h := handler.New(db, events, cache, metrics.New(), log)
	e := router.New(h, renderer, router.Options{
		Cache:     cache,
		RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		Log:       log,
	})
	return e, cleanup, nil
}
