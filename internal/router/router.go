// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-ticket-ledger/internal/config"
	"github.com/iliyamo/cinema-ticket-ledger/internal/handler"
	"github.com/iliyamo/cinema-ticket-ledger/internal/middleware"
	"github.com/iliyamo/cinema-ticket-ledger/internal/validator"
)

// New builds the Echo instance with the shared middleware chain.  rdb may
// be nil, which disables rate limiting and response caching.
func New(cfg config.Config, logger zerolog.Logger, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &validator.EchoValidator{V: validator.NewValidator()}

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb))

	return e
}

// RegisterRoutes registers routes that are not part of the versioned API.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking mounts the ledger endpoints under /v1.  Listings go
// through the response cache; writes purge it.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)

	// staff
	g.POST("/showtimes", h.RegisterShowtime)

	// customer
	g.POST("/reservations", h.ReserveTickets)

	// listings
	g.GET("/movies", h.ListMovies)
	g.GET("/showtimes", h.ListShowtimes)
	g.GET("/movies/:movie/showtimes", h.ListShowtimes)
	g.GET("/movies/:movie/showtimes/:time", h.GetShowtime)
}
