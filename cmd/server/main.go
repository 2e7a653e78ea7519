package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinema-ticket-ledger/internal/config"
	"github.com/iliyamo/cinema-ticket-ledger/internal/handler"
	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
	"github.com/iliyamo/cinema-ticket-ledger/internal/logger"
	"github.com/iliyamo/cinema-ticket-ledger/internal/middleware"
	"github.com/iliyamo/cinema-ticket-ledger/internal/publisher"
	"github.com/iliyamo/cinema-ticket-ledger/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.Setup(cfg.Env, cfg.LogLevel)

	l := ledger.New(cfg.LedgerOptions()...)
	if cfg.SeedOnStart {
		l.Seed(ledger.DefaultShowtimes)
		lg.Info().Int("movies", len(l.ListMovies())).Msg("seeded default showtimes")
	}

	rdb, err := config.NewRedisClient(cfg.Redis)
	switch {
	case err != nil:
		lg.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable; rate limiting and caching disabled")
	case rdb == nil:
		lg.Info().Msg("redis not configured; rate limiting and caching disabled")
	default:
		defer rdb.Close()
	}

	if cfg.RabbitURL == "" {
		lg.Info().Msg("RABBITMQ_URL not set; booking events disabled")
	}
	h := handler.NewBookingHandler(l, publisher.New(cfg.RabbitURL))

	e := router.New(cfg, lg, rdb)
	router.RegisterRoutes(e)
	router.RegisterBooking(e, h, middleware.NewRedisCache(cfg.Cache, rdb))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		lg.Info().Str("addr", addr).Str("env", cfg.Env).
			Int("capacity", l.Capacity()).Int("ticket_price", l.TicketPrice()).
			Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	lg.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("shutdown")
	}
	h.Wait()
	lg.Info().Msg("stopped server")
}
