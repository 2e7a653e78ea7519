package handler

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
	"github.com/iliyamo/cinema-ticket-ledger/internal/model"
	"github.com/iliyamo/cinema-ticket-ledger/internal/publisher"
	"github.com/iliyamo/cinema-ticket-ledger/internal/queue"
)

// publishTimeout bounds a single background publish.
const publishTimeout = 5 * time.Second

// BookingHandler exposes the ledger over HTTP.  Staff endpoints register
// showtimes, customer endpoints reserve tickets, and the read endpoints
// populate pickers in front ends.  Successful writes are announced on the
// message broker in the background.
type BookingHandler struct {
	Ledger *ledger.Ledger
	Events publisher.Publisher

	wg sync.WaitGroup
}

// NewBookingHandler panics when ledger is nil.  A nil publisher disables
// events.
func NewBookingHandler(l *ledger.Ledger, events publisher.Publisher) *BookingHandler {
	if l == nil {
		panic("nil ledger passed to NewBookingHandler")
	}
	if events == nil {
		events = publisher.Noop{}
	}
	return &BookingHandler{Ledger: l, Events: events}
}

// Wait blocks until every background publish has finished.
func (h *BookingHandler) Wait() { h.wg.Wait() }

func (h *BookingHandler) emit(name string, fn func(ctx context.Context) error) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Warn().Err(err).Str("event", name).Msg("publish failed")
		}
	}()
}

// RegisterShowtime handles POST /v1/showtimes.  The body must contain
// non-blank "movie" and "time".  Registering an existing showtime resets
// its reservations.  Returns 200 with the registered showtime.
func (h *BookingHandler) RegisterShowtime(c echo.Context) error {
	var body model.RegisterShowtimeRequest
	if err := c.Bind(&body); err != nil {
		return invalidInput(c, "invalid request body")
	}
	if err := c.Validate(&body); err != nil {
		return invalidInput(c, err.Error())
	}
	if err := h.Ledger.RegisterShowtime(body.Movie, body.Time); err != nil {
		return ledgerError(c, err)
	}

	st, err := h.Ledger.Showtime(body.Movie, body.Time)
	if err != nil {
		return ledgerError(c, err)
	}
	h.emit(queue.ShowtimeRegisteredQueue, func(ctx context.Context) error {
		return h.Events.PublishShowtimeRegistered(ctx, queue.ShowtimeRegisteredEvent{
			Movie:        st.Movie,
			Time:         st.Time,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		})
	})
	return c.JSON(http.StatusOK, st)
}

// ReserveTickets handles POST /v1/reservations with body
// {"movie", "time", "count"}.  Returns 200 with the receipt, 400 for bad
// input, 404 for an unknown showtime and 409 with "remaining" when the
// showtime cannot take that many tickets.
func (h *BookingHandler) ReserveTickets(c echo.Context) error {
	var body model.ReserveTicketsRequest
	if err := c.Bind(&body); err != nil {
		return invalidInput(c, "invalid request body")
	}
	if err := c.Validate(&body); err != nil {
		return invalidInput(c, err.Error())
	}
	receipt, err := h.Ledger.ReserveTickets(body.Movie, body.Time, *body.Count)
	if err != nil {
		return ledgerError(c, err)
	}

	ev := queue.NewBookingConfirmedEvent(receipt)
	h.emit(queue.BookingConfirmedQueue, func(ctx context.Context) error {
		return h.Events.PublishBookingConfirmed(ctx, ev)
	})
	return c.JSON(http.StatusOK, receipt)
}

// ListMovies handles GET /v1/movies.
func (h *BookingHandler) ListMovies(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Ledger.ListMovies())
}

// ListShowtimes handles GET /v1/movies/:movie/showtimes and
// GET /v1/showtimes?movie=.  The query form suits titles containing '/'.
func (h *BookingHandler) ListShowtimes(c echo.Context) error {
	movie := c.QueryParam("movie")
	if movie == "" {
		movie = pathParam(c, "movie")
	}
	if movie == "" {
		return invalidInput(c, "movie is required")
	}
	times, err := h.Ledger.ListShowtimes(movie)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, times)
}

// GetShowtime handles GET /v1/movies/:movie/showtimes/:time and returns the
// current occupancy.
func (h *BookingHandler) GetShowtime(c echo.Context) error {
	st, err := h.Ledger.Showtime(pathParam(c, "movie"), pathParam(c, "time"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// pathParam returns the decoded path parameter.  Echo routes on the raw
// path only when the request carries escapes such as %2F, and only then
// does the value still need unescaping.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
