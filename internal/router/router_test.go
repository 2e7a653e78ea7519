package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/iliyamo/cinema-ticket-ledger/internal/config"
	"github.com/iliyamo/cinema-ticket-ledger/internal/handler"
	"github.com/iliyamo/cinema-ticket-ledger/internal/ledger"
	"github.com/iliyamo/cinema-ticket-ledger/internal/middleware"
	"github.com/iliyamo/cinema-ticket-ledger/internal/model"
	"github.com/iliyamo/cinema-ticket-ledger/internal/queue"
)

type recordingPublisher struct {
	mu        sync.Mutex
	bookings  []queue.BookingConfirmedEvent
	showtimes []queue.ShowtimeRegisteredEvent
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookings = append(p.bookings, ev)
	return nil
}

func (p *recordingPublisher) PublishShowtimeRegistered(_ context.Context, ev queue.ShowtimeRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showtimes = append(p.showtimes, ev)
	return nil
}

type APITestSuite struct {
	suite.Suite
	e      *echo.Echo
	ledger *ledger.Ledger
	h      *handler.BookingHandler
	events *recordingPublisher
}

func (s *APITestSuite) SetupTest() {
	cfg := config.Config{}
	s.ledger = ledger.NewSeeded()
	s.events = &recordingPublisher{}
	s.h = handler.NewBookingHandler(s.ledger, s.events)

	s.e = New(cfg, zerolog.Nop(), nil)
	RegisterRoutes(s.e)
	RegisterBooking(s.e, s.h, middleware.NewRedisCache(cfg.Cache, nil))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *APITestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", rec.Body.String())
}

func (s *APITestSuite) TestReserveTickets() {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantKind   string
	}{
		{
			name:       "should reject a missing count",
			body:       echo.Map{"movie": "Frozen II", "time": "12:00 PM"},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "should reject a non numeric count",
			body:       echo.Map{"movie": "Frozen II", "time": "12:00 PM", "count": "three"},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "should reject zero tickets",
			body:       echo.Map{"movie": "Frozen II", "time": "12:00 PM", "count": 0},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "should reject a blank movie",
			body:       echo.Map{"movie": " ", "time": "12:00 PM", "count": 1},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "should report an unknown showtime",
			body:       echo.Map{"movie": "Unknown Movie", "time": "1:00 PM", "count": 1},
			wantStatus: http.StatusNotFound,
			wantKind:   "unknown_showtime",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/v1/reservations", tt.body)
			s.Equal(tt.wantStatus, rec.Code)

			var resp map[string]any
			s.decode(rec, &resp)
			s.Equal(tt.wantKind, resp["error"])
		})
	}

	st, err := s.ledger.Showtime("Frozen II", "12:00 PM")
	s.Require().NoError(err)
	s.Zero(st.ReservedSeats)
}

func (s *APITestSuite) TestReserveTickets_CapacityScenario() {
	rec := s.do(http.MethodPost, "/v1/reservations", echo.Map{"movie": "Frozen II", "time": "12:00 PM", "count": 30})
	s.Require().Equal(http.StatusOK, rec.Code)

	var receipt model.Receipt
	s.decode(rec, &receipt)
	s.Equal(30, receipt.TicketCount)
	s.Equal(4500, receipt.TotalPrice)
	s.Equal(30, receipt.ReservedSeats)
	s.Equal(100, receipt.Capacity)

	rec = s.do(http.MethodPost, "/v1/reservations", echo.Map{"movie": "Frozen II", "time": "12:00 PM", "count": 80})
	s.Require().Equal(http.StatusConflict, rec.Code)
	var conflict struct {
		Error     string `json:"error"`
		Remaining int    `json:"remaining"`
	}
	s.decode(rec, &conflict)
	s.Equal("capacity_exceeded", conflict.Error)
	s.Equal(70, conflict.Remaining)

	rec = s.do(http.MethodGet, "/v1/movies/Frozen%20II/showtimes/12:00%20PM", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var st model.Showtime
	s.decode(rec, &st)
	s.Equal(30, st.ReservedSeats)
	s.Equal(70, st.RemainingSeats)

	s.h.Wait()
	s.Require().Len(s.events.bookings, 1)
	s.Equal(receipt.BookingID, s.events.bookings[0].BookingID)
	s.Equal(4500, s.events.bookings[0].TotalPrice)
}

func (s *APITestSuite) TestRegisterShowtimeThenReserve() {
	rec := s.do(http.MethodPost, "/v1/showtimes", echo.Map{"movie": "Dune: Part Three", "time": "9:00 PM"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/v1/reservations", echo.Map{"movie": "Dune: Part Three", "time": "9:00 PM", "count": 5})
	s.Require().Equal(http.StatusOK, rec.Code)
	var receipt model.Receipt
	s.decode(rec, &receipt)
	s.Equal(5, receipt.ReservedSeats)

	rec = s.do(http.MethodGet, "/v1/showtimes?movie=Dune:%20Part%20Three", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var times []string
	s.decode(rec, &times)
	s.Equal([]string{"9:00 PM"}, times)

	s.h.Wait()
	s.Require().Len(s.events.showtimes, 1)
	s.Equal("Dune: Part Three", s.events.showtimes[0].Movie)
}

func (s *APITestSuite) TestListShowtimes_PercentInTitle() {
	rec := s.do(http.MethodPost, "/v1/showtimes", echo.Map{"movie": "A%41", "time": "1:00 PM"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/v1/movies/A%2541/showtimes", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var times []string
	s.decode(rec, &times)
	s.Equal([]string{"1:00 PM"}, times)
}

func (s *APITestSuite) TestRegisterShowtime_Invalid() {
	rec := s.do(http.MethodPost, "/v1/showtimes", echo.Map{"movie": "Dune"})
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp map[string]any
	s.decode(rec, &resp)
	s.Equal("invalid_input", resp["error"])
	s.Equal("time is required", resp["message"])
	s.NotContains(s.ledger.ListMovies(), "Dune")
}

func (s *APITestSuite) TestListings() {
	rec := s.do(http.MethodGet, "/v1/movies", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var movies []string
	s.decode(rec, &movies)
	s.Equal([]string{"Avengers: Endgame", "Frozen II", "The Lion King"}, movies)

	rec = s.do(http.MethodGet, "/v1/movies/The%20Lion%20King/showtimes", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var times []string
	s.decode(rec, &times)
	s.Equal([]string{"12:00 PM", "3:00 PM", "6:00 PM"}, times)

	rec = s.do(http.MethodGet, "/v1/movies/Cats/showtimes", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	var resp map[string]any
	s.decode(rec, &resp)
	s.Equal("unknown_movie", resp["error"])

	rec = s.do(http.MethodGet, "/v1/showtimes", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/v1/movies/Frozen%20II/showtimes/11:00%20PM", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func TestCachedShowtimeReflectsReservation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:        true,
			Capacity:       60,
			RefillTokens:   1,
			RefillInterval: time.Second,
			TTL:            time.Minute,
			Prefix:         "rl",
		},
		Cache: config.CacheConfig{
			Enabled:     true,
			Methods:     map[string]bool{http.MethodGet: true},
			TTL:         time.Minute,
			KeyStrategy: "route_query",
			Prefix:      "cache",
		},
	}
	h := handler.NewBookingHandler(ledger.NewSeeded(), nil)
	e := New(cfg, zerolog.Nop(), rdb)
	RegisterBooking(e, h, middleware.NewRedisCache(cfg.Cache, rdb))

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	const showtime = "/v1/movies/Frozen%20II/showtimes/12:00%20PM"

	require.Equal(t, "MISS", serve(http.MethodGet, showtime, "").Header().Get("X-Cache"))
	hit := serve(http.MethodGet, showtime, "")
	require.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Len(t, hit.Header().Values(echo.HeaderXRequestID), 1)
	assert.Len(t, hit.Header().Values("X-RateLimit-Remaining"), 1)

	rec := serve(http.MethodPost, "/v1/reservations", `{"movie":"Frozen II","time":"12:00 PM","count":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodGet, showtime, "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var st model.Showtime
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 30, st.ReservedSeats)
	assert.Equal(t, 70, st.RemainingSeats)
	h.Wait()
}
